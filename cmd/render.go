package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"appraiser/internal/types"
)

type theme struct {
	Title       lipgloss.Style
	Label       lipgloss.Style
	Help        lipgloss.Style
	Overpriced  lipgloss.Style
	Undervalued lipgloss.Style
	Fair        lipgloss.Style
	Card        lipgloss.Style
}

func defaultTheme() theme {
	return theme{
		Title:       lipgloss.NewStyle().Bold(true),
		Label:       lipgloss.NewStyle().Faint(true),
		Help:        lipgloss.NewStyle().Faint(true),
		Overpriced:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		Undervalued: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		Fair:        lipgloss.NewStyle().Bold(true),
		Card: lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")),
	}
}

// formatMoney renders v rounded to cents with thousands separators, e.g. ₹1,234,567.89.
func formatMoney(symbol string, v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	s := d.Abs().StringFixed(2)
	whole, cents := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	if d.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteString(symbol)
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteByte('.')
	b.WriteString(cents)
	return b.String()
}

// verdictLine phrases a valuation the way buyers read it.
func (t theme) verdictLine(symbol string, v types.Valuation) string {
	switch v.Verdict {
	case types.Overpriced:
		return t.Overpriced.Render("The property is overpriced by " + formatMoney(symbol, v.Magnitude))
	case types.Undervalued:
		return t.Undervalued.Render("The property is undervalued by " + formatMoney(symbol, v.Magnitude))
	default:
		return t.Fair.Render("The property is fairly priced")
	}
}

func renderPrediction(w io.Writer, t theme, symbol string, p types.Prediction) {
	fmt.Fprintln(w, t.Card.Render(
		t.Label.Render("Predicted price")+"\n"+t.Title.Render(formatMoney(symbol, p.Price)),
	))
}

func renderComparison(w io.Writer, t theme, symbol string, c types.Comparison, region string) {
	f := c.Record.Features

	var b strings.Builder
	b.WriteString(t.Title.Render(fmt.Sprintf("Property %d", c.Record.ID)))
	if region != "" {
		b.WriteString("  " + t.Label.Render(region))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %d bd / %.1f ba / %d sqft, condition %d/5",
		t.Label.Render("Home:"), f.Bedrooms, f.Bathrooms, f.LivingArea, f.Condition)
	if f.Waterfront {
		b.WriteString(", waterfront")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %.1f km from airport, %d schools nearby\n",
		t.Label.Render("Area:"), f.AirportDistanceKm, f.SchoolsNearby)
	fmt.Fprintf(&b, "%s %s\n", t.Label.Render("Actual price:   "), formatMoney(symbol, c.Record.Price))
	fmt.Fprintf(&b, "%s %s\n", t.Label.Render("Predicted price:"), formatMoney(symbol, c.Prediction.Price))
	b.WriteString(t.verdictLine(symbol, c.Valuation))

	fmt.Fprintln(w, t.Card.Render(b.String()))
}

// summaryLine is the one-line form used in rankings and selection lists.
func summaryLine(symbol string, c types.Comparison) string {
	return fmt.Sprintf("%-12d | %18s | %18s | %-13s | %s",
		c.Record.ID,
		formatMoney(symbol, c.Record.Price),
		formatMoney(symbol, c.Prediction.Price),
		c.Valuation.Verdict,
		formatMoney(symbol, c.Valuation.Difference),
	)
}

func recordLine(symbol string, r types.PropertyRecord) string {
	f := r.Features
	return fmt.Sprintf("%-12d | %18s | %2d bd / %.1f ba | %6d sqft",
		r.ID, formatMoney(symbol, r.Price), f.Bedrooms, f.Bathrooms, f.LivingArea)
}
