package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// loadWatchlist returns the property IDs saved in the watchlist file, in the order they were
// added. A missing file is an empty watchlist.
func loadWatchlist(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // nothing saved yet
		}
		return nil, err
	}
	defer f.Close()

	var ids []int64
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("watchlist %s line %d: %w", path, line, err)
		}
		ids = append(ids, id)
	}
	return ids, scanner.Err()
}

// saveToWatchlist appends id to the watchlist unless it is already there. It reports
// whether the ID was added.
func saveToWatchlist(path string, id int64) (bool, error) {
	existing, err := loadWatchlist(path)
	if err != nil {
		return false, err
	}
	for _, e := range existing {
		if e == id {
			return false, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return false, err
	}
	defer f.Close()

	if _, err := fmt.Fprintln(f, id); err != nil {
		return false, err
	}
	return true, nil
}

// saveAndReport saves id and tells the user what happened.
func (a *app) saveAndReport(id int64) {
	added, err := saveToWatchlist(a.cfg.Watchlist, id)
	switch {
	case err != nil:
		fmt.Printf("Failed to save to watchlist: %v\n", err)
	case added:
		fmt.Println("Saved to watchlist.")
	default:
		fmt.Println("Already on the watchlist.")
	}
}

func watchlistCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watchlist",
		Short: "Show saved properties with their current valuation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}

			ids, err := loadWatchlist(a.cfg.Watchlist)
			if err != nil {
				return fmt.Errorf("failed to load watchlist: %w", err)
			}
			if len(ids) == 0 {
				fmt.Println("No properties saved yet. Use `appraiser compare <id> --save` to add one.")
				return nil
			}

			var (
				shown []int64
				lines []string
			)
			for _, id := range ids {
				c, err := a.engine.PredictAndCompare(id)
				if err != nil {
					// Saved IDs can outlive the dataset they came from.
					a.log.Warn("watchlist entry not valued", "id", id, "error", err)
					continue
				}
				line := summaryLine(a.cfg.Currency, c)
				shown = append(shown, id)
				lines = append(lines, line)
				fmt.Println(line)
			}

			if isInteractive() && len(shown) > 0 {
				interactiveSelect(shown, lines, a.theme.Help.Render("(↑/↓ to navigate, Enter to view details, Esc to quit)"), func(id int64) {
					a.showComparison(id, false)
				})
			}
			return nil
		},
	}
}
