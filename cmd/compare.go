package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"appraiser/internal/valuation"
)

func compareCmd(opts *rootOptions) *cobra.Command {
	var save bool

	c := &cobra.Command{
		Use:   "compare <id>",
		Short: "Compare a dataset property's actual price with its predicted fair price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid property id %q", args[0])
			}

			a, err := loadApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}

			if !a.showComparison(id, !save && isInteractive()) {
				return fmt.Errorf("property %d not valued", id)
			}
			if save {
				a.saveAndReport(id)
			}
			return nil
		},
	}

	c.Flags().BoolVar(&save, "save", false, "add the property to the watchlist")
	return c
}

// showComparison renders the valuation for id and optionally offers to save it. It reports
// whether a valuation was shown.
func (a *app) showComparison(id int64, askSave bool) bool {
	c, err := a.engine.PredictAndCompare(id)
	if err != nil {
		if valuation.IsKind(err, valuation.KindNotFound) {
			fmt.Printf("No property found with ID %d\n", id)
		} else {
			fmt.Fprintf(os.Stderr, "valuation failed: %v\n", err)
		}
		return false
	}

	renderComparison(os.Stdout, a.theme, a.cfg.Currency, c, a.region(c.Record.Features.Latitude, c.Record.Features.Longitude))

	if askSave && confirm("Save to watchlist?") {
		a.saveAndReport(id)
	}
	return true
}
