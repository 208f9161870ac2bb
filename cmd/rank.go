package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"appraiser/internal/types"
	"appraiser/internal/valuation"
)

func rankCmd(opts *rootOptions) *cobra.Command {
	var (
		verdict string
		limit   int
	)

	c := &cobra.Command{
		Use:   "rank",
		Short: "Value every dataset property, most undervalued first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ro := valuation.RankOptions{Limit: limit}
			if verdict != "" {
				v, err := types.ParseVerdict(verdict)
				if err != nil {
					return err
				}
				ro.Verdict = v
			}
			if limit < 0 {
				return fmt.Errorf("--limit must not be negative")
			}

			a, err := loadApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}

			ranked, err := a.engine.Rank(ro)
			if err != nil {
				return err
			}
			if len(ranked) == 0 {
				fmt.Println("No properties matched.")
				return nil
			}

			ids := make([]int64, 0, len(ranked))
			lines := make([]string, 0, len(ranked))
			fmt.Println(a.theme.Title.Render(fmt.Sprintf("%-12s | %18s | %18s | %-13s | %s", "ID", "Actual", "Predicted", "Verdict", "Difference")))
			for _, cmp := range ranked {
				line := summaryLine(a.cfg.Currency, cmp)
				ids = append(ids, cmp.Record.ID)
				lines = append(lines, line)
				fmt.Println(line)
			}

			if isInteractive() {
				interactiveSelect(ids, lines, a.theme.Help.Render("(↑/↓ to navigate, Enter to view details, Esc to quit)"), func(id int64) {
					a.showComparison(id, true)
				})
			}
			return nil
		},
	}

	c.Flags().StringVar(&verdict, "verdict", "", "only show overpriced|undervalued|fairly_priced")
	c.Flags().IntVar(&limit, "limit", 20, "maximum number of properties to show (0 for all)")
	return c
}

func browseCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the dataset and value properties on demand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd.Context(), opts, true)
			if err != nil {
				return err
			}

			records := a.store.Records()
			if len(records) == 0 {
				fmt.Println("The dataset is empty.")
				return nil
			}

			ids := make([]int64, 0, len(records))
			lines := make([]string, 0, len(records))
			for _, r := range records {
				ids = append(ids, r.ID)
				lines = append(lines, recordLine(a.cfg.Currency, r))
			}

			if !isInteractive() {
				for _, l := range lines {
					fmt.Println(l)
				}
				return nil
			}
			interactiveSelect(ids, lines, a.theme.Help.Render("(↑/↓ to navigate, Enter to value, Esc to quit)"), func(id int64) {
				a.showComparison(id, true)
			})
			return nil
		},
	}
}
