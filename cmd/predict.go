package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"appraiser/internal/types"
	"appraiser/internal/valuation"
)

func predictCmd(opts *rootOptions) *cobra.Command {
	// Defaults match the form a first-time user sees.
	f := types.Features{
		Bedrooms:          3,
		Bathrooms:         2,
		LivingArea:        2000,
		Condition:         3,
		AirportDistanceKm: 10,
		SchoolsNearby:     2,
		Latitude:          52.7609,
		Longitude:         -114.418,
	}

	c := &cobra.Command{
		Use:   "predict",
		Short: "Predict the fair price of a property described by flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := f.Validate(); err != nil {
				return fmt.Errorf("invalid input: %w", err)
			}

			a, err := loadApp(cmd.Context(), opts, false)
			if err != nil {
				return err
			}

			pred, err := a.engine.PredictFromInputs(valuation.InputsFromFeatures(f))
			if err != nil {
				return err
			}
			renderPrediction(os.Stdout, a.theme, a.cfg.Currency, pred)
			if region := a.region(f.Latitude, f.Longitude); region != "" {
				fmt.Println(a.theme.Label.Render("Region: " + region))
			}
			return nil
		},
	}

	flags := c.Flags()
	flags.IntVar(&f.Bedrooms, "bedrooms", f.Bedrooms, "number of bedrooms")
	flags.Float64Var(&f.Bathrooms, "bathrooms", f.Bathrooms, "number of bathrooms")
	flags.IntVar(&f.LivingArea, "living-area", f.LivingArea, "living area in square feet")
	flags.BoolVar(&f.Waterfront, "waterfront", f.Waterfront, "waterfront present")
	flags.IntVar(&f.Condition, "condition", f.Condition, "condition of the house (1-5)")
	flags.Float64Var(&f.AirportDistanceKm, "distance", f.AirportDistanceKm, "distance from the airport in km")
	flags.IntVar(&f.SchoolsNearby, "schools", f.SchoolsNearby, "number of schools nearby")
	flags.Float64Var(&f.Latitude, "lat", f.Latitude, "latitude")
	flags.Float64Var(&f.Longitude, "lon", f.Longitude, "longitude")
	return c
}
