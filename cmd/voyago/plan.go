package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mohammad-safakhou/voyago/config"
	"github.com/mohammad-safakhou/voyago/internal/trip/core"
	"github.com/mohammad-safakhou/voyago/internal/trip/telemetry"
)

func planCMD() *cobra.Command {
	var (
		cfgPath     string
		destination string
		startDate   string
		endDate     string
		budget      float64
		currency    string
		travelers   int
		preferences []string
		asJSON      bool
	)
	var plan = &cobra.Command{
		Use:   "plan",
		Short: "Plan a single trip and print the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}

			tele := telemetry.NewTelemetry(cfg.Telemetry)
			defer tele.Shutdown()

			planner, err := core.NewTripPlanner(cfg, tele)
			if err != nil {
				return err
			}

			state, err := planner.Plan(cmd.Context(), core.TripRequest{
				Destination: destination,
				StartDate:   startDate,
				EndDate:     endDate,
				Budget:      budget,
				Currency:    currency,
				Travelers:   travelers,
				Preferences: preferences,
			})
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(state)
			}

			fmt.Println(state.Summary)
			if len(state.Errors) > 0 {
				fmt.Fprintln(os.Stderr, "\nDiagnostics:")
				for _, e := range state.Errors {
					fmt.Fprintf(os.Stderr, "  - %s\n", e)
				}
			}
			return nil
		},
	}
	plan.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config/voyago.yaml)")
	plan.Flags().StringVar(&destination, "destination", "", "destination, e.g. \"Lisbon, Portugal\"")
	plan.Flags().StringVar(&startDate, "start", "", "start date (YYYY-MM-DD)")
	plan.Flags().StringVar(&endDate, "end", "", "end date (YYYY-MM-DD)")
	plan.Flags().Float64Var(&budget, "budget", 0, "total budget")
	plan.Flags().StringVar(&currency, "currency", "USD", "3-letter currency code")
	plan.Flags().IntVar(&travelers, "travelers", 1, "number of travelers")
	plan.Flags().StringSliceVar(&preferences, "preferences", nil, "preference tags, e.g. food,museums")
	plan.Flags().BoolVar(&asJSON, "json", false, "print the full planning state as JSON")
	_ = plan.MarkFlagRequired("destination")
	_ = plan.MarkFlagRequired("start")
	_ = plan.MarkFlagRequired("end")
	_ = plan.MarkFlagRequired("budget")

	return plan
}
