// Stats command showing the aggregate execution report.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	statsPeriod     string
	statsJSONOutput bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate exercise stats",
	Long: `Stats shows the aggregate report over the recorded executions:
totals, per-trail counts and per-feeling counts.

Example:
  mindcare stats
  mindcare stats --period week`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsPeriod, "period", "all", "period [day | week | month | year | all]")
	statsCmd.Flags().BoolVar(&statsJSONOutput, "json", false, "output raw JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	apiClient, _, err := newAPIClient()
	if err != nil {
		return err
	}

	report, err := apiClient.Stats(cmd.Context(), statsPeriod)
	if err != nil {
		return err
	}

	if statsJSONOutput {
		reportJson, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(reportJson))
		return nil
	}

	fmt.Printf("period: %s\n", report.Period)
	if report.WindowStart != nil && report.WindowEnd != nil {
		fmt.Printf("window: %s .. %s\n",
			report.WindowStart.Format("2006-01-02"),
			report.WindowEnd.Format("2006-01-02"),
		)
	}
	fmt.Printf("exercises: %d, distinct trails: %d\n", report.TotalExercises, report.DistinctTrailCount)

	if len(report.PerTrail) > 0 {
		fmt.Println("per trail:")
		for _, trailCount := range report.PerTrail {
			fmt.Printf("  trail %d: %d\n", trailCount.TrailID, trailCount.TotalExercises)
		}
	}
	if len(report.PerTag) > 0 {
		fmt.Println("per feeling:")
		for _, tagCount := range report.PerTag {
			fmt.Printf("  %s: %d\n", tagCount.Tag, tagCount.TotalExercises)
		}
	}
	return nil
}
