// Trails commands listing the catalog and single trails.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/ThePerryDev/MindCare-sub000/internal/trails"

	"github.com/spf13/cobra"
)

var trailsJSONOutput bool

var trailsCmd = &cobra.Command{
	Use:   "trails [code]",
	Short: "List the trail catalog, or show one trail",
	Long: `Trails lists the catalog of guided trails. With a trail code it
shows that trail's steps.

Example:
  mindcare trails
  mindcare trails trilha-ansiedade
  mindcare trails --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrails,
}

func init() {
	trailsCmd.Flags().BoolVar(&trailsJSONOutput, "json", false, "output raw JSON")
}

func runTrails(cmd *cobra.Command, args []string) error {
	apiClient, _, err := newAPIClient()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		trail, err := apiClient.GetTrail(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printTrail(trail)
	}

	listedTrails, err := apiClient.ListTrails(cmd.Context())
	if err != nil {
		return err
	}

	if trailsJSONOutput {
		trailsJson, err := json.MarshalIndent(listedTrails, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(trailsJson))
		return nil
	}

	for _, trail := range listedTrails {
		fmt.Printf("%-20s %s (%d steps)\n", trail.Code, trail.Name, len(trail.Steps))
	}
	return nil
}

func printTrail(trail *trails.TrailDefinition) error {
	if trailsJSONOutput {
		trailJson, err := json.MarshalIndent(trail, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(trailJson))
		return nil
	}

	fmt.Printf("%s [%s]\n", trail.Name, trail.Code)
	for _, step := range trail.Steps {
		fmt.Printf("  %d. %s (%ds)\n", step.Order, step.Title, trail.StepDurationSeconds(step.Order))
	}
	return nil
}
