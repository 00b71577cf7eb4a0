// Progress commands over the device-local progression cursor.
package main

import (
	"errors"
	"fmt"

	"github.com/ThePerryDev/MindCare-sub000/internal/progression"

	"github.com/spf13/cobra"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show local trail progression",
	Long: `Progress shows the progression cursor kept on this device for every
trail in the catalog: the next step, the status and how many full
cycles were finished.

Example:
  mindcare progress
  mindcare progress restart trilha-ansiedade`,
	RunE: runProgress,
}

var progressRestartCmd = &cobra.Command{
	Use:   "restart <trail-code>",
	Short: "Restart a completed trail for a new cycle",
	Args:  cobra.ExactArgs(1),
	RunE:  runProgressRestart,
}

func init() {
	progressCmd.AddCommand(progressRestartCmd)
}

func runProgress(cmd *cobra.Command, args []string) error {
	apiClient, _, err := newAPIClient()
	if err != nil {
		return err
	}

	tracker, err := newTracker()
	if err != nil {
		return err
	}

	listedTrails, err := apiClient.ListTrails(cmd.Context())
	if err != nil {
		return err
	}

	for _, trail := range listedTrails {
		progress := tracker.Render(trail.Code)
		fmt.Printf("%-20s %-12s step %d/7, %3d%%, cycles: %d\n",
			trail.Code,
			progress.Status,
			progress.CompletedSteps,
			progress.ProgressPercent,
			progress.CompletionCount,
		)
	}
	return nil
}

func runProgressRestart(cmd *cobra.Command, args []string) error {
	tracker, err := newTracker()
	if err != nil {
		return err
	}

	trailCode := args[0]
	if err := tracker.Restart(trailCode); err != nil {
		if errors.Is(err, progression.ErrNotCompleted) {
			return fmt.Errorf("trail %s has no finished cycle to restart", trailCode)
		}
		return err
	}

	fmt.Printf("trail %s restarted, cycles finished: %d\n",
		trailCode, tracker.Render(trailCode).CompletionCount)
	return nil
}
