// Session command running one guided countdown exercise.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThePerryDev/MindCare-sub000/internal/client"
	"github.com/ThePerryDev/MindCare-sub000/internal/progression"
	"github.com/ThePerryDev/MindCare-sub000/internal/session"
	"github.com/ThePerryDev/MindCare-sub000/internal/trails"

	"github.com/spf13/cobra"
)

var sessionTriggerTag string

var sessionCmd = &cobra.Command{
	Use:   "session <trail-code>",
	Short: "Run a guided session for the trail's next step",
	Long: `Session runs the countdown for the next step of a trail. When the
countdown finishes, the exercise is recorded on the backend and the
local progression advances, in that order. Interrupting the session
persists nothing.

Example:
  mindcare session trilha-ansiedade
  mindcare session trilha-estresse --feeling estresse`,
	Args: cobra.ExactArgs(1),
	RunE: runSession,
}

func init() {
	sessionCmd.Flags().StringVar(&sessionTriggerTag, "feeling", "", "feeling that triggered this exercise")
}

// apiRecorder adapts the backend client to the session engine's
// recorder, always tagging CLI runs as manual.
type apiRecorder struct {
	api *client.Client
}

func (r *apiRecorder) RecordExecution(ctx context.Context, trailID, stepNumber int, triggerTag string) error {
	_, err := r.api.RecordExecution(ctx, trails.RecordExecutionRequest{
		TrailID:    trailID,
		TrailDay:   stepNumber,
		TriggerTag: triggerTag,
		TagSource:  string(trails.SourceManual),
	})
	return err
}

func runSession(cmd *cobra.Command, args []string) error {
	apiClient, _, err := newAPIClient()
	if err != nil {
		return err
	}

	tracker, err := newTracker()
	if err != nil {
		return err
	}

	trailCode := args[0]
	trail, err := apiClient.GetTrail(cmd.Context(), trailCode)
	if err != nil {
		return err
	}

	nextStep := tracker.NextStep(trailCode)
	if nextStep > trails.StepsPerTrail {
		return fmt.Errorf(
			"trail %s is completed, run \"mindcare progress restart %s\" to start a new cycle",
			trailCode, trailCode,
		)
	}

	step, err := trail.Step(nextStep)
	if err != nil {
		return err
	}

	manager := session.NewManager(&apiRecorder{api: apiClient}, tracker)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(chOsInterrupt)

	engine, err := manager.StartSession(ctx, trail, nextStep, sessionTriggerTag)
	if err != nil {
		return err
	}

	fmt.Printf("%s, step %d: %s\n", trail.Name, step.Order, step.Title)
	if step.Goal != "" {
		fmt.Printf("goal: %s\n", step.Goal)
	}
	fmt.Printf("duration: %s\n\n", formatSeconds(engine.Duration()))

	displayTicker := time.NewTicker(time.Second)
	defer displayTicker.Stop()

	for engine.State() != session.StateFinished {
		select {
		case <-chOsInterrupt:
			manager.StopActive()
			fmt.Println("\nsession abandoned, nothing recorded")
			return nil
		case <-displayTicker.C:
			fmt.Printf("\r  %s remaining ", formatSeconds(engine.Remaining()))
		}
	}
	fmt.Println("\n\nstep finished, recording ...")

	if err := manager.CompleteActive(ctx); err != nil {
		if errors.Is(err, client.ErrNotAuthenticated) {
			return errors.New("not logged in, run \"mindcare login\" and complete the step manually")
		}
		return fmt.Errorf("failed to record the completed step, progression not advanced: %w", err)
	}

	progress := tracker.Render(trailCode)
	if progress.Status == progression.StatusCompleted {
		fmt.Printf("trail %s completed, congratulations!\n", trailCode)
	} else {
		fmt.Printf("progress: step %d/7 done (%d%%)\n", progress.CompletedSteps, progress.ProgressPercent)
	}
	return nil
}

func formatSeconds(totalSeconds int) string {
	return fmt.Sprintf("%02d:%02d", totalSeconds/60, totalSeconds%60)
}
