package trails

import (
	"errors"
	"fmt"
)

// StepsPerTrail - every trail is a fixed 7-step guided program.
const StepsPerTrail = 7

var ErrTrailNotFound = errors.New("trail not found")

type TrailStep struct {
	Order           int    `json:"order"` // 1..7
	Title           string `json:"title"`
	DurationMinutes *int   `json:"durationMinutes,omitempty"`
	Goal            string `json:"goal,omitempty"`
}

type TrailDefinition struct {
	ID                     int            `json:"id"`
	Code                   string         `json:"code"`
	Name                   string         `json:"name"`
	DefaultDurationMinutes *int           `json:"defaultDurationMinutes,omitempty"`
	Steps                  []TrailStep    `json:"steps"`
	RecommendedTags        []EmotionalTag `json:"recommendedTags"`
}

// Validate checks the catalog invariant: exactly 7 steps, with order
// values exactly 1..7, no gaps and no repeats.
func (t *TrailDefinition) Validate() error {
	if t.Code == "" {
		return fmt.Errorf("trail %d: code empty", t.ID)
	}
	if len(t.Steps) != StepsPerTrail {
		return fmt.Errorf("trail %s: has %d steps, want %d", t.Code, len(t.Steps), StepsPerTrail)
	}

	seen := make(map[int]bool, StepsPerTrail)
	for _, step := range t.Steps {
		if step.Order < 1 || step.Order > StepsPerTrail {
			return fmt.Errorf("trail %s: step order %d out of range", t.Code, step.Order)
		}
		if seen[step.Order] {
			return fmt.Errorf("trail %s: step order %d repeated", t.Code, step.Order)
		}
		seen[step.Order] = true
	}

	for _, tag := range t.RecommendedTags {
		if !tag.IsValid() {
			return fmt.Errorf("trail %s: unknown recommended tag %q", t.Code, tag)
		}
	}

	return nil
}

// Step returns the step with the given order value.
func (t *TrailDefinition) Step(order int) (*TrailStep, error) {
	for i := range t.Steps {
		if t.Steps[i].Order == order {
			return &t.Steps[i], nil
		}
	}
	return nil, fmt.Errorf("trail %s: no step with order %d", t.Code, order)
}

// StepDurationSeconds resolves the target duration for the given step:
// step duration first, then the trail-level default, then a fixed
// 5 minutes. The resolution order matters.
func (t *TrailDefinition) StepDurationSeconds(order int) int {
	const fallbackSeconds = 5 * 60

	step, err := t.Step(order)
	if err == nil && step.DurationMinutes != nil {
		return *step.DurationMinutes * 60
	}
	if t.DefaultDurationMinutes != nil {
		return *t.DefaultDurationMinutes * 60
	}
	return fallbackSeconds
}
