package progression

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/ThePerryDev/MindCare-sub000/internal/trails"

	log "github.com/sirupsen/logrus"
)

var (
	ErrTrailLocked  = errors.New("trail is locked")
	ErrNotCompleted = errors.New("trail cycle not completed")
)

type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusLocked     Status = "locked"
)

// TrailProgress is the derived, never-persisted view over the stored
// step cursor.
type TrailProgress struct {
	TrailCode       string `json:"trailCode"`
	Status          Status `json:"status"`
	NextStep        int    `json:"nextStep"`
	CompletedSteps  int    `json:"completedSteps"`
	ProgressPercent int    `json:"progressPercent"`
	CompletionCount int    `json:"completionCount"`
}

type cursorStore interface {
	Get(key string) (int, bool)
	Set(key string, value int) error
}

// Tracker drives the per-trail progression off a single persisted
// integer cursor per trail. The status enum is always derived from the
// cursor on render and never stored, so the two cannot drift apart.
type Tracker struct {
	store  cursorStore
	mutex  sync.RWMutex
	locked map[string]bool
}

func NewTracker(store cursorStore) *Tracker {
	return &Tracker{
		store:  store,
		locked: make(map[string]bool),
	}
}

func cursorKey(trailCode string) string {
	return fmt.Sprintf("%s||next", trailCode)
}

func cyclesKey(trailCode string) string {
	return fmt.Sprintf("%s||cycles", trailCode)
}

// SetLocked flips the external lock override for a trail. Locking is
// never derived from the cursor.
func (t *Tracker) SetLocked(trailCode string, locked bool) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.locked[trailCode] = locked
}

func (t *Tracker) isLocked(trailCode string) bool {
	t.mutex.RLock()
	defer t.mutex.RUnlock()
	return t.locked[trailCode]
}

// NextStep returns the clamped cursor for a trail. A trail never seen
// before starts at step 1.
func (t *Tracker) NextStep(trailCode string) int {
	nextStep, ok := t.store.Get(cursorKey(trailCode))
	if !ok {
		return 1
	}
	return clampCursor(nextStep)
}

// Advance moves the cursor one step forward and persists it. The cursor
// caps at one past the last step; a completed trail stays completed
// until an explicit Restart, repeated calls past the cap are no-ops.
func (t *Tracker) Advance(trailCode string) (int, error) {
	if t.isLocked(trailCode) {
		return 0, ErrTrailLocked
	}

	nextStep := t.NextStep(trailCode)
	if nextStep > trails.StepsPerTrail {
		log.Tracef("progression: advance on completed trail %s, ignoring", trailCode)
		return nextStep, nil
	}

	nextStep++
	if err := t.store.Set(cursorKey(trailCode), nextStep); err != nil {
		return 0, fmt.Errorf("persist cursor: %w", err)
	}

	log.Debugf("progression: trail %s advanced to step %d", trailCode, nextStep)
	return nextStep, nil
}

// Restart opens a new cycle on a completed trail: the cursor goes back
// to 1 and the finished cycle is counted.
func (t *Tracker) Restart(trailCode string) error {
	if t.isLocked(trailCode) {
		return ErrTrailLocked
	}

	if t.NextStep(trailCode) <= trails.StepsPerTrail {
		return ErrNotCompleted
	}

	cycles, _ := t.store.Get(cyclesKey(trailCode))
	if err := t.store.Set(cyclesKey(trailCode), cycles+1); err != nil {
		return fmt.Errorf("persist cycle count: %w", err)
	}
	if err := t.store.Set(cursorKey(trailCode), 1); err != nil {
		return fmt.Errorf("persist cursor: %w", err)
	}

	log.Debugf("progression: trail %s restarted, %d cycles finished", trailCode, cycles+1)
	return nil
}

// Render derives the progress view from the stored cursor. It never
// fails, out-of-range stored values are clamped back into [1, 8].
func (t *Tracker) Render(trailCode string) TrailProgress {
	nextStep := t.NextStep(trailCode)
	completedSteps := nextStep - 1
	if completedSteps > trails.StepsPerTrail {
		completedSteps = trails.StepsPerTrail
	}

	status := StatusInProgress
	switch {
	case t.isLocked(trailCode):
		status = StatusLocked
	case nextStep == 1:
		status = StatusNotStarted
	case nextStep > trails.StepsPerTrail:
		status = StatusCompleted
	}

	cycles, _ := t.store.Get(cyclesKey(trailCode))

	return TrailProgress{
		TrailCode:       trailCode,
		Status:          status,
		NextStep:        nextStep,
		CompletedSteps:  completedSteps,
		ProgressPercent: int(math.Round(float64(completedSteps) / float64(trails.StepsPerTrail) * 100)),
		CompletionCount: cycles,
	}
}

func clampCursor(nextStep int) int {
	if nextStep < 1 {
		return 1
	}
	if nextStep > trails.StepsPerTrail+1 {
		return trails.StepsPerTrail + 1
	}
	return nextStep
}
