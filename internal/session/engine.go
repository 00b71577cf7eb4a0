package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThePerryDev/MindCare-sub000/internal/trails"

	log "github.com/sirupsen/logrus"
)

var (
	ErrNotIdle         = errors.New("session already started")
	ErrNotRunning      = errors.New("session not running")
	ErrNotPaused       = errors.New("session not paused")
	ErrAlreadyFinished = errors.New("session already finished")
	ErrNotFinished     = errors.New("session not finished yet")
)

type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StatePaused   State = "paused"
	StateFinished State = "finished"
)

// executionRecorder persists one completed exercise, normally over the
// backend API.
type executionRecorder interface {
	RecordExecution(ctx context.Context, trailID, stepNumber int, triggerTag string) error
}

// progressTracker advances the device-local step cursor.
type progressTracker interface {
	Advance(trailCode string) (int, error)
}

// Engine runs one guided exercise as a countdown. It owns no
// persistence itself: only Complete touches the recorder and the
// tracker, and only in that order, so a failed write never advances
// the local cursor.
type Engine struct {
	trail      *trails.TrailDefinition
	stepNumber int
	triggerTag string

	recorder executionRecorder
	tracker  progressTracker

	tickInterval time.Duration

	mutex     sync.Mutex
	state     State
	duration  int // seconds
	remaining int
	cancel    context.CancelFunc
	loopDone  chan struct{}
}

type NewEngineParams struct {
	Trail      *trails.TrailDefinition
	StepNumber int
	TriggerTag string
	Recorder   executionRecorder
	Tracker    progressTracker

	// TickInterval shortens the countdown in tests, it defaults to
	// one second.
	TickInterval time.Duration
}

func NewEngine(params NewEngineParams) (*Engine, error) {
	if params.Trail == nil {
		return nil, errors.New("trail cannot be nil")
	}
	if params.StepNumber < 1 || params.StepNumber > trails.StepsPerTrail {
		return nil, fmt.Errorf("invalid step number: %d", params.StepNumber)
	}

	tickInterval := params.TickInterval
	if tickInterval <= 0 {
		tickInterval = time.Second
	}

	duration := params.Trail.StepDurationSeconds(params.StepNumber)
	return &Engine{
		trail:        params.Trail,
		stepNumber:   params.StepNumber,
		triggerTag:   params.TriggerTag,
		recorder:     params.Recorder,
		tracker:      params.Tracker,
		tickInterval: tickInterval,
		state:        StateIdle,
		duration:     duration,
		remaining:    duration,
	}, nil
}

func (e *Engine) State() State {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.state
}

// Remaining returns the seconds left on the countdown.
func (e *Engine) Remaining() int {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	return e.remaining
}

func (e *Engine) Duration() int {
	return e.duration
}

// Start begins the countdown. The tick loop stops on its own when the
// countdown reaches zero, when Stop is called, or when ctx is
// cancelled.
func (e *Engine) Start(ctx context.Context) error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.state != StateIdle {
		return ErrNotIdle
	}

	loopCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.loopDone = make(chan struct{})
	e.state = StateRunning

	go e.tickLoop(loopCtx)

	log.Debugf("session: trail %s step %d started, %ds", e.trail.Code, e.stepNumber, e.duration)
	return nil
}

func (e *Engine) tickLoop(ctx context.Context) {
	defer close(e.loopDone)

	ticker := time.NewTicker(e.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if e.tick() {
				return
			}
		}
	}
}

// tick decrements the countdown by one second and reports whether the
// loop should stop.
func (e *Engine) tick() bool {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.state != StateRunning {
		return false
	}

	e.remaining--
	if e.remaining > 0 {
		return false
	}

	e.remaining = 0
	e.state = StateFinished
	log.Debugf("session: trail %s step %d finished", e.trail.Code, e.stepNumber)
	return true
}

func (e *Engine) Pause() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	switch e.state {
	case StateFinished:
		return ErrAlreadyFinished
	case StateRunning:
		e.state = StatePaused
		return nil
	default:
		return ErrNotRunning
	}
}

func (e *Engine) Resume() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	switch e.state {
	case StateFinished:
		return ErrAlreadyFinished
	case StatePaused:
		e.state = StateRunning
		return nil
	default:
		return ErrNotPaused
	}
}

// Reset puts the full duration back on the clock and keeps the
// countdown going. A finished session cannot be reset.
func (e *Engine) Reset() error {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if e.state == StateFinished {
		return ErrAlreadyFinished
	}
	if e.state == StateIdle {
		return ErrNotRunning
	}

	e.remaining = e.duration
	e.state = StateRunning
	return nil
}

// Complete persists the finished exercise and then advances the local
// cursor, strictly in that order. On a failed write the session stays
// finished and nothing advances, so the caller can surface the error
// and retry.
func (e *Engine) Complete(ctx context.Context) error {
	e.mutex.Lock()
	if e.state != StateFinished {
		e.mutex.Unlock()
		return ErrNotFinished
	}
	e.mutex.Unlock()

	if err := e.recorder.RecordExecution(ctx, e.trail.ID, e.stepNumber, e.triggerTag); err != nil {
		return fmt.Errorf("record execution: %w", err)
	}

	if _, err := e.tracker.Advance(e.trail.Code); err != nil {
		return fmt.Errorf("advance progression: %w", err)
	}

	e.teardown()
	log.Debugf("session: trail %s step %d completed and recorded", e.trail.Code, e.stepNumber)
	return nil
}

// Stop tears the session down without persisting anything. Safe to
// call at any point and more than once.
func (e *Engine) Stop() {
	e.teardown()
}

func (e *Engine) teardown() {
	e.mutex.Lock()
	cancel := e.cancel
	loopDone := e.loopDone
	e.cancel = nil
	e.state = StateIdle
	e.remaining = e.duration
	e.mutex.Unlock()

	if cancel != nil {
		cancel()
	}
	if loopDone != nil {
		<-loopDone
	}

	e.mutex.Lock()
	e.loopDone = nil
	e.mutex.Unlock()
}
