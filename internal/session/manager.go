package session

import (
	"context"
	"sync"
	"time"

	"github.com/ThePerryDev/MindCare-sub000/internal/trails"

	log "github.com/sirupsen/logrus"
)

// Manager enforces the one-session-per-device rule: starting a new
// session first tears down whatever is still running.
type Manager struct {
	recorder executionRecorder
	tracker  progressTracker

	tickInterval time.Duration

	mutex  sync.Mutex
	active *Engine
}

func NewManager(recorder executionRecorder, tracker progressTracker) *Manager {
	return &Manager{
		recorder: recorder,
		tracker:  tracker,
	}
}

func (m *Manager) StartSession(
	ctx context.Context,
	trail *trails.TrailDefinition,
	stepNumber int,
	triggerTag string,
) (*Engine, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.active != nil {
		log.Debugf("session: tearing down active session before starting a new one")
		m.active.Stop()
		m.active = nil
	}

	engine, err := NewEngine(NewEngineParams{
		Trail:        trail,
		StepNumber:   stepNumber,
		TriggerTag:   triggerTag,
		Recorder:     m.recorder,
		Tracker:      m.tracker,
		TickInterval: m.tickInterval,
	})
	if err != nil {
		return nil, err
	}

	if err := engine.Start(ctx); err != nil {
		return nil, err
	}

	m.active = engine
	return engine, nil
}

func (m *Manager) Active() *Engine {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.active
}

// CompleteActive completes the active session and forgets it on
// success. On failure the session stays active and finished so the
// completion can be retried.
func (m *Manager) CompleteActive(ctx context.Context) error {
	m.mutex.Lock()
	active := m.active
	m.mutex.Unlock()

	if active == nil {
		return ErrNotFinished
	}

	if err := active.Complete(ctx); err != nil {
		return err
	}

	m.mutex.Lock()
	if m.active == active {
		m.active = nil
	}
	m.mutex.Unlock()
	return nil
}

// StopActive abandons the active session without persisting anything.
func (m *Manager) StopActive() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.active != nil {
		m.active.Stop()
		m.active = nil
	}
}
