package trails

import (
	"context"
	"fmt"
	"sync"
	"time"
)

var _ executionsRepo = (*repoMock)(nil)

type repoMock struct {
	mutex   sync.Mutex
	nextID  int
	dayLogs map[string]*ExecutionLogDay // keyed by userID||day

	// RecordErr and ListErr, when set, are returned by the matching
	// operation to simulate an unreachable store.
	RecordErr error
	ListErr   error
}

func newRepoMock() *repoMock {
	return &repoMock{
		dayLogs: make(map[string]*ExecutionLogDay),
	}
}

func dayLogKey(userID, day string) string {
	return fmt.Sprintf("%s||%s", userID, day)
}

func (r *repoMock) RecordExecution(_ context.Context, userID, day string, execution Execution) (*ExecutionLogDay, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.RecordErr != nil {
		return nil, r.RecordErr
	}

	key := dayLogKey(userID, day)
	dayLog, ok := r.dayLogs[key]
	if !ok {
		r.nextID++
		dayLog = &ExecutionLogDay{
			ID:         r.nextID,
			UserID:     userID,
			Day:        day,
			Executions: make([]Execution, 0),
		}
		r.dayLogs[key] = dayLog
	}

	r.nextID++
	execution.ID = r.nextID
	dayLog.Executions = append(dayLog.Executions, execution)

	logCopy := *dayLog
	logCopy.Executions = append([]Execution(nil), dayLog.Executions...)
	return &logCopy, nil
}

func (r *repoMock) GetDay(_ context.Context, userID, day string) (*ExecutionLogDay, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	dayLog, ok := r.dayLogs[dayLogKey(userID, day)]
	if !ok {
		return nil, ErrDayLogNotFound
	}

	logCopy := *dayLog
	logCopy.Executions = append([]Execution(nil), dayLog.Executions...)
	return &logCopy, nil
}

func (r *repoMock) ListExecutions(_ context.Context, userID string, from, to *time.Time) ([]Execution, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.ListErr != nil {
		return nil, r.ListErr
	}

	executions := make([]Execution, 0)
	for _, dayLog := range r.dayLogs {
		if dayLog.UserID != userID {
			continue
		}
		day, err := time.ParseInLocation(DayFormat, dayLog.Day, referenceLocation)
		if err != nil {
			return nil, err
		}
		if from != nil && day.Before(*from) {
			continue
		}
		if to != nil && !day.Before(*to) {
			continue
		}
		executions = append(executions, dayLog.Executions...)
	}

	return executions, nil
}

func (r *repoMock) executionsCount() int {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	count := 0
	for _, dayLog := range r.dayLogs {
		count += len(dayLog.Executions)
	}
	return count
}
