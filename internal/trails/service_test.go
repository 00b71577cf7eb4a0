package trails

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testService(t *testing.T) (*Service, *repoMock) {
	t.Helper()
	catalog, err := NewDefaultCatalog()
	require.NoError(t, err)
	repo := newRepoMock()
	return NewService(catalog, repo), repo
}

func TestService_RecordExecution(t *testing.T) {
	service, _ := testService(t)
	ctx := context.Background()

	dayLog, err := service.RecordExecution(ctx, RecordExecutionParams{
		UserID:     "u1",
		Day:        "2026-03-15",
		TrailID:    1,
		StepNumber: 1,
		TriggerTag: TagAnsiedade.String(),
		Source:     SourceEntry,
	})
	require.NoError(t, err)
	require.NotNil(t, dayLog)

	assert.Equal(t, "u1", dayLog.UserID)
	assert.Equal(t, "2026-03-15", dayLog.Day)
	require.Len(t, dayLog.Executions, 1)
	assert.Equal(t, 1, dayLog.Executions[0].TrailID)
	assert.Equal(t, 1, dayLog.Executions[0].StepNumber)
	assert.Equal(t, TagAnsiedade.String(), dayLog.Executions[0].TriggerTag)
	assert.Equal(t, SourceEntry, dayLog.Executions[0].Source)
	assert.False(t, dayLog.Executions[0].CompletedAt.IsZero())

	// a second execution of the same day appends, it does not create
	// a second day log
	dayLog, err = service.RecordExecution(ctx, RecordExecutionParams{
		UserID:     "u1",
		Day:        "2026-03-15",
		TrailID:    1,
		StepNumber: 2,
	})
	require.NoError(t, err)
	require.Len(t, dayLog.Executions, 2)
	assert.Equal(t, SourceManual, dayLog.Executions[1].Source) // default source
}

func TestService_RecordExecution_DayDefaultsToToday(t *testing.T) {
	service, _ := testService(t)

	dayLog, err := service.RecordExecution(context.Background(), RecordExecutionParams{
		UserID:     "u1",
		TrailID:    1,
		StepNumber: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, Today(), dayLog.Day)

	// malformed day also falls back to today
	dayLog, err = service.RecordExecution(context.Background(), RecordExecutionParams{
		UserID:     "u1",
		Day:        "15-03-2026",
		TrailID:    1,
		StepNumber: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, Today(), dayLog.Day)
}

func TestService_RecordExecution_Validation(t *testing.T) {
	service, repo := testService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		params RecordExecutionParams
	}{
		{
			name:   "user id empty",
			params: RecordExecutionParams{TrailID: 1, StepNumber: 1},
		},
		{
			name:   "step number zero",
			params: RecordExecutionParams{UserID: "u1", TrailID: 1, StepNumber: 0},
		},
		{
			name:   "step number too big",
			params: RecordExecutionParams{UserID: "u1", TrailID: 1, StepNumber: 8},
		},
		{
			name:   "step number negative",
			params: RecordExecutionParams{UserID: "u1", TrailID: 1, StepNumber: -1},
		},
		{
			name:   "unknown trail",
			params: RecordExecutionParams{UserID: "u1", TrailID: 999, StepNumber: 1},
		},
		{
			name:   "unknown source",
			params: RecordExecutionParams{UserID: "u1", TrailID: 1, StepNumber: 1, Source: "app"},
		},
		{
			name: "free-text tag from manual source",
			params: RecordExecutionParams{
				UserID: "u1", TrailID: 1, StepNumber: 1,
				TriggerTag: "saudade", Source: SourceManual,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.RecordExecution(ctx, tc.params)
			require.Error(t, err)
			var validationErr *ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}

	// validation failures perform no write
	assert.Zero(t, repo.executionsCount())
}

func TestService_RecordExecution_FreeTextTagFromExternalSignal(t *testing.T) {
	service, _ := testService(t)

	// unrecognized tags are accepted as free text from external signals
	dayLog, err := service.RecordExecution(context.Background(), RecordExecutionParams{
		UserID:     "u1",
		TrailID:    1,
		StepNumber: 1,
		TriggerTag: "saudade",
		Source:     SourceExternalSignal,
	})
	require.NoError(t, err)
	require.Len(t, dayLog.Executions, 1)
	assert.Equal(t, "saudade", dayLog.Executions[0].TriggerTag)
}

func TestService_RecordExecution_PersistenceError(t *testing.T) {
	service, repo := testService(t)
	repo.RecordErr = errors.New("store unreachable")

	_, err := service.RecordExecution(context.Background(), RecordExecutionParams{
		UserID:     "u1",
		TrailID:    1,
		StepNumber: 1,
	})
	require.Error(t, err)

	// a persistence error is not a validation error
	var validationErr *ValidationError
	assert.False(t, errors.As(err, &validationErr))
}

func TestService_GetDay(t *testing.T) {
	service, _ := testService(t)
	ctx := context.Background()

	_, err := service.GetDay(ctx, "u1", "2026-03-15")
	assert.ErrorIs(t, err, ErrDayLogNotFound)

	_, err = service.RecordExecution(ctx, RecordExecutionParams{
		UserID:     "u1",
		Day:        "2026-03-15",
		TrailID:    2,
		StepNumber: 4,
	})
	require.NoError(t, err)

	dayLog, err := service.GetDay(ctx, "u1", "2026-03-15")
	require.NoError(t, err)
	require.Len(t, dayLog.Executions, 1)
	assert.Equal(t, 2, dayLog.Executions[0].TrailID)
	assert.Equal(t, 4, dayLog.Executions[0].StepNumber)
}
