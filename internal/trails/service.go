package trails

import (
	"context"
	"fmt"
	"time"

	"github.com/ThePerryDev/MindCare-sub000/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

type executionsRepo interface {
	RecordExecution(ctx context.Context, userID, day string, execution Execution) (*ExecutionLogDay, error)
	GetDay(ctx context.Context, userID, day string) (*ExecutionLogDay, error)
	ListExecutions(ctx context.Context, userID string, from, to *time.Time) ([]Execution, error)
}

type RecordExecutionParams struct {
	UserID     string
	Day        string // optional, YYYY-MM-DD
	TrailID    int
	StepNumber int             // 1..7
	TriggerTag string          // optional
	Source     ExecutionSource // optional, defaults to manual
}

// Service validates executions against the catalog and writes them to
// the execution log.
type Service struct {
	catalog *Catalog
	repo    executionsRepo
}

func NewService(catalog *Catalog, repo executionsRepo) *Service {
	return &Service{
		catalog: catalog,
		repo:    repo,
	}
}

// RecordExecution validates the params and performs the atomic
// upsert-or-append write. Validation failures perform no write.
func (s *Service) RecordExecution(ctx context.Context, params RecordExecutionParams) (_ *ExecutionLogDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.trails.recordExecution")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("trail.id", params.TrailID))
	span.SetAttributes(attribute.Int("trail.step", params.StepNumber))

	if params.UserID == "" {
		return nil, NewValidationError("user id empty")
	}

	if params.StepNumber < 1 || params.StepNumber > StepsPerTrail {
		return nil, NewValidationError("step number %d out of range [1, %d]", params.StepNumber, StepsPerTrail)
	}

	if _, err := s.catalog.Get(params.TrailID); err != nil {
		return nil, NewValidationError("unknown trail: %d", params.TrailID)
	}

	source := params.Source
	if source == "" {
		source = SourceManual
	}
	if !source.IsValid() {
		return nil, NewValidationError("unknown execution source: %s", source)
	}

	// unrecognized tags are kept as free text only for external signals
	if params.TriggerTag != "" && !EmotionalTag(params.TriggerTag).IsValid() && source != SourceExternalSignal {
		return nil, NewValidationError("unknown trigger tag: %s", params.TriggerTag)
	}

	day := NormalizeDay(params.Day)

	dayLog, err := s.repo.RecordExecution(ctx, params.UserID, day, Execution{
		TrailID:     params.TrailID,
		StepNumber:  params.StepNumber,
		TriggerTag:  params.TriggerTag,
		Source:      source,
		CompletedAt: time.Now().In(referenceLocation),
	})
	if err != nil {
		return nil, fmt.Errorf("record execution: %w", err)
	}

	return dayLog, nil
}

// GetDay returns the execution log of one day, today when day is empty
// or malformed.
func (s *Service) GetDay(ctx context.Context, userID, day string) (*ExecutionLogDay, error) {
	if userID == "" {
		return nil, NewValidationError("user id empty")
	}
	return s.repo.GetDay(ctx, userID, NormalizeDay(day))
}
