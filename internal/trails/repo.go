package trails

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThePerryDev/MindCare-sub000/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrDayLogNotFound = errors.New("execution day log not found")

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// RecordExecution performs the upsert-or-append for one execution: the
// day log row for (user, day) is created if absent and the execution is
// appended to it, all within a single transaction. The unique constraint
// on (user_id, day) plus ON CONFLICT make concurrent first-writes of the
// day safe: both land in the same day log, neither fails.
func (r *Repo) RecordExecution(ctx context.Context, userID, day string, execution Execution) (_ *ExecutionLogDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.trails.recordExecution")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("day", day))
	span.SetAttributes(attribute.Int("trail.id", execution.TrailID))
	span.SetAttributes(attribute.Int("trail.step", execution.StepNumber))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rollbackErr := tx.Rollback(ctx); rollbackErr != nil {
				err = fmt.Errorf("failed to rollback transaction: %w: %w", rollbackErr, err)
			}
		} else {
			err = tx.Commit(ctx)
		}
	}()

	var dayLogID int
	err = tx.QueryRow(ctx, `
		INSERT INTO trail_day_log (user_id, day)
		VALUES ($1, $2)
		ON CONFLICT (user_id, day) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING id;`,
		userID, day,
	).Scan(&dayLogID)
	if err != nil {
		return nil, fmt.Errorf("upsert day log: %w", err)
	}

	var triggerTag *string
	if execution.TriggerTag != "" {
		triggerTag = &execution.TriggerTag
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO trail_execution (day_log_id, trail_id, step_number, trigger_tag, source, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id;`,
		dayLogID, execution.TrailID, execution.StepNumber, triggerTag, execution.Source, execution.CompletedAt,
	).Scan(&execution.ID)
	if err != nil {
		return nil, fmt.Errorf("append execution: %w", err)
	}

	span.SetAttributes(attribute.Int("daylog.id", dayLogID))

	executions, err := r.dayExecutions(ctx, tx, dayLogID)
	if err != nil {
		return nil, fmt.Errorf("read back day log: %w", err)
	}

	return &ExecutionLogDay{
		ID:         dayLogID,
		UserID:     userID,
		Day:        day,
		Executions: executions,
	}, nil
}

// GetDay returns the execution log of one (user, day) pair.
func (r *Repo) GetDay(ctx context.Context, userID, day string) (_ *ExecutionLogDay, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.trails.getDay")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("day", day))

	var dayLogID int
	err = r.db.QueryRow(ctx,
		`SELECT id FROM trail_day_log WHERE user_id = $1 AND day = $2;`,
		userID, day,
	).Scan(&dayLogID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDayLogNotFound
		}
		return nil, err
	}

	executions, err := r.dayExecutions(ctx, r.db, dayLogID)
	if err != nil {
		return nil, err
	}

	return &ExecutionLogDay{
		ID:         dayLogID,
		UserID:     userID,
		Day:        day,
		Executions: executions,
	}, nil
}

// ListExecutions returns all executions of a user whose day log falls
// into the [from, to) window. Nil bounds mean unbounded.
func (r *Repo) ListExecutions(ctx context.Context, userID string, from, to *time.Time) (_ []Execution, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.trails.listExecutions")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	if from != nil {
		span.SetAttributes(attribute.String("from", from.String()))
	}
	if to != nil {
		span.SetAttributes(attribute.String("to", to.String()))
	}

	rows, err := r.db.Query(ctx, `
		SELECT e.id, e.trail_id, e.step_number, e.trigger_tag, e.source, e.completed_at
		FROM trail_execution e
		JOIN trail_day_log d ON e.day_log_id = d.id
			WHERE d.user_id = $1
			AND ($2::date IS NULL OR d.day >= $2)
			AND ($3::date IS NULL OR d.day < $3)
		ORDER BY e.completed_at;`,
		userID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	executions, err := rows2executions(rows)
	if err != nil {
		return nil, fmt.Errorf("rows2executions: %w", err)
	}
	return executions, nil
}

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func (r *Repo) dayExecutions(ctx context.Context, q pgxQuerier, dayLogID int) ([]Execution, error) {
	rows, err := q.Query(ctx, `
		SELECT id, trail_id, step_number, trigger_tag, source, completed_at
		FROM trail_execution
		WHERE day_log_id = $1
		ORDER BY completed_at;`,
		dayLogID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2executions(rows)
}

func rows2executions(rows pgx.Rows) ([]Execution, error) {
	var executions []Execution
	for rows.Next() {
		var (
			id          int
			trailID     int
			stepNumber  int
			triggerTag  *string
			source      string
			completedAt time.Time
		)
		if err := rows.Scan(&id, &trailID, &stepNumber, &triggerTag, &source, &completedAt); err != nil {
			return nil, err
		}

		e := Execution{
			ID:          id,
			TrailID:     trailID,
			StepNumber:  stepNumber,
			Source:      ExecutionSource(source),
			CompletedAt: completedAt,
		}
		if triggerTag != nil {
			e.TriggerTag = *triggerTag
		}

		executions = append(executions, e)
	}

	if executions == nil {
		executions = make([]Execution, 0)
	}

	return executions, nil
}
