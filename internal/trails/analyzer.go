package trails

import (
	"context"
	"sort"
	"time"

	"github.com/ThePerryDev/MindCare-sub000/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// Analyzer computes the multi-facet aggregate report over the execution
// log. The filtered set is fetched once and all three facets are reduced
// from that same snapshot, so totals and breakdowns can never drift
// apart within one report.
type Analyzer struct {
	repo executionsRepo
}

func NewAnalyzer(repo executionsRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// ComputeStats resolves the period to a window in the reference timezone
// and produces the aggregate report. A user with no executions in the
// window gets an all-zero report, not an error.
func (a *Analyzer) ComputeStats(ctx context.Context, userID string, period Period) (_ *AggregateReport, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.trails.computeStats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("period", period.String()))

	from, to := period.Window(time.Now())

	executions, err := a.repo.ListExecutions(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}

	report := &AggregateReport{
		Period:      period.String(),
		WindowStart: from,
		WindowEnd:   to,
		PerTrail:    make([]TrailCount, 0),
		PerTag:      make([]TagCount, 0),
	}

	trail2count := make(map[int]int)
	tag2count := make(map[string]int)
	for _, e := range executions {
		report.TotalExercises++
		trail2count[e.TrailID]++

		tag := e.TriggerTag
		if tag == "" {
			tag = TagUnspecified
		}
		tag2count[tag]++
	}

	report.DistinctTrailCount = len(trail2count)

	for trailID, count := range trail2count {
		report.PerTrail = append(report.PerTrail, TrailCount{
			TrailID:        trailID,
			TotalExercises: count,
		})
	}
	sort.Slice(report.PerTrail, func(i, j int) bool {
		return report.PerTrail[i].TrailID < report.PerTrail[j].TrailID
	})

	for tag, count := range tag2count {
		report.PerTag = append(report.PerTag, TagCount{
			Tag:            tag,
			TotalExercises: count,
		})
	}
	sort.Slice(report.PerTag, func(i, j int) bool {
		return report.PerTag[i].Tag < report.PerTag[j].Tag
	})

	return report, nil
}
