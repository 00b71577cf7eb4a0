package trails

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// EmotionalTag is one value from the fixed enumeration of mood labels
// that can be attached to an execution as its trigger.
type EmotionalTag string

const (
	TagAnsiedade EmotionalTag = "ansiedade"
	TagEstresse  EmotionalTag = "estresse"
	TagTristeza  EmotionalTag = "tristeza"
	TagRaiva     EmotionalTag = "raiva"
	TagMedo      EmotionalTag = "medo"
	TagAlegria   EmotionalTag = "alegria"
)

// TagUnspecified is the aggregation bucket for executions recorded
// without a trigger tag.
const TagUnspecified = "unspecified"

func (t EmotionalTag) String() string {
	return string(t)
}

func (t EmotionalTag) IsValid() bool {
	switch t {
	case TagAnsiedade, TagEstresse, TagTristeza, TagRaiva, TagMedo, TagAlegria:
		return true
	default:
		return false
	}
}

// ExecutionSource tells where the reported trigger emotion came from.
type ExecutionSource string

const (
	SourceEntry          ExecutionSource = "entry"
	SourceExit           ExecutionSource = "exit"
	SourceExternalSignal ExecutionSource = "external-signal"
	SourceManual         ExecutionSource = "manual"
)

func (s ExecutionSource) String() string {
	return string(s)
}

func (s ExecutionSource) IsValid() bool {
	switch s {
	case SourceEntry, SourceExit, SourceExternalSignal, SourceManual:
		return true
	default:
		return false
	}
}

// Execution is one completed step of one trail by one user on one calendar day.
type Execution struct {
	ID          int             `json:"id"`
	TrailID     int             `json:"trailId"`
	StepNumber  int             `json:"stepNumber"` // 1..7
	TriggerTag  string          `json:"triggerTag,omitempty"`
	Source      ExecutionSource `json:"source"`
	CompletedAt time.Time       `json:"completedAt"`
}

// ExecutionLogDay holds the append-only list of executions of one user
// on one calendar day. Exactly one exists per (user, day) pair.
type ExecutionLogDay struct {
	ID         int         `json:"id"`
	UserID     string      `json:"userId"`
	Day        string      `json:"day"` // YYYY-MM-DD in the reference timezone
	Executions []Execution `json:"executions"`
}

type TrailCount struct {
	TrailID        int `json:"_id"`
	TotalExercises int `json:"totalExercicios"`
}

type TagCount struct {
	Tag            string `json:"_id"`
	TotalExercises int    `json:"totalExercicios"`
}

// AggregateReport is the derived multi-facet view over the execution
// log. It is computed on demand and never persisted.
type AggregateReport struct {
	Period             string     `json:"period"`
	WindowStart        *time.Time `json:"inicio"`
	WindowEnd          *time.Time `json:"fim"`
	TotalExercises     int        `json:"totalExercicios"`
	DistinctTrailCount int        `json:"totalTrilhas"`
	PerTrail           []TrailCount `json:"porTrilha"`
	PerTag             []TagCount   `json:"porSentimento"`
}

const DayFormat = "2006-01-02"

// referenceLocation is the single fixed timezone used to compute "today"
// and day boundaries for all day-keyed records.
var referenceLocation = mustLoadReferenceLocation()

func mustLoadReferenceLocation() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		log.Errorf("load reference timezone: %s, falling back to fixed UTC-3", err)
		return time.FixedZone("-03", -3*60*60)
	}
	return loc
}

func ReferenceLocation() *time.Location {
	return referenceLocation
}

// Today returns the current day key in the reference timezone.
func Today() string {
	return time.Now().In(referenceLocation).Format(DayFormat)
}

// NormalizeDay returns the given day if well-formed, today otherwise.
// Malformed or missing days deliberately fall back instead of failing.
func NormalizeDay(day string) string {
	if day == "" {
		return Today()
	}
	if _, err := time.ParseInLocation(DayFormat, day, referenceLocation); err != nil {
		log.Tracef("normalize day: malformed day %q: %s", day, err)
		return Today()
	}
	return day
}

// Period is the reporting window selector for stats.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
	PeriodAll   Period = "all"
)

func (p Period) String() string {
	return string(p)
}

func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear, PeriodAll:
		return Period(s), nil
	case "":
		return PeriodAll, nil
	default:
		return "", NewValidationError("unknown period: %s", s)
	}
}

// Window resolves the period to a concrete [start, end) window in the
// reference timezone. For PeriodAll both bounds are nil (unbounded).
func (p Period) Window(now time.Time) (start, end *time.Time) {
	now = now.In(referenceLocation)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, referenceLocation)

	switch p {
	case PeriodDay:
		from, to := midnight, midnight.AddDate(0, 0, 1)
		return &from, &to
	case PeriodWeek:
		// week starts on monday
		daysSinceMonday := (int(midnight.Weekday()) + 6) % 7
		from := midnight.AddDate(0, 0, -daysSinceMonday)
		to := from.AddDate(0, 0, 7)
		return &from, &to
	case PeriodMonth:
		from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, referenceLocation)
		to := from.AddDate(0, 1, 0)
		return &from, &to
	case PeriodYear:
		from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, referenceLocation)
		to := from.AddDate(1, 0, 0)
		return &from, &to
	default:
		return nil, nil
	}
}

// ValidationError marks client-fixable input errors: malformed values,
// out-of-range steps, unknown trails or tags. Never retried, maps to 400.
type ValidationError struct {
	msg string
}

func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return e.msg
}
