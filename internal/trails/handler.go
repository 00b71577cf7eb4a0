package trails

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ThePerryDev/MindCare-sub000/internal/middleware"
	"github.com/ThePerryDev/MindCare-sub000/internal/telemetry/metrics"
	"github.com/ThePerryDev/MindCare-sub000/internal/telemetry/tracing"
	"github.com/ThePerryDev/MindCare-sub000/pkg"

	"github.com/coocood/freecache"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const statsCacheExpireSeconds = 60

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=trails_test

type executionsService interface {
	RecordExecution(ctx context.Context, params RecordExecutionParams) (*ExecutionLogDay, error)
	GetDay(ctx context.Context, userID, day string) (*ExecutionLogDay, error)
}

type statsAnalyzer interface {
	ComputeStats(ctx context.Context, userID string, period Period) (*AggregateReport, error)
}

type RecordExecutionRequest struct {
	Day        string `json:"day,omitempty"`
	TrailID    int    `json:"trail_id"`
	TrailDay   int    `json:"diaDaTrilha"` // step number, 1..7
	TriggerTag string `json:"sentimentoDisparador,omitempty"`
	TagSource  string `json:"origemSentimento,omitempty"`
}

type Handler struct {
	catalog    *Catalog
	service    executionsService
	analyzer   statsAnalyzer
	statsCache *freecache.Cache
	metrics    *metrics.Manager
}

func NewHandler(
	catalog *Catalog,
	service executionsService,
	analyzer statsAnalyzer,
	metricsManager *metrics.Manager,
) *Handler {
	megabyte := 1024 * 1024
	return &Handler{
		catalog:    catalog,
		service:    service,
		analyzer:   analyzer,
		statsCache: freecache.NewCache(megabyte),
		metrics:    metricsManager,
	}
}

// SetupRoutes registers the trails routes. The registro write endpoint
// is wrapped with registroLimiter when one is given.
func (handler *Handler) SetupRoutes(r *mux.Router, registroLimiter mux.MiddlewareFunc) {
	r.HandleFunc("/trails", handler.HandleListTrails).Methods("GET", "OPTIONS").Name("list-trails")

	recordExecution := http.Handler(http.HandlerFunc(handler.HandleRecordExecution))
	if registroLimiter != nil {
		recordExecution = registroLimiter(recordExecution)
	}
	r.Handle("/trails/registro", recordExecution).Methods("POST", "OPTIONS").Name("new-execution")

	r.HandleFunc("/trails/registro/day/{day}", handler.HandleGetDay).Methods("GET", "OPTIONS").Name("get-day-log")
	r.HandleFunc("/trails/stats", handler.HandleStats).Methods("GET", "OPTIONS").Name("trail-stats")
	r.HandleFunc("/trails/{code}", handler.HandleGetTrail).Methods("GET", "OPTIONS").Name("get-trail")
}

func (handler *Handler) HandleListTrails(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.trails.list")
	defer span.End()

	trailsJson, err := json.Marshal(handler.catalog.All())
	if err != nil {
		log.Errorf("failed to marshal trails catalog: %s", err)
		http.Error(w, "failed to marshal trails", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, trailsJson, http.StatusOK)
}

func (handler *Handler) HandleGetTrail(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "handler.trails.get")
	defer span.End()

	vars := mux.Vars(r)
	code := vars["code"]
	if code == "" {
		http.Error(w, "error, trail code empty", http.StatusBadRequest)
		return
	}

	trail, err := handler.catalog.GetByCode(code)
	if err != nil {
		http.Error(w, "trail not found", http.StatusNotFound)
		return
	}

	trailJson, err := json.Marshal(trail)
	if err != nil {
		log.Errorf("failed to marshal trail %s: %s", code, err)
		http.Error(w, "failed to marshal trail", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, trailJson, http.StatusOK)
}

func (handler *Handler) HandleRecordExecution(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trails.record")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req RecordExecutionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("new execution, unmarshal json params: %s", err)
		http.Error(w, "record execution failed", http.StatusBadRequest)
		return
	}

	if req.TrailID == 0 {
		http.Error(w, "error, trail_id missing", http.StatusBadRequest)
		return
	}

	dayLog, err := handler.service.RecordExecution(ctx, RecordExecutionParams{
		UserID:     userID,
		Day:        req.Day,
		TrailID:    req.TrailID,
		StepNumber: req.TrailDay,
		TriggerTag: req.TriggerTag,
		Source:     ExecutionSource(req.TagSource),
	})
	if err != nil {
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			http.Error(w, validationErr.Error(), http.StatusBadRequest)
			return
		}
		log.Errorf("failed to record execution [trail %d, step %d]: %s", req.TrailID, req.TrailDay, err)
		http.Error(w, "error, failed to record execution", http.StatusInternalServerError)
		return
	}

	dayLogJson, err := json.Marshal(dayLog)
	if err != nil {
		log.Errorf("failed to marshal day log: %s", err)
		http.Error(w, "error, failed to record execution", http.StatusInternalServerError)
		return
	}

	if handler.metrics != nil {
		handler.metrics.CounterExecutionsRecorded.Inc()
	}

	log.Debugf("new execution recorded: user [%s], trail %d, step %d", userID, req.TrailID, req.TrailDay)
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, dayLogJson, http.StatusCreated)
}

func (handler *Handler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trails.getDay")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	dayLog, err := handler.service.GetDay(ctx, userID, vars["day"])
	if err != nil {
		if errors.Is(err, ErrDayLogNotFound) {
			http.Error(w, "day log not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get day log: %s", err)
		http.Error(w, "failed to get day log", http.StatusInternalServerError)
		return
	}

	dayLogJson, err := json.Marshal(dayLog)
	if err != nil {
		log.Errorf("failed to marshal day log: %s", err)
		http.Error(w, "failed to marshal day log", http.StatusInternalServerError)
		return
	}
	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, dayLogJson, http.StatusOK)
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.trails.stats")
	defer span.End()

	userID, ok := middleware.UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	period, err := ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	cacheKey := []byte(fmt.Sprintf("%s||%s", userID, period))
	if cachedReport, err := handler.statsCache.Get(cacheKey); err == nil {
		if handler.metrics != nil {
			handler.metrics.CounterStatsCacheHits.Inc()
		}
		pkg.WriteResponseBytes(w, pkg.ContentType.JSON, cachedReport, http.StatusOK)
		return
	}

	report, err := handler.analyzer.ComputeStats(ctx, userID, period)
	if err != nil {
		log.Errorf("failed to compute stats [user %s, period %s]: %s", userID, period, err)
		http.Error(w, "failed to compute stats", http.StatusInternalServerError)
		return
	}

	reportJson, err := json.Marshal(report)
	if err != nil {
		log.Errorf("failed to marshal stats report: %s", err)
		http.Error(w, "failed to marshal stats report", http.StatusInternalServerError)
		return
	}

	if err := handler.statsCache.Set(cacheKey, reportJson, statsCacheExpireSeconds); err != nil {
		log.Debugf("failed to cache stats report: %s", err)
	}

	if handler.metrics != nil {
		handler.metrics.CounterStatsReports.Inc()
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.JSON, reportJson, http.StatusOK)
}
