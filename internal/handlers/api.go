package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/services"
)

var noCache = map[string]string{
	"Cache-Control": "no-cache",
}

type APIHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewAPIHandlers(dashboard *services.Dashboard, logger *slog.Logger) *APIHandlers {
	return &APIHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

func (h *APIHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	errors.WriteError(w, h.logger, classify(err), observability.GetRequestID(r.Context()))
}

func (h *APIHandlers) HandleCenterDate(w http.ResponseWriter, r *http.Request) {
	v, err := h.dashboard.CenterDate(r.Context(), centerDateSelection(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, v, noCache)
}

func (h *APIHandlers) HandleYear(w http.ResponseWriter, r *http.Request) {
	v, err := h.dashboard.Year(r.Context(), yearSelection(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, v, noCache)
}

func (h *APIHandlers) HandlePeriods(w http.ResponseWriter, r *http.Request) {
	periods, err := h.dashboard.PeriodOptions(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, periods, noCache)
}

func (h *APIHandlers) HandleCenters(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		errors.WriteError(w, h.logger, errors.Validation("period is required"), observability.GetRequestID(r.Context()))
		return
	}
	centers, err := h.dashboard.CenterOptions(r.Context(), period)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, centers, noCache)
}

func (h *APIHandlers) HandleYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.dashboard.YearOptions(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	errors.WriteSuccessWithHeaders(w, years, noCache)
}

func (h *APIHandlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	healthData := map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   "1.0.0",
	}

	errors.WriteSuccess(w, healthData)
}

func (h *APIHandlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	errors.WriteSuccess(w, h.dashboard.Stats(r.Context()))
}
