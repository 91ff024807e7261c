package handlers

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"sales-dashboard/internal/charts"
	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/export"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/sales"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

const renderTimeout = 10 * time.Second

// PageHandlers serve the HTML dashboard, its chart frames and the export
// downloads.
type PageHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewPageHandlers(dashboard *services.Dashboard, logger *slog.Logger) *PageHandlers {
	return &PageHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

func (h *PageHandlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
	defer cancel()

	view, err := viewName(r)
	if err != nil {
		h.renderError(ctx, w, errors.NotFoundWrap(err, "Page not found"))
		return
	}

	var page templ.Component
	switch view {
	case sales.ViewYear:
		v, err := h.dashboard.Year(ctx, yearSelection(r))
		if err != nil {
			h.renderError(ctx, w, classify(err))
			return
		}
		page = templates.YearPage(v)
	default:
		v, err := h.dashboard.CenterDate(ctx, centerDateSelection(r))
		if err != nil {
			h.renderError(ctx, w, classify(err))
			return
		}
		page = templates.CenterDatePage(v)
	}

	w.Header().Set("Cache-Control", "no-cache")
	h.render(ctx, w, http.StatusOK, page)
}

func (h *PageHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := observability.GetRequestID(ctx)

	var chart charts.Renderer
	switch name := r.PathValue("name"); name {
	case "daily-sales", "top-guests":
		v, err := h.dashboard.CenterDate(ctx, centerDateSelection(r))
		if err != nil {
			errors.WriteError(w, h.logger, classify(err), requestID)
			return
		}
		if name == "daily-sales" {
			chart = charts.DailySalesLine(v.Selection.Period, v.DailySales)
		} else {
			chart = charts.TopGuestsBar(v.TopGuests)
		}
	case "weekday-sales", "monthly-sales":
		v, err := h.dashboard.Year(ctx, yearSelection(r))
		if err != nil {
			errors.WriteError(w, h.logger, classify(err), requestID)
			return
		}
		if name == "weekday-sales" {
			chart = charts.WeekdayBar(v.Selection.Year, v.WeekdaySales)
		} else {
			chart = charts.MonthlyBar(v.Selection.Year, v.MonthlySales)
		}
	default:
		errors.WriteError(w, h.logger, errors.NotFound("Unknown chart "+strconv.Quote(name)), requestID)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if err := charts.Render(w, chart); err != nil {
		observability.RequestLogger(ctx, h.logger).Error("render chart", "error", err)
	}
}

func (h *PageHandlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := observability.GetRequestID(ctx)

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		errors.WriteError(w, h.logger, errors.BadRequestWrap(err, "Unsupported export format"), requestID)
		return
	}

	file, err := h.dashboard.Export(ctx, r.PathValue("name"), centerDateSelection(r), yearSelection(r), format)
	if err != nil {
		errors.WriteError(w, h.logger, classify(err), requestID)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

func (h *PageHandlers) render(ctx context.Context, w http.ResponseWriter, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(ctx, w); err != nil {
		observability.RequestLogger(ctx, h.logger).Error("render page", "error", err)
	}
}

func (h *PageHandlers) renderError(ctx context.Context, w http.ResponseWriter, appErr *errors.AppError) {
	appErr.RequestID = observability.GetRequestID(ctx)
	errors.LogError(h.logger, appErr)
	h.render(ctx, w, appErr.StatusCode, templates.ErrorPage(appErr.StatusCode, appErr.Message, appErr.Details, appErr.RequestID))
}
