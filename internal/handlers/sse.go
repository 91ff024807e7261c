package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"sales-dashboard/internal/errors"
	"sales-dashboard/internal/observability"
	"sales-dashboard/internal/sales"
	"sales-dashboard/internal/services"
	"sales-dashboard/internal/ui/templates"
)

// SSEHandlers re-render a view when its filters change. Each response
// patches the filter form, the view body and the resolved selection
// signals.
type SSEHandlers struct {
	dashboard *services.Dashboard
	logger    *slog.Logger
}

func NewSSEHandlers(dashboard *services.Dashboard, logger *slog.Logger) *SSEHandlers {
	return &SSEHandlers{
		dashboard: dashboard,
		logger:    logger,
	}
}

type filterSignals struct {
	Period string `json:"period"`
	Center string `json:"center"`
	Year   any    `json:"year"`
}

func (h *SSEHandlers) readSignals(r *http.Request) filterSignals {
	var sig filterSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		observability.RequestLogger(r.Context(), h.logger).Warn("read signals", "error", err)
	}
	return sig
}

func (h *SSEHandlers) HandleCenterDate(w http.ResponseWriter, r *http.Request) {
	sig := h.readSignals(r)
	ctx := r.Context()
	sse := datastar.NewSSE(w, r)

	v, err := h.dashboard.CenterDate(ctx, sales.CenterDateSelection{
		Period: strings.TrimSpace(sig.Period),
		Center: sig.Center,
	})
	if err != nil {
		h.patchError(ctx, sse, classify(err))
		return
	}

	h.patch(ctx, sse, v.Selection, templates.CenterDateFilters(v), templates.CenterDateBody(v))
}

func (h *SSEHandlers) HandleYear(w http.ResponseWriter, r *http.Request) {
	sig := h.readSignals(r)
	ctx := r.Context()
	sse := datastar.NewSSE(w, r)

	v, err := h.dashboard.Year(ctx, sales.YearSelection{Year: signalYear(sig.Year)})
	if err != nil {
		h.patchError(ctx, sse, classify(err))
		return
	}

	h.patch(ctx, sse, v.Selection, templates.YearFilters(v), templates.YearBody(v))
}

func (h *SSEHandlers) patch(ctx context.Context, sse *datastar.ServerSentEventGenerator, selection any, components ...templ.Component) {
	logger := observability.RequestLogger(ctx, h.logger)

	for _, c := range components {
		var buf strings.Builder
		if err := c.Render(ctx, &buf); err != nil {
			logger.Error("render fragment", "error", err)
			return
		}
		if err := sse.PatchElements(buf.String()); err != nil {
			logger.Warn("patch elements", "error", err)
			return
		}
	}

	signals, err := json.Marshal(selection)
	if err != nil {
		logger.Error("marshal selection", "error", err)
		return
	}
	if err := sse.PatchSignals(signals); err != nil {
		logger.Warn("patch signals", "error", err)
	}
}

func (h *SSEHandlers) patchError(ctx context.Context, sse *datastar.ServerSentEventGenerator, appErr *errors.AppError) {
	appErr.RequestID = observability.GetRequestID(ctx)
	errors.LogError(h.logger, appErr)

	var buf strings.Builder
	if err := templates.ErrorView(appErr.Message, appErr.Details, appErr.RequestID).Render(ctx, &buf); err != nil {
		h.logger.Error("render error fragment", "error", err)
		return
	}
	sse.PatchElements(buf.String())
}
