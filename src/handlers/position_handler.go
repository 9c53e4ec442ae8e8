// backend/src/handlers/position_handler.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/username/lnboard/backend/src/lnmarkets"
	"github.com/username/lnboard/backend/src/logger"
	"github.com/username/lnboard/backend/src/models"
	"github.com/username/lnboard/backend/src/processors"
	"github.com/username/lnboard/backend/src/services"
)

type PositionHandler struct {
	positionService  *services.PositionService
	analyticsService *services.AnalyticsService
	location         *time.Location
}

func NewPositionHandler(positionService *services.PositionService, analyticsService *services.AnalyticsService, location *time.Location) *PositionHandler {
	return &PositionHandler{
		positionService:  positionService,
		analyticsService: analyticsService,
		location:         location,
	}
}

// sendPipelineError maps the pipeline's typed errors onto HTTP statuses.
// The API never returns stale data disguised as fresh: on failure the client
// gets the error and decides whether to keep its last view.
func sendPipelineError(w http.ResponseWriter, r *http.Request, err error) {
	ctxLogger := logger.FromContext(r.Context())

	var netErr *lnmarkets.NetworkError
	var apiErr *lnmarkets.APIError
	var schemaErr *processors.SchemaError
	switch {
	case errors.As(err, &netErr):
		ctxLogger.Error("LN Markets unreachable", "error", err)
		sendJSONError(w, "Não foi possível contactar a API de trading", http.StatusServiceUnavailable)
	case errors.As(err, &apiErr):
		ctxLogger.Error("LN Markets rejected the request", "status", apiErr.StatusCode, "error", err)
		sendJSONError(w, "A API de trading devolveu um erro", http.StatusBadGateway)
	case errors.As(err, &schemaErr):
		ctxLogger.Error("Position batch failed schema validation", "missing", schemaErr.MissingFields)
		sendJSONError(w, "Resposta da API sem os campos esperados", http.StatusBadGateway)
	default:
		ctxLogger.Error("Position refresh failed", "error", err)
		sendJSONError(w, "Falha ao atualizar as ordens", http.StatusInternalServerError)
	}
}

// currentBatch returns the cached batch, fetching once when the session has
// none yet (first page load behaves like pressing "atualizar").
func (h *PositionHandler) currentBatch(w http.ResponseWriter, r *http.Request) (*services.PositionBatch, bool) {
	if batch, found := h.positionService.Current(); found {
		return batch, true
	}
	batch, err := h.positionService.Refresh(r.Context())
	if err != nil {
		sendPipelineError(w, r, err)
		return nil, false
	}
	return batch, true
}

// HandleRefreshPositions força um novo fetch e substitui o lote atual.
func (h *PositionHandler) HandleRefreshPositions(w http.ResponseWriter, r *http.Request) {
	batch, err := h.positionService.Refresh(r.Context())
	if err != nil {
		sendPipelineError(w, r, err)
		return
	}

	writeJSON(w, map[string]any{
		"ordens":         batch.Positions,
		"totalRegistros": batch.RawCount,
		"atualizadoEm":   batch.FetchedAt.In(h.location).Format(time.RFC3339),
		"resumo":         h.analyticsService.Summary(batch.Positions),
	})
}

// HandleGetPositions devolve o lote atual de ordens fechadas.
func (h *PositionHandler) HandleGetPositions(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.currentBatch(w, r)
	if !ok {
		return
	}
	writeJSON(w, map[string]any{
		"ordens":         batch.Positions,
		"totalRegistros": batch.RawCount,
		"atualizadoEm":   batch.FetchedAt.In(h.location).Format(time.RFC3339),
	})
}

// HandleGetSummary devolve as métricas agregadas do lote atual.
func (h *PositionHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.currentBatch(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.analyticsService.Summary(batch.Positions))
}

// HandleMonthlyChart devolve o lucro agregado por mês.
func (h *PositionHandler) HandleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.currentBatch(w, r)
	if !ok {
		return
	}
	writeJSON(w, h.analyticsService.MonthlyBuckets(batch.Positions))
}

// HandleDailyChart devolve o lucro diário do mês pedido (?month=YYYY-MM).
func (h *PositionHandler) HandleDailyChart(w http.ResponseWriter, r *http.Request) {
	monthParam := r.URL.Query().Get("month")
	month, err := time.ParseInLocation("2006-01", monthParam, h.location)
	if err != nil {
		sendJSONError(w, "Parâmetro 'month' inválido, use YYYY-MM", http.StatusBadRequest)
		return
	}

	batch, ok := h.currentBatch(w, r)
	if !ok {
		return
	}
	writeJSON(w, map[string]any{
		"mes":  services.MonthLabel(month),
		"dias": h.analyticsService.DailyBuckets(batch.Positions, month),
	})
}

// HandleCumulativeChart devolve a série de lucro acumulado.
func (h *PositionHandler) HandleCumulativeChart(w http.ResponseWriter, r *http.Request) {
	batch, ok := h.currentBatch(w, r)
	if !ok {
		return
	}
	points := h.analyticsService.CumulativeProfit(batch.Positions)
	if points == nil {
		points = []models.CumulativePoint{}
	}
	writeJSON(w, points)
}
