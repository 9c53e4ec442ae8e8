// backend/src/handlers/ledger_handler.go
package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/username/lnboard/backend/src/logger"
	"github.com/username/lnboard/backend/src/services"
)

type LedgerHandler struct {
	ledgerService    *services.LedgerService
	positionService  *services.PositionService
	analyticsService *services.AnalyticsService
}

func NewLedgerHandler(ledgerService *services.LedgerService, positionService *services.PositionService, analyticsService *services.AnalyticsService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService:    ledgerService,
		positionService:  positionService,
		analyticsService: analyticsService,
	}
}

// HandleAddTransaction regista um depósito ou saque manual.
func (h *LedgerHandler) HandleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date   string  `json:"data"` // YYYY-MM-DD
		Kind   string  `json:"tipo"`
		Amount float64 `json:"valor"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		sendJSONError(w, "Campo 'data' inválido, use YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	tx, err := h.ledgerService.AddTransaction(date, req.Kind, req.Amount)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			sendJSONError(w, validationErr.Error(), http.StatusBadRequest)
			return
		}
		logger.FromContext(r.Context()).Error("Failed to add transaction", "error", err)
		sendJSONError(w, "Falha ao registrar a transação", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(tx)
}

// HandleListTransactions devolve o histórico completo, mais recente primeiro.
func (h *LedgerHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.ledgerService.ListTransactions()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to list transactions", "error", err)
		sendJSONError(w, "Falha ao carregar transações", http.StatusInternalServerError)
		return
	}
	writeJSON(w, transactions)
}

// HandleDeleteTransaction apaga uma transação pelo id.
func (h *LedgerHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "ID inválido", http.StatusBadRequest)
		return
	}

	deleted, err := h.ledgerService.DeleteTransaction(id)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to delete transaction", "id", id, "error", err)
		sendJSONError(w, "Falha ao apagar a transação", http.StatusInternalServerError)
		return
	}
	if !deleted {
		sendJSONError(w, "Transação não encontrada", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{"removido": true, "id": id})
}

// HandleExportTransactions exporta o histórico em CSV
// (transacoes_financeiras.csv, datas em dd/mm/aaaa como na tabela).
func (h *LedgerHandler) HandleExportTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.ledgerService.ListTransactions()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to export transactions", "error", err)
		sendJSONError(w, "Falha ao exportar transações", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="transacoes_financeiras.csv"`)

	writer := csv.NewWriter(w)
	writer.Write([]string{"Data", "Tipo", "Valor"})
	for _, tx := range transactions {
		display := tx.Date
		if d, err := time.Parse("2006-01-02", tx.Date); err == nil {
			display = d.Format("02/01/2006")
		}
		writer.Write([]string{display, tx.Kind, strconv.FormatFloat(tx.Amount, 'f', -1, 64)})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		// Headers are already out; the best we can do is log the truncation.
		logger.FromContext(r.Context()).Error("Failed to stream transactions CSV", "error", err)
	}
}

// HandleGetBalance combina o saldo do razão com o lucro do último lote.
func (h *LedgerHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.ledgerService.Balance()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to compute balance", "error", err)
		sendJSONError(w, "Falha ao calcular o saldo", http.StatusInternalServerError)
		return
	}

	// O lucro vem do último fetch bem-sucedido; sem lote em sessão conta zero.
	var profitTotal float64
	if batch, found := h.positionService.Current(); found {
		profitTotal = h.analyticsService.Summary(batch.Positions).TotalProfit
	}

	writeJSON(w, map[string]any{
		"saldo":          balance,
		"lucroTotal":     profitTotal,
		"saldoComLucros": balance + profitTotal,
	})
}

// HandleBalanceHistory devolve a evolução do saldo acumulado.
func (h *LedgerHandler) HandleBalanceHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.ledgerService.BalanceHistory()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to load balance history", "error", err)
		sendJSONError(w, "Falha ao carregar histórico de saldo", http.StatusInternalServerError)
		return
	}
	writeJSON(w, history)
}
