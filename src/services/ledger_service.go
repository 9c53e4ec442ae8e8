// backend/src/services/ledger_service.go
package services

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/username/lnboard/backend/src/logger"
	"github.com/username/lnboard/backend/src/models"
)

// ValidationError rejects invalid ledger input before anything is persisted.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// LedgerService is the append-only store of manual deposits and withdrawals.
//
// The balance is always recomputed from the full history; no running total is
// persisted. Writes are serialized with a mutex so two open sessions against
// the same database cannot lose updates (sqlite runs with a single
// connection, but the mutex keeps the contract independent of pool size).
type LedgerService struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

func NewLedgerService(db *sql.DB) *LedgerService {
	return &LedgerService{db: db, now: time.Now}
}

// AddTransaction validates and persists a new transaction. The INSERT is
// committed before the call returns; a crash before that point loses the
// transaction entirely, never records it partially.
func (s *LedgerService) AddTransaction(date time.Time, kind string, amount float64) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, &ValidationError{Field: "valor", Message: "amount must be greater than zero"}
	}
	if kind != models.TransactionDeposit && kind != models.TransactionWithdrawal {
		return nil, &ValidationError{Field: "tipo", Message: fmt.Sprintf("unknown transaction kind %q", kind)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := models.Transaction{
		Date:      date.Format("2006-01-02"),
		Kind:      kind,
		Amount:    amount,
		CreatedAt: s.now().Format("2006-01-02 15:04:05"),
	}

	result, err := s.db.Exec(
		"INSERT INTO transacoes (data, tipo, valor, timestamp) VALUES (?, ?, ?, ?)",
		tx.Date, tx.Kind, tx.Amount, tx.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting transaction: %w", err)
	}
	tx.ID, err = result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("reading transaction id: %w", err)
	}

	logger.L.Info("Transaction recorded", "id", tx.ID, "tipo", tx.Kind, "valor", tx.Amount)
	return &tx, nil
}

// DeleteTransaction removes a transaction by id. A missing id is not an
// error: it returns (false, nil) and leaves the ledger untouched.
func (s *LedgerService) DeleteTransaction(id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.Exec("DELETE FROM transacoes WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("deleting transaction %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("checking deleted rows: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	logger.L.Info("Transaction deleted", "id", id)
	return true, nil
}

// ListTransactions returns the full history, most recent date first.
func (s *LedgerService) ListTransactions() ([]models.Transaction, error) {
	rows, err := s.db.Query(
		"SELECT id, data, tipo, valor, timestamp FROM transacoes ORDER BY data DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.Date, &tx.Kind, &tx.Amount, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}
	return transactions, nil
}

// Balance computes deposits minus withdrawals over the entire history.
func (s *LedgerService) Balance() (float64, error) {
	var balance float64
	err := s.db.QueryRow(
		"SELECT COALESCE(SUM(CASE WHEN tipo = ? THEN valor ELSE -valor END), 0) FROM transacoes",
		models.TransactionDeposit,
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("computing balance: %w", err)
	}
	return balance, nil
}

// BalanceHistory returns the cumulative balance after each transaction,
// ordered by date ascending, for the evolution chart.
func (s *LedgerService) BalanceHistory() ([]models.BalancePoint, error) {
	rows, err := s.db.Query(
		"SELECT data, tipo, valor FROM transacoes ORDER BY data ASC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("querying balance history: %w", err)
	}
	defer rows.Close()

	history := []models.BalancePoint{}
	var running float64
	for rows.Next() {
		var date, kind string
		var amount float64
		if err := rows.Scan(&date, &kind, &amount); err != nil {
			return nil, fmt.Errorf("scanning balance history: %w", err)
		}
		if kind == models.TransactionDeposit {
			running += amount
		} else {
			running -= amount
		}
		history = append(history, models.BalancePoint{Date: date, Balance: running})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating balance history: %w", err)
	}
	return history, nil
}

// TotalWithProfit composes the ledger balance with the trading profit total
// supplied by the caller (the cached summary of the last successful fetch);
// it never triggers a fetch on its own.
func (s *LedgerService) TotalWithProfit(profitTotal float64) (float64, error) {
	balance, err := s.Balance()
	if err != nil {
		return 0, err
	}
	return balance + profitTotal, nil
}
