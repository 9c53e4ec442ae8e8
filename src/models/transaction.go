package models

// Transaction kinds persisted in the transacoes table. The Portuguese enum
// values are part of the stored-data contract and must not be renamed.
const (
	TransactionDeposit    = "Depósito"
	TransactionWithdrawal = "Saque"
)

// Transaction is a manual deposit or withdrawal recorded in the ledger.
// Immutable after creation; removed only by id.
type Transaction struct {
	ID        int64   `json:"id"`
	Date      string  `json:"data"` // ISO date (YYYY-MM-DD)
	Kind      string  `json:"tipo"`
	Amount    float64 `json:"valor"`
	CreatedAt string  `json:"timestamp"`
}

// BalancePoint is one step of the cumulative balance series shown on the
// financial summary page.
type BalancePoint struct {
	Date    string  `json:"data"`
	Balance float64 `json:"saldoAcumulado"`
}
