package services

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/lnboard/backend/src/logger"
	"github.com/username/lnboard/backend/src/models"
	_ "modernc.org/sqlite"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	m.Run()
}

const createTransacoes = `
CREATE TABLE IF NOT EXISTS transacoes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    data TEXT NOT NULL,
    tipo TEXT NOT NULL CHECK (tipo IN ('Depósito', 'Saque')),
    valor REAL NOT NULL CHECK (valor >= 0),
    timestamp TEXT NOT NULL
)`

func openLedgerDB(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(createTransacoes)
	require.NoError(t, err)
	return db
}

func newTestLedger(t *testing.T) (*LedgerService, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.db")
	db := openLedgerDB(t, path)
	t.Cleanup(func() { db.Close() })
	return NewLedgerService(db), path
}

func TestLedger_DepositAndWithdrawalMoveBalance(t *testing.T) {
	ledger, _ := newTestLedger(t)
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	before, err := ledger.Balance()
	require.NoError(t, err)

	_, err = ledger.AddTransaction(date, models.TransactionDeposit, 100)
	require.NoError(t, err)
	_, err = ledger.AddTransaction(date, models.TransactionWithdrawal, 30)
	require.NoError(t, err)

	after, err := ledger.Balance()
	require.NoError(t, err)
	assert.InDelta(t, before+70, after, 1e-9)
}

func TestLedger_RejectsInvalidInputBeforePersisting(t *testing.T) {
	ledger, _ := newTestLedger(t)
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	var validationErr *ValidationError

	_, err := ledger.AddTransaction(date, models.TransactionDeposit, 0)
	require.ErrorAs(t, err, &validationErr)

	_, err = ledger.AddTransaction(date, models.TransactionDeposit, -50)
	require.ErrorAs(t, err, &validationErr)

	_, err = ledger.AddTransaction(date, "Transferência", 10)
	require.ErrorAs(t, err, &validationErr)

	txs, err := ledger.ListTransactions()
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestLedger_DeleteUnknownIDReturnsFalseAndKeepsBalance(t *testing.T) {
	ledger, _ := newTestLedger(t)
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	_, err := ledger.AddTransaction(date, models.TransactionDeposit, 500)
	require.NoError(t, err)
	before, err := ledger.Balance()
	require.NoError(t, err)

	deleted, err := ledger.DeleteTransaction(99999)
	require.NoError(t, err)
	assert.False(t, deleted)

	after, err := ledger.Balance()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLedger_DeleteRemovesTransaction(t *testing.T) {
	ledger, _ := newTestLedger(t)
	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	tx, err := ledger.AddTransaction(date, models.TransactionWithdrawal, 40)
	require.NoError(t, err)

	deleted, err := ledger.DeleteTransaction(tx.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	balance, err := ledger.Balance()
	require.NoError(t, err)
	assert.Zero(t, balance)
}

func TestLedger_ListsMostRecentDateFirst(t *testing.T) {
	ledger, _ := newTestLedger(t)

	older := time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)

	_, err := ledger.AddTransaction(older, models.TransactionDeposit, 100)
	require.NoError(t, err)
	_, err = ledger.AddTransaction(newer, models.TransactionWithdrawal, 20)
	require.NoError(t, err)

	txs, err := ledger.ListTransactions()
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "2024-03-05", txs[0].Date)
	assert.Equal(t, models.TransactionWithdrawal, txs[0].Kind)
	assert.Equal(t, "2024-01-10", txs[1].Date)
}

// The durability contract: committed transactions survive a process restart.
func TestLedger_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.db")
	db := openLedgerDB(t, path)
	ledger := NewLedgerService(db)

	date := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	_, err := ledger.AddTransaction(date, models.TransactionDeposit, 250)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	reopened := openLedgerDB(t, path)
	defer reopened.Close()

	balance, err := NewLedgerService(reopened).Balance()
	require.NoError(t, err)
	assert.InDelta(t, 250, balance, 1e-9)
}

func TestLedger_BalanceHistoryAccumulatesByDate(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.AddTransaction(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), models.TransactionDeposit, 100)
	require.NoError(t, err)
	_, err = ledger.AddTransaction(time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), models.TransactionWithdrawal, 30)
	require.NoError(t, err)
	_, err = ledger.AddTransaction(time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), models.TransactionDeposit, 10)
	require.NoError(t, err)

	history, err := ledger.BalanceHistory()
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.InDelta(t, 100, history[0].Balance, 1e-9)
	assert.InDelta(t, 70, history[1].Balance, 1e-9)
	assert.InDelta(t, 80, history[2].Balance, 1e-9)
}

func TestLedger_TotalWithProfit(t *testing.T) {
	ledger, _ := newTestLedger(t)

	_, err := ledger.AddTransaction(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC), models.TransactionDeposit, 1000)
	require.NoError(t, err)

	total, err := ledger.TotalWithProfit(-87)
	require.NoError(t, err)
	assert.InDelta(t, 913, total, 1e-9)
}
