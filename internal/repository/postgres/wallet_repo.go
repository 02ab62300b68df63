package postgres

import (
	"context"
	"time"

	"event-staffing-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type walletRow struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	Balance        float64   `db:"balance"`
	PendingBalance float64   `db:"pending_balance"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func walletToDomain(r walletRow) domain.Wallet {
	return domain.Wallet{
		ID:             r.ID,
		UserID:         r.UserID,
		Balance:        r.Balance,
		PendingBalance: r.PendingBalance,
		UpdatedAt:      r.UpdatedAt,
	}
}

type walletTransactionRow struct {
	ID          string    `db:"id"`
	WalletID    string    `db:"wallet_id"`
	Amount      float64   `db:"amount"`
	Type        string    `db:"type"`
	Status      string    `db:"status"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

func walletTransactionToDomain(r walletTransactionRow) domain.WalletTransaction {
	return domain.WalletTransaction{
		ID:          r.ID,
		WalletID:    r.WalletID,
		Amount:      r.Amount,
		Type:        domain.WalletTransactionType(r.Type),
		Status:      r.Status,
		Description: r.Description,
		CreatedAt:   r.CreatedAt,
	}
}

// walletRepo is read-only: balances and the ledger are written by the backend.
type walletRepo struct {
	db *pgxpool.Pool
}

func NewWalletRepository(db *pgxpool.Pool) domain.WalletRepository {
	return &walletRepo{db: db}
}

func (r *walletRepo) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, balance::float8 AS balance, pending_balance::float8 AS pending_balance, updated_at
		FROM wallets WHERE user_id = $1`, userID)
	if err != nil {
		return nil, wrapErr("wallets.get", err)
	}
	w, err := collectOne(rows, walletToDomain)
	return w, wrapErr("wallets.get", err)
}

func (r *walletRepo) FetchTransactions(ctx context.Context, walletID string, limit int) ([]domain.WalletTransaction, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, wallet_id, amount::float8 AS amount, type, status, description, created_at
		FROM wallet_transactions WHERE wallet_id = $1
		ORDER BY created_at DESC LIMIT $2`, walletID, limit)
	if err != nil {
		return nil, wrapErr("wallet_transactions.list", err)
	}
	list, err := collect(rows, walletTransactionToDomain)
	return list, wrapErr("wallet_transactions.list", err)
}
