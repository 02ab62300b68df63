package domain

import (
	"context"
	"time"
)

// Wallet balances are maintained by the backend and only read here.
type Wallet struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Balance        float64   `json:"balance"`
	PendingBalance float64   `json:"pendingBalance"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type WalletTransactionType string

const (
	WalletTxCredit  WalletTransactionType = "credit"
	WalletTxDebit   WalletTransactionType = "debit"
	WalletTxPending WalletTransactionType = "pending"
)

// WalletTransaction is an append-only ledger entry.
type WalletTransaction struct {
	ID          string                `json:"id"`
	WalletID    string                `json:"walletId"`
	Amount      float64               `json:"amount"`
	Type        WalletTransactionType `json:"type"`
	Status      string                `json:"status"`
	Description *string               `json:"description,omitempty"`
	CreatedAt   time.Time             `json:"createdAt"`
}

type WalletRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Wallet, error)
	FetchTransactions(ctx context.Context, walletID string, limit int) ([]WalletTransaction, error)
}

// WalletOverview is the wallet page payload.
type WalletOverview struct {
	Wallet       *Wallet             `json:"wallet"`
	Transactions []WalletTransaction `json:"transactions"`
	Earnings     *Earnings           `json:"earnings"`
	Payouts      []PayoutRequest     `json:"payouts"`
}

type WalletUsecase interface {
	GetWallet(ctx context.Context, userID string) (*Wallet, error)
	ListTransactions(ctx context.Context, userID string) ([]WalletTransaction, error)
	GetOverview(ctx context.Context, userID string) (*WalletOverview, error)
}
