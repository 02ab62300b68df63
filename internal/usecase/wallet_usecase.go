package usecase

import (
	"context"
	"errors"

	"event-staffing-backend/internal/domain"
)

const walletTransactionLimit = 50

type walletUsecase struct {
	walletRepo domain.WalletRepository
	payments   domain.PaymentUsecase
}

func NewWalletUsecase(walletRepo domain.WalletRepository, payments domain.PaymentUsecase) domain.WalletUsecase {
	return &walletUsecase{walletRepo: walletRepo, payments: payments}
}

// GetWallet returns the user's wallet. Users the backend has not opened a
// wallet for yet get an empty one.
func (u *walletUsecase) GetWallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	wallet, err := u.walletRepo.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Wallet{UserID: userID}, nil
	}
	if err != nil {
		return nil, failure("Failed to load your wallet", err)
	}
	return wallet, nil
}

func (u *walletUsecase) ListTransactions(ctx context.Context, userID string) ([]domain.WalletTransaction, error) {
	wallet, err := u.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wallet.ID == "" {
		return []domain.WalletTransaction{}, nil
	}

	list, err := u.walletRepo.FetchTransactions(ctx, wallet.ID, walletTransactionLimit)
	if err != nil {
		return nil, failure("Failed to load your transactions", err)
	}
	return list, nil
}

func (u *walletUsecase) GetOverview(ctx context.Context, userID string) (*domain.WalletOverview, error) {
	wallet, err := u.GetWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	transactions := []domain.WalletTransaction{}
	if wallet.ID != "" {
		transactions, err = u.walletRepo.FetchTransactions(ctx, wallet.ID, walletTransactionLimit)
		if err != nil {
			return nil, failure("Failed to load your transactions", err)
		}
	}

	earnings, err := u.payments.CalculateEarnings(ctx, userID)
	if err != nil {
		return nil, err
	}
	payouts, err := u.payments.ListPayoutRequests(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.WalletOverview{
		Wallet:       wallet,
		Transactions: transactions,
		Earnings:     earnings,
		Payouts:      payouts,
	}, nil
}
