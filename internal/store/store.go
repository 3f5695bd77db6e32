package store

import (
	"context"

	"github.com/BagwellTbag/quantumsol-backend/internal/model"
)

// Store defines the standard interface over the four record collections.
// Profits are upsert-keyed by user; the other three collections are
// append-only and listed newest first.
type Store interface {
	UpsertProfit(ctx context.Context, rec model.ProfitRecord) error
	FindProfit(ctx context.Context, userID string) (*model.ProfitRecord, error)

	InsertTransaction(ctx context.Context, rec model.TransactionRecord) error
	ListTransactions(ctx context.Context, userID string) ([]model.TransactionRecord, error)

	InsertWithdrawal(ctx context.Context, rec model.WithdrawalRecord) error
	ListWithdrawals(ctx context.Context, userID string) ([]model.WithdrawalRecord, error)

	InsertDeposit(ctx context.Context, rec model.DepositRecord) error
	ListDeposits(ctx context.Context, userID string) ([]model.DepositRecord, error)

	Close() error
}
