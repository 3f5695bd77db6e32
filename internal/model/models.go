package model

import "time"

// Transaction ledger entry types.
const (
	TxTypeProfit            = "profit"
	TxTypeWithdrawalRequest = "withdrawal_request"
	TxTypeDeposit           = "deposit"
)

// WithdrawalStatusPending is the initial (and only) status written for a
// withdrawal request; any later transition happens outside this service.
const WithdrawalStatusPending = "pending"

// Opportunity represents a detected arbitrage opportunity between the
// baseline source and another liquidity source.
type Opportunity struct {
	BuySource           string  `json:"buySource"`
	BuyPrice            float64 `json:"buyPrice"`
	SellSource          string  `json:"sellSource"`
	SellPrice           float64 `json:"sellPrice"`
	ProfitMarginPercent float64 `json:"profitMarginPercent"`
}

// ProfitRecord holds a user's current profit balance. At most one record
// exists per user; updates replace the whole document.
type ProfitRecord struct {
	UserID  string  `json:"userId"`
	Profits float64 `json:"profits"`
}

// TransactionRecord is an append-only ledger entry mirroring every mutating
// operation on the other collections.
type TransactionRecord struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Type      string  `json:"type"`
	Amount    float64 `json:"amount"`
	Address   string  `json:"address,omitempty"`
	Currency  string  `json:"currency,omitempty"`
	TxID      string  `json:"txId,omitempty"`
	Timestamp string  `json:"timestamp"`
}

// WithdrawalRecord is an append-only withdrawal request.
type WithdrawalRecord struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Amount    float64 `json:"amount"`
	Address   string  `json:"address"`
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
}

// DepositRecord is an append-only, admin-entered deposit.
type DepositRecord struct {
	ID        string  `json:"id"`
	UserID    string  `json:"userId"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	TxID      string  `json:"txId"`
	Timestamp string  `json:"timestamp"`
}

// Now returns the RFC-3339 timestamp string written on persisted records.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
