package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BagwellTbag/quantumsol-backend/internal/config"
	"github.com/BagwellTbag/quantumsol-backend/internal/model"
)

// PostgresStore implements Store on a pgx connection pool, one table per
// collection. Timestamps are stored as their RFC-3339 strings, which order
// lexicographically in chronological order.
type PostgresStore struct {
	Pool *pgxpool.Pool
}

// NewPostgresStore connects to the configured database and runs migrations.
func NewPostgresStore(ctx context.Context, cfg config.DatabaseConfig) (*PostgresStore, error) {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{Pool: pool}
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the four collection tables if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS profits (
		user_id TEXT PRIMARY KEY,
		profits DOUBLE PRECISION NOT NULL
	);
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		currency TEXT NOT NULL DEFAULT '',
		tx_id TEXT NOT NULL DEFAULT '',
		timestamp TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS withdrawals (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		address TEXT NOT NULL,
		status TEXT NOT NULL,
		timestamp TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS deposits (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		amount DOUBLE PRECISION NOT NULL,
		currency TEXT NOT NULL,
		tx_id TEXT NOT NULL,
		timestamp TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_user ON transactions (user_id, timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_withdrawals_user ON withdrawals (user_id, timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_deposits_user ON deposits (user_id, timestamp DESC);`

	_, err := s.Pool.Exec(ctx, ddl)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.Pool.Close()
	return nil
}

// UpsertProfit inserts or fully replaces the profit record for rec.UserID.
func (s *PostgresStore) UpsertProfit(ctx context.Context, rec model.ProfitRecord) error {
	query := `INSERT INTO profits (user_id, profits) VALUES ($1, $2)
			  ON CONFLICT (user_id) DO UPDATE SET profits = EXCLUDED.profits`
	_, err := s.Pool.Exec(ctx, query, rec.UserID, rec.Profits)
	return err
}

// FindProfit returns the profit record for userID, or nil when none exists.
func (s *PostgresStore) FindProfit(ctx context.Context, userID string) (*model.ProfitRecord, error) {
	var rec model.ProfitRecord
	query := `SELECT user_id, profits FROM profits WHERE user_id = $1`
	err := s.Pool.QueryRow(ctx, query, userID).Scan(&rec.UserID, &rec.Profits)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// InsertTransaction appends a ledger entry.
func (s *PostgresStore) InsertTransaction(ctx context.Context, rec model.TransactionRecord) error {
	query := `INSERT INTO transactions (id, user_id, type, amount, address, currency, tx_id, timestamp)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.Pool.Exec(ctx, query,
		rec.ID, rec.UserID, rec.Type, rec.Amount, rec.Address, rec.Currency, rec.TxID, rec.Timestamp)
	return err
}

// ListTransactions returns the user's ledger entries, newest first.
func (s *PostgresStore) ListTransactions(ctx context.Context, userID string) ([]model.TransactionRecord, error) {
	query := `SELECT id, user_id, type, amount, address, currency, tx_id, timestamp
			  FROM transactions WHERE user_id = $1 ORDER BY timestamp DESC, id DESC`
	rows, err := s.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []model.TransactionRecord{}
	for rows.Next() {
		var rec model.TransactionRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Type, &rec.Amount,
			&rec.Address, &rec.Currency, &rec.TxID, &rec.Timestamp); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// InsertWithdrawal appends a withdrawal request.
func (s *PostgresStore) InsertWithdrawal(ctx context.Context, rec model.WithdrawalRecord) error {
	query := `INSERT INTO withdrawals (id, user_id, amount, address, status, timestamp)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.Pool.Exec(ctx, query,
		rec.ID, rec.UserID, rec.Amount, rec.Address, rec.Status, rec.Timestamp)
	return err
}

// ListWithdrawals returns the user's withdrawal requests, newest first.
func (s *PostgresStore) ListWithdrawals(ctx context.Context, userID string) ([]model.WithdrawalRecord, error) {
	query := `SELECT id, user_id, amount, address, status, timestamp
			  FROM withdrawals WHERE user_id = $1 ORDER BY timestamp DESC, id DESC`
	rows, err := s.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []model.WithdrawalRecord{}
	for rows.Next() {
		var rec model.WithdrawalRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Amount,
			&rec.Address, &rec.Status, &rec.Timestamp); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// InsertDeposit appends a deposit record.
func (s *PostgresStore) InsertDeposit(ctx context.Context, rec model.DepositRecord) error {
	query := `INSERT INTO deposits (id, user_id, amount, currency, tx_id, timestamp)
			  VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := s.Pool.Exec(ctx, query,
		rec.ID, rec.UserID, rec.Amount, rec.Currency, rec.TxID, rec.Timestamp)
	return err
}

// ListDeposits returns the user's deposits, newest first.
func (s *PostgresStore) ListDeposits(ctx context.Context, userID string) ([]model.DepositRecord, error) {
	query := `SELECT id, user_id, amount, currency, tx_id, timestamp
			  FROM deposits WHERE user_id = $1 ORDER BY timestamp DESC, id DESC`
	rows, err := s.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	recs := []model.DepositRecord{}
	for rows.Next() {
		var rec model.DepositRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Amount,
			&rec.Currency, &rec.TxID, &rec.Timestamp); err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
