package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/tidwall/buntdb"

	"github.com/BagwellTbag/quantumsol-backend/internal/model"
)

// Collection key prefixes. Append-only records carry a ULID suffix, so a
// descending key scan over a user's prefix yields newest-first order.
const (
	profitKeyPrefix      = "profit:"
	transactionKeyPrefix = "tx:"
	withdrawalKeyPrefix  = "wd:"
	depositKeyPrefix     = "dep:"
)

// encodeUserID hex-encodes a user ID for use in store keys. Listing scans
// keys with a glob pattern, so user-supplied text must not contribute the
// key delimiter or the `*`/`?` wildcards; hex contains neither.
func encodeUserID(userID string) string {
	return hex.EncodeToString([]byte(userID))
}

// FileStore implements Store on a single buntdb file: an append-only
// persisted log replayed fully into memory when opened.
type FileStore struct {
	db *buntdb.DB
}

// OpenFileStore opens (or creates) the store file at path. The special path
// ":memory:" keeps everything in memory, which the tests use.
func OpenFileStore(path string) (*FileStore, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store file %s: %w", path, err)
	}
	return &FileStore{db: db}, nil
}

// Close flushes and closes the underlying file.
func (s *FileStore) Close() error {
	return s.db.Close()
}

// UpsertProfit inserts or fully replaces the profit record for rec.UserID.
func (s *FileStore) UpsertProfit(_ context.Context, rec model.ProfitRecord) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(profitKeyPrefix+encodeUserID(rec.UserID), string(doc), nil)
		return err
	})
}

// FindProfit returns the profit record for userID, or nil when none exists.
func (s *FileStore) FindProfit(_ context.Context, userID string) (*model.ProfitRecord, error) {
	var rec model.ProfitRecord
	err := s.db.View(func(tx *buntdb.Tx) error {
		doc, err := tx.Get(profitKeyPrefix + encodeUserID(userID))
		if err != nil {
			return err
		}
		return json.Unmarshal([]byte(doc), &rec)
	})
	if err == buntdb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// InsertTransaction appends a ledger entry.
func (s *FileStore) InsertTransaction(_ context.Context, rec model.TransactionRecord) error {
	return s.insert(transactionKeyPrefix, rec.UserID, rec.ID, rec)
}

// ListTransactions returns the user's ledger entries, newest first.
func (s *FileStore) ListTransactions(_ context.Context, userID string) ([]model.TransactionRecord, error) {
	recs := []model.TransactionRecord{}
	err := s.list(transactionKeyPrefix, userID, func(doc string) error {
		var rec model.TransactionRecord
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return err
		}
		recs = append(recs, rec)
		return nil
	})
	return recs, err
}

// InsertWithdrawal appends a withdrawal request.
func (s *FileStore) InsertWithdrawal(_ context.Context, rec model.WithdrawalRecord) error {
	return s.insert(withdrawalKeyPrefix, rec.UserID, rec.ID, rec)
}

// ListWithdrawals returns the user's withdrawal requests, newest first.
func (s *FileStore) ListWithdrawals(_ context.Context, userID string) ([]model.WithdrawalRecord, error) {
	recs := []model.WithdrawalRecord{}
	err := s.list(withdrawalKeyPrefix, userID, func(doc string) error {
		var rec model.WithdrawalRecord
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return err
		}
		recs = append(recs, rec)
		return nil
	})
	return recs, err
}

// InsertDeposit appends a deposit record.
func (s *FileStore) InsertDeposit(_ context.Context, rec model.DepositRecord) error {
	return s.insert(depositKeyPrefix, rec.UserID, rec.ID, rec)
}

// ListDeposits returns the user's deposits, newest first.
func (s *FileStore) ListDeposits(_ context.Context, userID string) ([]model.DepositRecord, error) {
	recs := []model.DepositRecord{}
	err := s.list(depositKeyPrefix, userID, func(doc string) error {
		var rec model.DepositRecord
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return err
		}
		recs = append(recs, rec)
		return nil
	})
	return recs, err
}

func (s *FileStore) insert(prefix, userID, id string, rec any) error {
	if id == "" {
		return fmt.Errorf("record for user %s has no id", userID)
	}
	doc, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(prefix+encodeUserID(userID)+":"+id, string(doc), nil)
		return err
	})
}

func (s *FileStore) list(prefix, userID string, each func(doc string) error) error {
	var iterErr error
	err := s.db.View(func(tx *buntdb.Tx) error {
		return tx.DescendKeys(prefix+encodeUserID(userID)+":*", func(key, value string) bool {
			if err := each(value); err != nil {
				iterErr = err
				return false
			}
			return true
		})
	})
	if err != nil {
		return err
	}
	return iterErr
}
