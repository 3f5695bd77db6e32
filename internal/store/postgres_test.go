package store

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/BagwellTbag/quantumsol-backend/internal/model"
)

var pool *pgxpool.Pool

func TestMain(m *testing.M) {
	if os.Getenv("SKIP_PG_TESTS") != "" {
		os.Exit(m.Run())
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpassword",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}

	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	defer func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			log.Fatalf("could not stop postgres container: %s", err)
		}
	}()

	host, err := pgContainer.Host(ctx)
	if err != nil {
		log.Fatalf("could not get container host: %s", err)
	}
	port, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("could not get mapped port: %s", err)
	}

	connStr := "postgres://testuser:testpassword@" + host + ":" + port.Port() + "/testdb"

	pool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("could not connect to database: %s", err)
	}
	defer pool.Close()

	s := &PostgresStore{Pool: pool}
	if err := s.Migrate(ctx); err != nil {
		log.Fatalf("could not migrate: %s", err)
	}

	os.Exit(m.Run())
}

func pgStore(t *testing.T) *PostgresStore {
	if pool == nil {
		t.Skip("postgres container not available")
	}
	return &PostgresStore{Pool: pool}
}

func TestPostgresStore_ProfitUpsert(t *testing.T) {
	s := pgStore(t)
	ctx := context.Background()

	rec, err := s.FindProfit(ctx, "pg-user-1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, s.UpsertProfit(ctx, model.ProfitRecord{UserID: "pg-user-1", Profits: 42.5}))
	require.NoError(t, s.UpsertProfit(ctx, model.ProfitRecord{UserID: "pg-user-1", Profits: 42.5}))

	var count int
	require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM profits WHERE user_id = 'pg-user-1'").Scan(&count))
	assert.Equal(t, 1, count)

	rec, err = s.FindProfit(ctx, "pg-user-1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, 42.5, rec.Profits)
}

func TestPostgresStore_TransactionsNewestFirst(t *testing.T) {
	s := pgStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, amount := range []float64{1, 2, 3} {
		require.NoError(t, s.InsertTransaction(ctx, model.TransactionRecord{
			ID:        ulid.Make().String(),
			UserID:    "pg-user-2",
			Type:      model.TxTypeProfit,
			Amount:    amount,
			Timestamp: base.Add(time.Duration(i) * time.Second).Format(time.RFC3339),
		}))
	}

	recs, err := s.ListTransactions(ctx, "pg-user-2")
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, 3.0, recs[0].Amount)
	assert.Equal(t, 1.0, recs[2].Amount)
}

func TestPostgresStore_WithdrawalsAndDeposits(t *testing.T) {
	s := pgStore(t)
	ctx := context.Background()

	require.NoError(t, s.InsertWithdrawal(ctx, model.WithdrawalRecord{
		ID:        ulid.Make().String(),
		UserID:    "pg-user-3",
		Amount:    10,
		Address:   "GcV16xEPGTkfm1DsDTi7Req1wjfkfm5U4Bgtot4QHUgP",
		Status:    model.WithdrawalStatusPending,
		Timestamp: model.Now(),
	}))
	wds, err := s.ListWithdrawals(ctx, "pg-user-3")
	require.NoError(t, err)
	require.Len(t, wds, 1)
	assert.Equal(t, model.WithdrawalStatusPending, wds[0].Status)

	require.NoError(t, s.InsertDeposit(ctx, model.DepositRecord{
		ID:        ulid.Make().String(),
		UserID:    "pg-user-3",
		Amount:    5,
		Currency:  "USDC",
		TxID:      "N/A",
		Timestamp: model.Now(),
	}))
	deps, err := s.ListDeposits(ctx, "pg-user-3")
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, "N/A", deps[0].TxID)
}
