package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"ecbrates/internal/adapters/cache"
	"ecbrates/internal/adapters/postgres"
	"ecbrates/internal/domain"
	"ecbrates/internal/ingest"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	tcpg "github.com/testcontainers/testcontainers-go/modules/postgres"
)

const migrationsDir = "../../platform/db/migrations"

var (
	pgSetupOnce sync.Once

	pgContainer *tcpg.PostgresContainer
	pgConnStr   string
)

func TestMain(m *testing.M) {
	code := m.Run()
	if pgContainer != nil {
		_ = pgContainer.Terminate(context.Background())
	}
	os.Exit(code)
}

func setupPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pgSetupOnce.Do(func() {
		startPostgres(t)
	})

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, pgConnStr)
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	require.NoError(t, resetDatabase(ctx, pool))

	return pool
}

func startPostgres(t *testing.T) {
	ctx := context.Background()
	pg, err := tcpg.Run(ctx,
		"postgres:16-alpine",
		tcpg.WithDatabase("postgres"),
		tcpg.WithUsername("postgres"),
		tcpg.WithPassword("postgres"),
	)
	require.NoError(t, err)

	dsn, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	require.Eventually(t, func() bool {
		pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return db.PingContext(pingCtx) == nil
	}, 15*time.Second, 500*time.Millisecond)

	require.NoError(t, goose.SetDialect("postgres"))
	require.NoError(t, goose.UpContext(ctx, db, migrationsDir))

	pgContainer = pg
	pgConnStr = dsn
}

func resetDatabase(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `truncate table currency_rates, currencies restart identity cascade`); err != nil {
		return err
	}
	return nil
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	require.NoError(t, err)
	return d
}

// ---------- CurrencyRepository tests ----------

func TestCurrencyRepository_FindOrCreate_CreatesOnFirstSighting(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewCurrencyRepository(pool)
	ctx := context.Background()

	id, err := repo.FindOrCreate(ctx, "USD")
	require.NoError(t, err)
	require.Positive(t, id)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `select count(*) from currencies`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestCurrencyRepository_FindOrCreate_ReturnsExistingID(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewCurrencyRepository(pool)
	ctx := context.Background()

	first, err := repo.FindOrCreate(ctx, "JPY")
	require.NoError(t, err)
	second, err := repo.FindOrCreate(ctx, "JPY")
	require.NoError(t, err)
	require.Equal(t, first, second)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `select count(*) from currencies`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestCurrencyRepository_FindOrCreate_DBError(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewCurrencyRepository(pool)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.FindOrCreate(ctx, "USD")
	require.Error(t, err)
}

func TestCurrencyRepository_ListCodes_Empty(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewCurrencyRepository(pool)

	codes, err := repo.ListCodes(context.Background())
	require.NoError(t, err)
	require.Empty(t, codes)
}

func TestCurrencyRepository_ListCodes_Sorted(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewCurrencyRepository(pool)
	ctx := context.Background()

	_, err := pool.Exec(ctx, `insert into currencies(code) values ('USD'),('CHF'),('JPY')`)
	require.NoError(t, err)

	codes, err := repo.ListCodes(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"CHF", "JPY", "USD"}, codes)
}

// ---------- RateRepository tests ----------

func TestRateRepository_ExistsAndInsert(t *testing.T) {
	pool := setupPostgres(t)
	currencies := postgres.NewCurrencyRepository(pool)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()

	usd, err := currencies.FindOrCreate(ctx, "USD")
	require.NoError(t, err)

	date := day(t, "2024-01-02")

	exists, err := repo.Exists(ctx, date, usd)
	require.NoError(t, err)
	require.False(t, exists)

	err = repo.Insert(ctx, date, usd, decimal.RequireFromString("1.0950"))
	require.NoError(t, err)

	exists, err = repo.Exists(ctx, date, usd)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestRateRepository_Insert_DuplicateDateCurrency(t *testing.T) {
	pool := setupPostgres(t)
	currencies := postgres.NewCurrencyRepository(pool)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()

	usd, err := currencies.FindOrCreate(ctx, "USD")
	require.NoError(t, err)

	date := day(t, "2024-01-02")
	require.NoError(t, repo.Insert(ctx, date, usd, decimal.RequireFromString("1.0950")))

	err = repo.Insert(ctx, date, usd, decimal.RequireFromString("1.0951"))
	require.ErrorIs(t, err, domain.ErrDuplicateRate)

	var count int
	require.NoError(t, pool.QueryRow(ctx, `select count(*) from currency_rates`).Scan(&count))
	require.Equal(t, 1, count)
}

func TestRateRepository_Insert_KeepsSixDecimals(t *testing.T) {
	pool := setupPostgres(t)
	currencies := postgres.NewCurrencyRepository(pool)
	repo := postgres.NewRateRepository(pool)
	ctx := context.Background()

	jpy, err := currencies.FindOrCreate(ctx, "JPY")
	require.NoError(t, err)

	date := day(t, "2024-01-02")
	require.NoError(t, repo.Insert(ctx, date, jpy, decimal.RequireFromString("155.806912")))

	stored, err := repo.List(ctx, domain.RateFilter{Codes: []string{"JPY"}})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.True(t, stored[0].Rate.Equal(decimal.RequireFromString("155.806912")),
		"got %s", stored[0].Rate)
}

func seedRates(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()
	currencies := postgres.NewCurrencyRepository(pool)
	rates := postgres.NewRateRepository(pool)

	usd, err := currencies.FindOrCreate(ctx, "USD")
	require.NoError(t, err)
	jpy, err := currencies.FindOrCreate(ctx, "JPY")
	require.NoError(t, err)
	chf, err := currencies.FindOrCreate(ctx, "CHF")
	require.NoError(t, err)

	require.NoError(t, rates.Insert(ctx, day(t, "2024-01-03"), usd, decimal.RequireFromString("1.1020")))
	require.NoError(t, rates.Insert(ctx, day(t, "2024-01-02"), usd, decimal.RequireFromString("1.0950")))
	require.NoError(t, rates.Insert(ctx, day(t, "2024-01-02"), jpy, decimal.RequireFromString("155.80")))
	require.NoError(t, rates.Insert(ctx, day(t, "2024-01-04"), chf, decimal.RequireFromString("0.9315")))
}

func TestRateRepository_List_NoFilter_OrderedByCodeThenDate(t *testing.T) {
	pool := setupPostgres(t)
	seedRates(t, pool)
	repo := postgres.NewRateRepository(pool)

	stored, err := repo.List(context.Background(), domain.RateFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 4)

	require.Equal(t, "CHF", stored[0].Currency)
	require.Equal(t, "JPY", stored[1].Currency)
	require.Equal(t, "USD", stored[2].Currency)
	require.Equal(t, "USD", stored[3].Currency)
	require.Equal(t, "2024-01-02", stored[2].Date.Format("2006-01-02"))
	require.Equal(t, "2024-01-03", stored[3].Date.Format("2006-01-02"))
}

func TestRateRepository_List_DateBound_OrderedByDateThenCode(t *testing.T) {
	pool := setupPostgres(t)
	seedRates(t, pool)
	repo := postgres.NewRateRepository(pool)

	start := day(t, "2024-01-02")
	end := day(t, "2024-01-03")
	stored, err := repo.List(context.Background(), domain.RateFilter{Start: &start, End: &end})
	require.NoError(t, err)
	require.Len(t, stored, 3)

	require.Equal(t, "2024-01-02", stored[0].Date.Format("2006-01-02"))
	require.Equal(t, "JPY", stored[0].Currency)
	require.Equal(t, "2024-01-02", stored[1].Date.Format("2006-01-02"))
	require.Equal(t, "USD", stored[1].Currency)
	require.Equal(t, "2024-01-03", stored[2].Date.Format("2006-01-02"))
	require.Equal(t, "USD", stored[2].Currency)
}

func TestRateRepository_List_CodesFilter(t *testing.T) {
	pool := setupPostgres(t)
	seedRates(t, pool)
	repo := postgres.NewRateRepository(pool)

	stored, err := repo.List(context.Background(), domain.RateFilter{Codes: []string{"USD", "CHF"}})
	require.NoError(t, err)
	require.Len(t, stored, 3)
	for _, sr := range stored {
		require.Contains(t, []string{"USD", "CHF"}, sr.Currency)
	}
}

func TestRateRepository_List_NoMatches(t *testing.T) {
	pool := setupPostgres(t)
	seedRates(t, pool)
	repo := postgres.NewRateRepository(pool)

	stored, err := repo.List(context.Background(), domain.RateFilter{Codes: []string{"MXN"}})
	require.NoError(t, err)
	require.Empty(t, stored)
}

func TestRateRepository_List_DBError(t *testing.T) {
	pool := setupPostgres(t)
	repo := postgres.NewRateRepository(pool)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := repo.List(ctx, domain.RateFilter{})
	require.Error(t, err)
}

// ---------- End-to-end reconcile ----------

// Replays the same observations twice against real storage. The second
// pass must not create any rows.
func TestReconcile_RerunIsIdempotent(t *testing.T) {
	pool := setupPostgres(t)
	ctx := context.Background()

	currencyCache, err := cache.NewCurrencyCache(64)
	require.NoError(t, err)
	t.Cleanup(currencyCache.Close)

	resolver := ingest.NewResolver(postgres.NewCurrencyRepository(pool), currencyCache)
	reconciler := ingest.NewReconciler(postgres.NewRateRepository(pool))

	observations := []struct {
		code string
		date string
		rate string
	}{
		{code: "USD", date: "2024-01-02", rate: "1.0950"},
		{code: "USD", date: "2024-01-03", rate: "1.1020"},
		{code: "JPY", date: "2024-01-02", rate: "155.80"},
	}

	run := func() (inserted, skipped int) {
		for _, obs := range observations {
			id, err := resolver.Resolve(ctx, obs.code)
			require.NoError(t, err)
			outcome, err := reconciler.Reconcile(ctx, id, obs.date, obs.rate)
			require.NoError(t, err)
			if outcome == ingest.OutcomeInserted {
				inserted++
			} else {
				skipped++
			}
		}
		return inserted, skipped
	}

	inserted, skipped := run()
	require.Equal(t, 3, inserted)
	require.Zero(t, skipped)

	inserted, skipped = run()
	require.Zero(t, inserted)
	require.Equal(t, 3, skipped)

	var rateCount, currencyCount int
	require.NoError(t, pool.QueryRow(ctx, `select count(*) from currency_rates`).Scan(&rateCount))
	require.NoError(t, pool.QueryRow(ctx, `select count(*) from currencies`).Scan(&currencyCount))
	require.Equal(t, 3, rateCount)
	require.Equal(t, 2, currencyCount)
}
