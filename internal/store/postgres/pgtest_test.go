package postgres_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/catalog"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/clock"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/ledger"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/store"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/store/postgres"
)

const testLockTimeout = 5 * time.Second

// newTestDB starts a Postgres container, applies the embedded migrations, and
// returns a connected *sqlx.DB. The container is automatically terminated
// when the test ends.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("auction_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}

	connStr, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("getting connection string: %v", err)
	}

	db, err := sqlx.Connect("postgres", connStr)
	if err != nil {
		t.Fatalf("connecting to test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := postgres.Migrate(ctx, db); err != nil {
		t.Fatalf("applying migrations: %v", err)
	}

	return db
}

// testEnv bundles the repositories and services wired against one test
// database, plus a seeded auction event scope.
type testEnv struct {
	repos   *store.Repositories
	ledger  *ledger.Service
	catalog *catalog.Service
	scope   store.Scope
}

// newTestEnv builds services over a fresh database and seeds one auction
// event the returned scope points at.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	clk := clock.Real{}
	repos := &store.Repositories{
		AuctionEvents: postgres.NewAuctionEventRepo(db),
		Teams:         postgres.NewTeamRepo(db),
		Players:       postgres.NewPlayerRepo(db),
		Listings:      postgres.NewListingRepo(db),
		Ledger:        postgres.NewLedgerStore(db, clk, testLockTimeout),
		Changes:       postgres.NewChangeLog(db, clk),
		Closer:        db,
		Ping:          db.PingContext,
	}

	logger := slog.Default()
	tp := noop.NewTracerProvider()
	env := &testEnv{
		repos:   repos,
		ledger:  ledger.NewService(repos.Ledger, clk, logger, tp),
		catalog: catalog.NewService(repos, logger, tp),
	}

	e, err := env.catalog.CreateAuctionEvent(context.Background(), "IPL 2026 Mega Auction")
	if err != nil {
		t.Fatalf("seeding auction event: %v", err)
	}
	env.scope = store.Scope{AuctionEventID: e.ID, Role: "admin"}
	return env
}

// seedTeam creates a team in the env's auction event.
func (env *testEnv) seedTeam(t *testing.T, name, code string, purse int64) *store.Team {
	t.Helper()
	tm, err := env.catalog.CreateTeam(context.Background(), env.scope, catalog.CreateTeamParams{
		Name:       name,
		ShortCode:  code,
		TotalPurse: purse,
	})
	if err != nil {
		t.Fatalf("seeding team %s: %v", name, err)
	}
	return tm
}

// seedPlayer creates an unsold player in the env's auction event.
func (env *testEnv) seedPlayer(t *testing.T, name string, basePrice int64) *store.Player {
	t.Helper()
	p, err := env.catalog.CreatePlayer(context.Background(), env.scope, catalog.CreatePlayerParams{
		Name:      name,
		Role:      store.RoleBatter,
		Country:   "India",
		BasePrice: basePrice,
	})
	if err != nil {
		t.Fatalf("seeding player %s: %v", name, err)
	}
	return p
}

// openListing opens a bidding lane for the player.
func (env *testEnv) openListing(t *testing.T, playerID uuid.UUID) *store.Listing {
	t.Helper()
	l, err := env.ledger.OpenListing(context.Background(), env.scope, playerID)
	if err != nil {
		t.Fatalf("opening listing for %s: %v", playerID, err)
	}
	return l
}
