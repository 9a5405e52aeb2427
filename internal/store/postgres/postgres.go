package postgres

import (
	"context"
	"fmt"

	"github.com/XSAM/otelsql"
	"github.com/jmoiron/sqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/UdayKumar-git-hub/ipl-auction/internal/clock"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/config"
	"github.com/UdayKumar-git-hub/ipl-auction/internal/store"
)

// Connect opens and verifies a Postgres connection with OTEL instrumentation.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*sqlx.DB, error) {
	dsn := cfg.DSN()

	// Register the OTel-instrumented driver wrapping lib/pq.
	driverName, err := otelsql.Register("postgres",
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		return nil, fmt.Errorf("registering otel driver: %w", err)
	}

	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return db, nil
}

// Open connects, applies pending migrations, and returns the repository
// bundle backed by Postgres.
func Open(ctx context.Context, cfg config.DatabaseConfig, clk clock.Clock) (*store.Repositories, error) {
	db, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &store.Repositories{
		AuctionEvents: NewAuctionEventRepo(db),
		Teams:         NewTeamRepo(db),
		Players:       NewPlayerRepo(db),
		Listings:      NewListingRepo(db),
		Ledger:        NewLedgerStore(db, clk, cfg.LockTimeout),
		Changes:       NewChangeLog(db, clk),
		Closer:        db,
		Ping:          db.PingContext,
	}, nil
}
