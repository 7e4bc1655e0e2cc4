package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/Spok95/vocab-scale/internal/ctxutil"
	"github.com/Spok95/vocab-scale/internal/metrics"
)

// Open connects with driver "pgx" (default) or "postgres" (lib/pq) and pings once.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	database, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if err := Ping(ctx, database); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}

func Ping(ctx context.Context, database *sql.DB) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	t0 := time.Now()
	if err := database.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", classify(err))
	}
	metrics.ObserveDBPing(time.Since(t0))
	return nil
}
