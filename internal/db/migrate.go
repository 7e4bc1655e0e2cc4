package db

import (
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/db/migrations"
)

// Migrate applies the embedded goose migrations.
func Migrate(database *sql.DB, log *zap.Logger) error {
	goose.SetBaseFS(migrations.FS)
	if log != nil {
		goose.SetLogger(zap.NewStdLog(log.Named("goose")))
	}
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := goose.Up(database, "."); err != nil {
		return fmt.Errorf("goose up: %w", classify(err))
	}
	return nil
}
