package app

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/auth"
	"github.com/Spok95/vocab-scale/internal/bank"
	"github.com/Spok95/vocab-scale/internal/config"
	"github.com/Spok95/vocab-scale/internal/ctxutil"
	"github.com/Spok95/vocab-scale/internal/db"
	"github.com/Spok95/vocab-scale/internal/grades"
	"github.com/Spok95/vocab-scale/internal/quiz"
)

// SeedPassword is the password of the seeded stu0..stu9 accounts.
const SeedPassword = "123456"

// Services is the engine shared by both front ends.
type Services struct {
	DB     *sql.DB
	Store  *db.Store
	Auth   *auth.Service
	Bank   *bank.Service
	Quiz   *quiz.Service
	Grades *grades.Aggregator
}

// Bootstrap opens storage, migrates it and wires the services. Only this step is
// allowed to fail the process.
func Bootstrap(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Services, error) {
	ctxutil.DefaultDBTimeout = cfg.DBTimeout

	database, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := db.Migrate(database, log); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	store := db.NewStore(database)
	s := &Services{
		DB:     database,
		Store:  store,
		Auth:   auth.NewService(store, log),
		Bank:   bank.NewService(store, log),
		Quiz:   quiz.NewService(store, log, nil),
		Grades: grades.NewAggregator(store, log),
	}

	if cfg.SeedTestData {
		if err := s.seed(ctx, log); err != nil {
			log.Warn("seed test data", zap.Error(err))
		}
	}
	return s, nil
}

func (s *Services) seed(ctx context.Context, log *zap.Logger) error {
	hash, err := s.Auth.Hash(SeedPassword)
	if err != nil {
		return err
	}
	if err := db.SeedStudents(ctx, s.DB, hash, log); err != nil {
		return err
	}
	return db.SeedQuestions(ctx, s.DB)
}

func (s *Services) Close() error { return s.DB.Close() }
