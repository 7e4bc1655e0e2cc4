package quiz

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/apperr"
	"github.com/Spok95/vocab-scale/internal/models"
	"github.com/Spok95/vocab-scale/internal/puzzle"
)

// Store is everything a quiz touches: identity lookup, the bank snapshot and the ledger.
type Store interface {
	Ledger
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListQuestions(ctx context.Context) ([]models.Question, error)
}

type Service struct {
	store Store
	log   *zap.Logger
	rng   puzzle.Source
}

func NewService(store Store, log *zap.Logger, rng puzzle.Source) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log, rng: rng}
}

// Begin checks that studentID names a student and starts a session over the current bank.
func (s *Service) Begin(ctx context.Context, studentID string) (*Session, error) {
	u, err := s.store.GetUser(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("quiz student %s: %w", studentID, err)
	}
	if u.Role != models.Student {
		return nil, apperr.Invalid("role", "only students take quizzes")
	}
	qs, err := s.store.ListQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	sess := NewSession(s.store, s.log, s.rng)
	if err := sess.Start(*u, qs); err != nil {
		return nil, err
	}
	s.log.Info("quiz started", zap.String("student_id", u.ID), zap.Int("questions", len(qs)))
	return sess, nil
}
