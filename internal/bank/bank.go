// Package bank manages the vocabulary question bank.
package bank

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/apperr"
	"github.com/Spok95/vocab-scale/internal/models"
)

type Store interface {
	AddQuestion(ctx context.Context, word, translation string) (models.Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
	ListQuestions(ctx context.Context) ([]models.Question, error)
}

type Service struct {
	store Store
	log   *zap.Logger
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log}
}

// Add stores a new word. Words are unique and compared case-sensitively.
func (s *Service) Add(ctx context.Context, word, translation string) (models.Question, error) {
	word = strings.TrimSpace(word)
	translation = strings.TrimSpace(translation)
	if word == "" {
		return models.Question{}, apperr.Invalid("word", "must not be empty")
	}
	if translation == "" {
		return models.Question{}, apperr.Invalid("translation", "must not be empty")
	}
	q, err := s.store.AddQuestion(ctx, word, translation)
	if err != nil {
		return models.Question{}, fmt.Errorf("add question %q: %w", word, err)
	}
	s.log.Debug("question added", zap.Int64("qid", q.ID), zap.String("word", q.Word))
	return q, nil
}

type ImportResult struct {
	Added   int
	Skipped int
}

// Import reads "word<TAB>translation" or "word,translation" lines. Blank lines and
// lines starting with # are ignored; malformed lines and duplicate words are skipped.
// Storage failures stop the import.
func (s *Service) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	var res ImportResult
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		word, translation, ok := splitLine(text)
		if !ok {
			s.log.Warn("import: malformed line", zap.Int("line", line))
			res.Skipped++
			continue
		}
		if _, err := s.Add(ctx, word, translation); err != nil {
			if errors.Is(err, apperr.ErrValidation) {
				s.log.Warn("import: line skipped", zap.Int("line", line), zap.Error(err))
				res.Skipped++
				continue
			}
			return res, err
		}
		res.Added++
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("read import: %w", err)
	}
	s.log.Info("questions imported", zap.Int("added", res.Added), zap.Int("skipped", res.Skipped))
	return res, nil
}

func splitLine(text string) (word, translation string, ok bool) {
	sep := "\t"
	if !strings.Contains(text, sep) {
		sep = ","
	}
	word, translation, ok = strings.Cut(text, sep)
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(word), strings.TrimSpace(translation), true
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.DeleteQuestion(ctx, id); err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	return nil
}

// List returns the bank ordered by id.
func (s *Service) List(ctx context.Context) ([]models.Question, error) {
	return s.store.ListQuestions(ctx)
}
