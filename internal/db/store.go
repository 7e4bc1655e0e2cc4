package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/vocab-scale/internal/models"
)

// Store binds the package functions to one *sql.DB so services can depend on small interfaces.
type Store struct {
	DB *sql.DB
}

func NewStore(database *sql.DB) *Store { return &Store{DB: database} }

func (s *Store) Ping(ctx context.Context) error { return Ping(ctx, s.DB) }

func (s *Store) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	return CreateUser(ctx, s.DB, u)
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	return GetUserByID(ctx, s.DB, id)
}

func (s *Store) GetUserByName(ctx context.Context, name string) (*models.User, error) {
	return GetUserByName(ctx, s.DB, name)
}

func (s *Store) DeleteUser(ctx context.Context, id string) error { return DeleteUser(ctx, s.DB, id) }

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) { return ListUsers(ctx, s.DB) }

func (s *Store) AddQuestion(ctx context.Context, word, translation string) (models.Question, error) {
	return AddQuestion(ctx, s.DB, word, translation)
}

func (s *Store) DeleteQuestion(ctx context.Context, id int64) error {
	return DeleteQuestion(ctx, s.DB, id)
}

func (s *Store) ListQuestions(ctx context.Context) ([]models.Question, error) {
	return ListQuestions(ctx, s.DB)
}

func (s *Store) AppendAnswer(ctx context.Context, rec models.AnswerRecord) (models.AnswerRecord, error) {
	return AppendAnswer(ctx, s.DB, rec)
}

func (s *Store) ListAnswers(ctx context.Context) ([]models.AnswerRecord, error) {
	return ListAnswers(ctx, s.DB)
}

func (s *Store) ListAnswersByStudent(ctx context.Context, studentID string) ([]models.AnswerRecord, error) {
	return ListAnswersByStudent(ctx, s.DB, studentID)
}
