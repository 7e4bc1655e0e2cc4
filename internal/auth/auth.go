// Package auth registers users, checks credentials and carries the logged-in Principal.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/vocab-scale/internal/apperr"
	"github.com/Spok95/vocab-scale/internal/models"
)

// Store is the part of the credential table auth needs.
type Store interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByName(ctx context.Context, name string) (*models.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// Principal is the logged-in user. The zero value means nobody is logged in.
type Principal struct {
	UserID    string
	Name      string
	Role      models.Role
	ClassName string
}

func (p Principal) LoggedIn() bool { return p.UserID != "" }

func PrincipalOf(u models.User) Principal {
	return Principal{UserID: u.ID, Name: u.Name, Role: u.Role, ClassName: u.ClassName}
}

type Service struct {
	store Store
	log   *zap.Logger
	cost  int
	newID func() string
}

type Option func(*Service)

// WithCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func WithCost(cost int) Option { return func(s *Service) { s.cost = cost } }

func WithIDGenerator(f func() string) Option { return func(s *Service) { s.newID = f } }

func NewService(store Store, log *zap.Logger, opts ...Option) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{store: store, log: log, cost: bcrypt.DefaultCost, newID: uuid.NewString}
	for _, o := range opts {
		o(s)
	}
	return s
}

type Registration struct {
	Name      string
	Password  string
	RoleCode  int
	ClassName string
	TeacherID *string
	// StudentNum is required for students and ignored otherwise.
	StudentNum *int
}

func (s *Service) Register(ctx context.Context, r Registration) (models.User, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return models.User{}, apperr.Invalid("name", "must not be empty")
	}
	if r.Password == "" {
		return models.User{}, apperr.Invalid("password", "must not be empty")
	}
	role, err := models.ParseRole(r.RoleCode)
	if err != nil {
		return models.User{}, apperr.Invalid("role", err.Error())
	}

	u := models.User{
		ID:        s.newID(),
		Name:      name,
		Role:      role,
		ClassName: strings.TrimSpace(r.ClassName),
		TeacherID: r.TeacherID,
	}
	if role == models.Student {
		if r.StudentNum == nil {
			return models.User{}, apperr.Invalid("student_number", "required for students")
		}
		if *r.StudentNum < 0 {
			return models.User{}, apperr.Invalid("student_number", "must not be negative")
		}
		n := *r.StudentNum
		u.StudentNum = &n
	}

	hash, err := s.Hash(r.Password)
	if err != nil {
		return models.User{}, err
	}
	u.PasswordHash = hash

	created, err := s.store.CreateUser(ctx, u)
	if err != nil {
		return models.User{}, fmt.Errorf("register %q: %w", name, err)
	}
	s.log.Info("user registered", zap.String("user_id", created.ID), zap.String("role", role.String()))
	return created, nil
}

// Hash is the credential transform applied before storage.
func (s *Service) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", apperr.Invalid("password", "too long")
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

// Login returns ErrInvalidCredentials for an unknown name and for a wrong password alike.
func (s *Service) Login(ctx context.Context, name, password string) (models.User, error) {
	u, err := s.store.GetUserByName(ctx, strings.TrimSpace(name))
	if errors.Is(err, apperr.ErrNotFound) {
		return models.User{}, apperr.ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, fmt.Errorf("login: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return models.User{}, apperr.ErrInvalidCredentials
	}
	return *u, nil
}

// Level reports the role of id; ErrNotFound when absent.
func (s *Service) Level(ctx context.Context, id string) (models.Role, error) {
	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return 0, err
	}
	return u.Role, nil
}

// Delete removes the user only. Their answer records stay in the ledger.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	s.log.Info("user deleted", zap.String("user_id", id))
	return nil
}
