//go:build testutil
// +build testutil

package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/apperr"
	"github.com/Spok95/vocab-scale/internal/db"
	"github.com/Spok95/vocab-scale/internal/models"
	"github.com/Spok95/vocab-scale/internal/testutil/testdb"
)

func ptrInt(n int) *int { return &n }

func mustCreateUser(t *testing.T, s *db.Store, name string, role models.Role, class string, num *int) models.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), models.User{
		ID: uuid.NewString(), Name: name, PasswordHash: "x", Role: role, ClassName: class, StudentNum: num,
	})
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func TestUsers_UniqueNameAndLookup(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	s := db.NewStore(h.DB)

	st := mustCreateUser(t, s, "stu0", models.Student, "1", ptrInt(0))
	mustCreateUser(t, s, "teacher0", models.Teacher, "", nil)

	_, err = s.CreateUser(ctx, models.User{ID: uuid.NewString(), Name: "stu0", PasswordHash: "y", Role: models.Student})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("duplicate name: expected ErrValidation, got %v", err)
	}

	got, err := s.GetUser(ctx, st.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "stu0" || got.Role != models.Student || got.StudentNum == nil || *got.StudentNum != 0 {
		t.Fatalf("unexpected user %#v", got)
	}
	level, err := db.GetUserLevel(ctx, h.DB, st.ID)
	if err != nil || level != models.Student {
		t.Fatalf("level: %v %v", level, err)
	}

	if _, err := s.GetUser(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("missing user: expected ErrNotFound, got %v", err)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 2 || users[0].Name != "stu0" || users[1].Name != "teacher0" {
		t.Fatalf("expected registration order, got %#v", users)
	}
}

func TestQuestions_OrderAndNoReuse(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	s := db.NewStore(h.DB)

	a, err := s.AddQuestion(ctx, "apple", "苹果")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddQuestion(ctx, "apple", "again"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("duplicate word: expected ErrValidation, got %v", err)
	}
	if _, err := s.AddQuestion(ctx, "Apple", "大写"); err != nil {
		t.Fatalf("words are case-sensitive, got %v", err)
	}
	if err := s.DeleteQuestion(ctx, a.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteQuestion(ctx, a.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
	b, err := s.AddQuestion(ctx, "apple", "苹果")
	if err != nil {
		t.Fatal(err)
	}
	if b.ID <= a.ID {
		t.Fatalf("question id reused: %d after %d", b.ID, a.ID)
	}

	qs, err := s.ListQuestions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(qs) != 2 || qs[0].ID >= qs[1].ID {
		t.Fatalf("expected 2 questions ordered by id, got %#v", qs)
	}
}

func TestAnswers_AppendKeepsOrphans(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()
	s := db.NewStore(h.DB)

	st := mustCreateUser(t, s, "stu1", models.Student, "1", ptrInt(1))
	q, err := s.AddQuestion(ctx, "book", "书")
	if err != nil {
		t.Fatal(err)
	}
	for _, ans := range []string{"book", "Book"} {
		if _, err := s.AppendAnswer(ctx, models.AnswerRecord{
			StudentID: st.ID, QuestionID: q.ID, Answer: ans, IsCorrect: ans == "book", Points: 100,
		}); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.DeleteUser(ctx, st.ID); err != nil {
		t.Fatal(err)
	}

	recs, err := s.ListAnswersByStudent(ctx, st.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 || recs[0].Answer != "book" || recs[1].Answer != "Book" {
		t.Fatalf("expected both rows in insertion order after delete, got %#v", recs)
	}
}

func TestSeedStudents_Idempotent(t *testing.T) {
	ctx := context.Background()
	h, err := testdb.Start(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	for i := 0; i < 2; i++ {
		if err := db.SeedStudents(ctx, h.DB, "hash", zap.NewNop()); err != nil {
			t.Fatal(err)
		}
	}
	users, err := db.ListUsers(ctx, h.DB)
	if err != nil {
		t.Fatal(err)
	}
	if len(users) != 10 {
		t.Fatalf("expected 10 seeded students, got %d", len(users))
	}
	if users[7].ClassName != "2" || users[7].Number() != 7 {
		t.Fatalf("unexpected seed row %#v", users[7])
	}
}
