package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/ctxutil"
)

// test teachers referenced by the seeded students
const (
	seedTeacherClass1 = "50615c09-71e9-4bc7-875b-62718ec0873d"
	seedTeacherClass2 = "238d3617-beea-46df-b2b6-b1f9d213f4d4"
)

// SeedStudents inserts stu0..stu9: stu0-4 in class "1", stu5-9 in class "2", number = index.
// Existing names are left untouched.
func SeedStudents(ctx context.Context, database *sql.DB, passwordHash string, log *zap.Logger) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed students: %w", classify(err))
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for i := 0; i < 10; i++ {
		className, teacher := "1", seedTeacherClass1
		if i >= 5 {
			className, teacher = "2", seedTeacherClass2
		}
		name := fmt.Sprintf("stu%d", i)
		res, err := tx.ExecContext(ctx, `
INSERT INTO users (id, username, password_hash, user_level, class_name, student_num, teacher_id)
VALUES ($1, $2, $3, 2, $4, $5, $6)
ON CONFLICT (username) DO NOTHING`,
			uuid.NewString(), name, passwordHash, className, i, teacher)
		if err != nil {
			return fmt.Errorf("seed %s: %w", name, classify(err))
		}
		if aff, _ := res.RowsAffected(); aff > 0 {
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed students commit: %w", classify(err))
	}
	if log != nil {
		log.Info("test students seeded", zap.Int("inserted", inserted))
	}
	return nil
}

var seedWords = [][2]string{
	{"apple", "苹果"},
	{"book", "书"},
	{"water", "水"},
	{"school", "学校"},
	{"teacher", "老师"},
}

// SeedQuestions fills an empty bank with a few starter words.
func SeedQuestions(ctx context.Context, database *sql.DB) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var count int
	if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count); err != nil {
		return fmt.Errorf("count questions: %w", classify(err))
	}
	if count > 0 {
		return nil
	}
	for _, w := range seedWords {
		if _, err := database.ExecContext(ctx,
			`INSERT INTO questions (word, translation) VALUES ($1, $2) ON CONFLICT (word) DO NOTHING`,
			w[0], w[1]); err != nil {
			return fmt.Errorf("seed question %q: %w", w[0], classify(err))
		}
	}
	return nil
}
