package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/vocab-scale/internal/apperr"
	"github.com/Spok95/vocab-scale/internal/ctxutil"
	"github.com/Spok95/vocab-scale/internal/models"
)

const userColumns = `id, seq, username, password_hash, user_level, class_name, student_num, teacher_id, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, error) {
	var (
		u       models.User
		num     sql.NullInt64
		teacher sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Seq, &u.Name, &u.PasswordHash, &u.Role, &u.ClassName, &num, &teacher, &u.CreatedAt); err != nil {
		return models.User{}, err
	}
	if num.Valid {
		n := int(num.Int64)
		u.StudentNum = &n
	}
	if teacher.Valid && teacher.String != "" {
		t := teacher.String
		u.TeacherID = &t
	}
	return u, nil
}

// CreateUser inserts u (ID and PasswordHash already filled) and returns it with seq/created_at.
func CreateUser(ctx context.Context, database *sql.DB, u models.User) (models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var num sql.NullInt64
	if u.StudentNum != nil {
		num = sql.NullInt64{Int64: int64(*u.StudentNum), Valid: true}
	}
	var teacher sql.NullString
	if u.TeacherID != nil {
		teacher = sql.NullString{String: *u.TeacherID, Valid: true}
	}

	err := database.QueryRowContext(ctx, `
INSERT INTO users (id, username, password_hash, user_level, class_name, student_num, teacher_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING seq, created_at`,
		u.ID, u.Name, u.PasswordHash, int(u.Role), u.ClassName, num, teacher,
	).Scan(&u.Seq, &u.CreatedAt)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user %q: %w", u.Name, classify(err))
	}
	return u, nil
}

func GetUserByID(ctx context.Context, database *sql.DB, id string) (*models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	u, err := scanUser(database.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", id, classify(err))
	}
	return &u, nil
}

func GetUserByName(ctx context.Context, database *sql.DB, name string) (*models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	u, err := scanUser(database.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, name))
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", name, classify(err))
	}
	return &u, nil
}

func GetUserLevel(ctx context.Context, database *sql.DB, id string) (models.Role, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var level int
	if err := database.QueryRowContext(ctx, `SELECT user_level FROM users WHERE id = $1`, id).Scan(&level); err != nil {
		return 0, fmt.Errorf("user level %s: %w", id, classify(err))
	}
	return models.ParseRole(level)
}

// DeleteUser removes only the users row; answer_records keep the orphaned history.
func DeleteUser(ctx context.Context, database *sql.DB, id string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user %s: %w", id, classify(err))
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return fmt.Errorf("delete user %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// ListUsers returns every user in registration order.
func ListUsers(ctx context.Context, database *sql.DB) ([]models.User, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", classify(err))
	}
	defer func() { _ = rows.Close() }()

	var out []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, classify(rows.Err())
}
