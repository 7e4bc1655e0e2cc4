package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/vocab-scale/internal/ctxutil"
	"github.com/Spok95/vocab-scale/internal/models"
)

// AppendAnswer is the only write path of the ledger; rows are never updated or deleted.
func AppendAnswer(ctx context.Context, database *sql.DB, rec models.AnswerRecord) (models.AnswerRecord, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	err := database.QueryRowContext(ctx, `
INSERT INTO answer_records (student_id, qid, user_answer, is_correct, score)
VALUES ($1, $2, $3, $4, $5)
RETURNING aid, created_at`,
		rec.StudentID, rec.QuestionID, rec.Answer, rec.IsCorrect, rec.Points,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return models.AnswerRecord{}, fmt.Errorf("insert answer record (student %s, question %d): %w", rec.StudentID, rec.QuestionID, classify(err))
	}
	return rec, nil
}

const answerColumns = `aid, student_id, qid, user_answer, is_correct, score, created_at`

// ListAnswers replays the whole ledger in insertion order.
func ListAnswers(ctx context.Context, database *sql.DB) ([]models.AnswerRecord, error) {
	return queryAnswers(ctx, database, `SELECT `+answerColumns+` FROM answer_records ORDER BY aid`)
}

func ListAnswersByStudent(ctx context.Context, database *sql.DB, studentID string) ([]models.AnswerRecord, error) {
	return queryAnswers(ctx, database, `SELECT `+answerColumns+` FROM answer_records WHERE student_id = $1 ORDER BY aid`, studentID)
}

func queryAnswers(ctx context.Context, database *sql.DB, q string, args ...any) ([]models.AnswerRecord, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list answer records: %w", classify(err))
	}
	defer func() { _ = rows.Close() }()

	var out []models.AnswerRecord
	for rows.Next() {
		var r models.AnswerRecord
		if err := rows.Scan(&r.ID, &r.StudentID, &r.QuestionID, &r.Answer, &r.IsCorrect, &r.Points, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan answer record: %w", err)
		}
		out = append(out, r)
	}
	return out, classify(rows.Err())
}
