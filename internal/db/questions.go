package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Spok95/vocab-scale/internal/apperr"
	"github.com/Spok95/vocab-scale/internal/ctxutil"
	"github.com/Spok95/vocab-scale/internal/models"
)

func AddQuestion(ctx context.Context, database *sql.DB, word, translation string) (models.Question, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	q := models.Question{Word: word, Translation: translation}
	err := database.QueryRowContext(ctx,
		`INSERT INTO questions (word, translation) VALUES ($1, $2) RETURNING qid, difficulty`,
		word, translation,
	).Scan(&q.ID, &q.Difficulty)
	if err != nil {
		return models.Question{}, fmt.Errorf("insert question %q: %w", word, classify(err))
	}
	return q, nil
}

func DeleteQuestion(ctx context.Context, database *sql.DB, id int64) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	res, err := database.ExecContext(ctx, `DELETE FROM questions WHERE qid = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question %d: %w", id, classify(err))
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return fmt.Errorf("delete question %d: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// ListQuestions returns the bank ordered by qid.
func ListQuestions(ctx context.Context, database *sql.DB) ([]models.Question, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	rows, err := database.QueryContext(ctx, `SELECT qid, word, translation, difficulty FROM questions ORDER BY qid`)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", classify(err))
	}
	defer func() { _ = rows.Close() }()

	var out []models.Question
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.Word, &q.Translation, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, q)
	}
	return out, classify(rows.Err())
}
