package models

import "time"

type Question struct {
	ID          int64  `db:"qid"`
	Word        string `db:"word"`
	Translation string `db:"translation"`
	Difficulty  int    `db:"difficulty"`
}

// AnswerRecord is one ledger row: a single graded answer of a single attempt.
type AnswerRecord struct {
	ID         int64     `db:"aid"`
	StudentID  string    `db:"student_id"`
	QuestionID int64     `db:"qid"`
	Answer     string    `db:"user_answer"`
	IsCorrect  bool      `db:"is_correct"`
	Points     int       `db:"score"`
	CreatedAt  time.Time `db:"created_at"`
}
