// Package quiz runs single-pass vocabulary quizzes and writes every graded answer to the ledger.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/apperr"
	"github.com/Spok95/vocab-scale/internal/ctxutil"
	"github.com/Spok95/vocab-scale/internal/logging"
	"github.com/Spok95/vocab-scale/internal/metrics"
	"github.com/Spok95/vocab-scale/internal/models"
	"github.com/Spok95/vocab-scale/internal/observability"
	"github.com/Spok95/vocab-scale/internal/puzzle"
)

// MaxScore is split evenly across the questions of one attempt.
const MaxScore = 100

var ErrNotInProgress = errors.New("quiz is not in progress")

type State int

const (
	NotStarted State = iota
	InProgress
	Completed
	Aborted
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case InProgress:
		return "in_progress"
	case Completed:
		return "completed"
	case Aborted:
		return "aborted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Ledger is the append-only answer store.
type Ledger interface {
	AppendAnswer(ctx context.Context, rec models.AnswerRecord) (models.AnswerRecord, error)
}

// PointsPerQuestion drops the remainder: three questions give 33 each.
func PointsPerQuestion(n int) int {
	if n <= 0 {
		return 0
	}
	return MaxScore / n
}

type Prompt struct {
	Index       int // 1-based
	Total       int
	Puzzle      string
	Translation string
}

type Outcome struct {
	Correct  bool
	Points   int
	Expected string
	// Done is set by the answer that finished the quiz.
	Done bool
}

type Result struct {
	TotalScore        int
	CorrectCount      int
	QuestionCount     int
	Answered          int
	Completed         bool
	PointsPerQuestion int
	WriteFailures     int
}

// Accuracy is correct answers over all questions of the attempt.
func (r Result) Accuracy() float64 {
	if r.QuestionCount == 0 {
		return 0
	}
	return float64(r.CorrectCount) / float64(r.QuestionCount)
}

// SheetEntry is one answered question as written to the student's answer sheet.
type SheetEntry struct {
	Question models.Question
	Puzzle   string
	Answer   string
	Correct  bool
}

// Session is one attempt by one student. It is not safe for concurrent use.
type Session struct {
	ledger Ledger
	log    *zap.Logger
	rng    puzzle.Source

	state     State
	student   models.User
	questions []models.Question
	puzzles   []string
	idx       int
	ppq       int
	score     int
	correct   int
	failures  int
	sheet     []SheetEntry
}

// NewSession builds an idle session; a nil rng uses the masker's default source.
func NewSession(ledger Ledger, log *zap.Logger, rng puzzle.Source) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{ledger: ledger, log: log, rng: rng}
}

// Start snapshots questions for this attempt and masks each word once.
func (s *Session) Start(student models.User, questions []models.Question) error {
	if s.state != NotStarted {
		return fmt.Errorf("start: session already %s", s.state)
	}
	if len(questions) == 0 {
		return apperr.ErrNoQuestions
	}
	s.student = student
	s.questions = append([]models.Question(nil), questions...)
	s.puzzles = make([]string, len(s.questions))
	for i, q := range s.questions {
		s.puzzles[i] = puzzle.Mask(q.Word, s.rng)
	}
	s.ppq = PointsPerQuestion(len(s.questions))
	s.state = InProgress
	return nil
}

func (s *Session) State() State { return s.state }
func (s *Session) Student() models.User { return s.student }
func (s *Session) Sheet() []SheetEntry { return append([]SheetEntry(nil), s.sheet...) }
func (s *Session) QuestionCount() int { return len(s.questions) }
func (s *Session) PointsPerQuestion() int { return s.ppq }

// Current returns the question awaiting an answer.
func (s *Session) Current() (Prompt, error) {
	if s.state != InProgress {
		return Prompt{}, ErrNotInProgress
	}
	q := s.questions[s.idx]
	return Prompt{Index: s.idx + 1, Total: len(s.questions), Puzzle: s.puzzles[s.idx], Translation: q.Translation}, nil
}

// Submit grades text against the current word and appends exactly one ledger row.
// The session advances even when the write fails; that error is returned wrapped
// alongside a valid Outcome.
func (s *Session) Submit(ctx context.Context, text string) (Outcome, error) {
	if s.state != InProgress {
		return Outcome{}, ErrNotInProgress
	}
	answer := strings.TrimRight(text, "\r\n")
	q := s.questions[s.idx]
	correct := answer == q.Word
	points := 0
	if correct {
		points = s.ppq
		s.correct++
	}
	s.score += points
	s.sheet = append(s.sheet, SheetEntry{Question: q, Puzzle: s.puzzles[s.idx], Answer: answer, Correct: correct})
	metrics.ObserveAnswer(correct)

	_, werr := s.ledger.AppendAnswer(ctx, models.AnswerRecord{
		StudentID:  s.student.ID,
		QuestionID: q.ID,
		Answer:     answer,
		IsCorrect:  correct,
		Points:     points,
	})
	if werr != nil {
		s.failures++
		metrics.LedgerWriteErrors.Inc()
		ctx = ctxutil.WithOp(ctxutil.WithUserID(ctx, s.student.ID), "quiz.submit")
		logging.With(ctx, s.log).Error("answer record not saved",
			zap.Int64("qid", q.ID), zap.Int("index", s.idx+1), zap.Error(werr))
		observability.CaptureErrCtx(ctx, werr)
		werr = fmt.Errorf("save answer for question %d: %w", q.ID, werr)
	}

	s.idx++
	out := Outcome{Correct: correct, Points: points, Expected: q.Word}
	if s.idx == len(s.questions) {
		s.state = Completed
		out.Done = true
		metrics.Quizzes.WithLabelValues("completed").Inc()
		s.log.Info("quiz completed", zap.String("student_id", s.student.ID),
			zap.Int("score", s.score), zap.Int("correct", s.correct), zap.Int("questions", len(s.questions)))
	}
	return out, werr
}

// Abort ends an attempt whose input ran out. Written records stay.
func (s *Session) Abort() {
	if s.state != InProgress {
		return
	}
	s.state = Aborted
	metrics.Quizzes.WithLabelValues("aborted").Inc()
	s.log.Info("quiz aborted", zap.String("student_id", s.student.ID),
		zap.Int("answered", s.idx), zap.Int("questions", len(s.questions)))
}

func (s *Session) Result() Result {
	return Result{
		TotalScore:        s.score,
		CorrectCount:      s.correct,
		QuestionCount:     len(s.questions),
		Answered:          s.idx,
		Completed:         s.state == Completed,
		PointsPerQuestion: s.ppq,
		WriteFailures:     s.failures,
	}
}
