// Package grades folds the answer ledger into per-student summaries and class histograms.
// Nothing here is stored; every query replays the ledger.
package grades

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/apperr"
	"github.com/Spok95/vocab-scale/internal/metrics"
	"github.com/Spok95/vocab-scale/internal/models"
)

// Reader returns full snapshots: users in registration order, answers in insertion order.
type Reader interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	ListAnswers(ctx context.Context) ([]models.AnswerRecord, error)
}

type Aggregator struct {
	r   Reader
	log *zap.Logger
}

func NewAggregator(r Reader, log *zap.Logger) *Aggregator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Aggregator{r: r, log: log}
}

type tally struct {
	score    int
	attempts int
	correct  int
}

// summarize joins one user with the tally of their ledger rows.
func summarize(u models.User, t tally) models.GradeSummary {
	g := models.GradeSummary{
		StudentID:     u.ID,
		Name:          u.Name,
		ClassName:     u.ClassName,
		StudentNum:    u.Number(),
		TotalScore:    t.score,
		TotalAttempts: t.attempts,
	}
	if t.attempts > 0 {
		g.Accuracy = float64(t.correct) / float64(t.attempts)
	}
	return g
}

// Summaries returns one summary per user that keep accepts, in registration order.
// Ledger rows of deleted users have nobody to join with and drop out here.
func Summaries(users []models.User, answers []models.AnswerRecord, keep func(models.User) bool) []models.GradeSummary {
	tallies := make(map[string]tally, len(users))
	for _, a := range answers {
		t := tallies[a.StudentID]
		t.score += a.Points
		t.attempts++
		if a.IsCorrect {
			t.correct++
		}
		tallies[a.StudentID] = t
	}
	out := make([]models.GradeSummary, 0, len(users))
	for _, u := range users {
		if keep != nil && !keep(u) {
			continue
		}
		out = append(out, summarize(u, tallies[u.ID]))
	}
	return out
}

func (a *Aggregator) query(ctx context.Context, name string, keep func(models.User) bool) ([]models.GradeSummary, error) {
	metrics.GradeQueries.WithLabelValues(name).Inc()
	users, err := a.r.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: list users: %w", name, err)
	}
	answers, err := a.r.ListAnswers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: list answers: %w", name, err)
	}
	out := Summaries(users, answers, keep)
	a.log.Debug("grades query", zap.String("query", name), zap.Int("rows", len(out)), zap.Int("answers", len(answers)))
	return out, nil
}

func isStudent(u models.User) bool { return u.Role == models.Student }

// ByNameSubstring matches display names case-insensitively across all roles.
// Users without attempts are included with zero totals.
func (a *Aggregator) ByNameSubstring(ctx context.Context, pattern string) ([]models.GradeSummary, error) {
	p := strings.ToLower(pattern)
	return a.query(ctx, "by_name", func(u models.User) bool {
		return strings.Contains(strings.ToLower(u.Name), p)
	})
}

// ByClass lists the students of class, best total first; ties keep registration order.
func (a *Aggregator) ByClass(ctx context.Context, class string) ([]models.GradeSummary, error) {
	out, err := a.query(ctx, "by_class", func(u models.User) bool {
		return isStudent(u) && u.ClassName == class
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TotalScore > out[j].TotalScore })
	return out, nil
}

// ByStudentNumberRange lists students with lo <= number <= hi, ascending by number.
func (a *Aggregator) ByStudentNumberRange(ctx context.Context, lo, hi int) ([]models.GradeSummary, error) {
	if lo > hi {
		return nil, apperr.Invalid("student_number_range", fmt.Sprintf("min %d is greater than max %d", lo, hi))
	}
	out, err := a.query(ctx, "by_number_range", func(u models.User) bool {
		if !isStudent(u) || u.StudentNum == nil {
			return false
		}
		n := *u.StudentNum
		return n >= lo && n <= hi
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StudentNum < out[j].StudentNum })
	return out, nil
}

// StatisticsByClass is ByClass plus the score-band histogram of its rows.
func (a *Aggregator) StatisticsByClass(ctx context.Context, class string) (models.ClassStatistics, error) {
	rows, err := a.ByClass(ctx, class)
	if err != nil {
		return models.ClassStatistics{}, err
	}
	return models.ClassStatistics{
		ClassName: class,
		Students:  rows,
		Bands:     Histogram(rows),
		Total:     len(rows),
	}, nil
}

// AllByScore lists every student, best total first, then by student number.
func (a *Aggregator) AllByScore(ctx context.Context) ([]models.GradeSummary, error) {
	out, err := a.query(ctx, "all_by_score", isStudent)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalScore != out[j].TotalScore {
			return out[i].TotalScore > out[j].TotalScore
		}
		return out[i].StudentNum < out[j].StudentNum
	})
	return out, nil
}

// AllByClass lists every student grouped by class name, best total first inside a class.
func (a *Aggregator) AllByClass(ctx context.Context) ([]models.GradeSummary, error) {
	out, err := a.query(ctx, "all_by_class", isStudent)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ClassName != out[j].ClassName {
			return out[i].ClassName < out[j].ClassName
		}
		return out[i].TotalScore > out[j].TotalScore
	})
	return out, nil
}

// ForStudent returns the summary of a single user; ErrNotFound when the id is unknown.
func (a *Aggregator) ForStudent(ctx context.Context, id string) (models.GradeSummary, error) {
	out, err := a.query(ctx, "for_student", func(u models.User) bool { return u.ID == id })
	if err != nil {
		return models.GradeSummary{}, err
	}
	if len(out) == 0 {
		return models.GradeSummary{}, fmt.Errorf("grades for %s: %w", id, apperr.ErrNotFound)
	}
	return out[0], nil
}
