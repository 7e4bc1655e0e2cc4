package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Spok95/vocab-scale/internal/models"
	"github.com/Spok95/vocab-scale/internal/quiz"
)

// File names of the flat exports inside EXPORT_DIR.
const (
	QuestionsFile = "timu.txt"
	StudentsFile  = "stu.txt"
	ByScoreFile   = "sort1.txt"
	ByClassFile   = "sort2.txt"
)

// WriteQuestions writes the word list students see: no translations.
func WriteQuestions(w io.Writer, qs []models.Question) error {
	ew := &errWriter{w: w}
	if len(qs) == 0 {
		ew.printf("no questions\n")
		return ew.err
	}
	ew.printf("# TIMU (number. English word)\n")
	ew.printf("# questions: %d\n", len(qs))
	ew.printf("# points each: %.2f\n\n", 100.0/float64(len(qs)))
	for i, q := range qs {
		ew.printf("%d. %s\n", i+1, q.Word)
	}
	return ew.err
}

// AppendGradeLine writes "number, name, class, score, percent%" for one attempt.
func AppendGradeLine(w io.Writer, st models.User, r quiz.Result) error {
	ew := &errWriter{w: w}
	ew.printf("%d, %s, %s, %d, %d%%\n", st.Number(), st.Name, st.ClassName, r.TotalScore, r.TotalScore)
	return ew.err
}

func AppendAnswerSheet(w io.Writer, st models.User, sheet []quiz.SheetEntry) error {
	ew := &errWriter{w: w}
	class := st.ClassName
	if class == "" {
		class = "N/A"
	}
	ew.printf("\n--- answers: %s (number: %d, class: %s) ---\n", st.Name, st.Number(), class)
	for i, e := range sheet {
		ew.printf("Q%d. %s (%s)\n", i+1, e.Puzzle, e.Question.Translation)
		ew.printf("  student answer: %s\n", e.Answer)
		ew.printf("  correct answer: %s\n\n", e.Question.Word)
	}
	return ew.err
}

func tableHeader(ew *errWriter, title, order string) {
	ew.printf("========== Student grades (%s) ==========\n", title)
	ew.printf("Order: %s\n", order)
	ew.printf("%-20s %-15s %-10s %-10s %-10s\n", "Name", "Class", "Number", "Score", "Accuracy")
	ew.printf("%-20s %-15s %-10s %-10s %-10s\n",
		"--------------------", "---------------", "----------", "----------", "----------")
}

func tableRow(ew *errWriter, g models.GradeSummary) {
	ew.printf("%-20s %-15s %-10d %-10d %-9.1f%%\n", g.Name, classLabel(g.ClassName), g.StudentNum, g.TotalScore, g.Accuracy*100)
}

func classLabel(c string) string {
	if c == "" {
		return "N/A"
	}
	return c
}

// WriteByScore renders rows already ordered by the aggregator (sort1.txt).
func WriteByScore(w io.Writer, rows []models.GradeSummary) error {
	ew := &errWriter{w: w}
	tableHeader(ew, "by score", "score desc")
	for _, g := range rows {
		tableRow(ew, g)
	}
	ew.printf("\nTotal: %d students\n", len(rows))
	return ew.err
}

// WriteByClass renders rows grouped by class with a header line per class (sort2.txt).
func WriteByClass(w io.Writer, rows []models.GradeSummary) error {
	ew := &errWriter{w: w}
	tableHeader(ew, "by class", "class asc, score desc")
	current := ""
	for i, g := range rows {
		label := classLabel(g.ClassName)
		if i == 0 || label != current {
			if i > 0 {
				ew.printf("\n")
			}
			ew.printf("--- class: %s ---\n", label)
			current = label
		}
		tableRow(ew, g)
	}
	ew.printf("\nTotal: %d students\n", len(rows))
	return ew.err
}

// WriteFile replaces dir/name with what render produces.
func WriteFile(dir, name string, render func(io.Writer) error) (string, error) {
	return writeWith(dir, name, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, render)
}

// AppendFile appends to dir/name, creating it when missing.
func AppendFile(dir, name string, render func(io.Writer) error) (string, error) {
	return writeWith(dir, name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, render)
}

func writeWith(dir, name string, flag int, render func(io.Writer) error) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export dir: %w", err)
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// errWriter keeps the first write error so formatters can print unconditionally.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
