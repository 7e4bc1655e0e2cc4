package console

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/export"
	"github.com/Spok95/vocab-scale/internal/models"
	"github.com/Spok95/vocab-scale/internal/quiz"
)

func (a *App) questionMenu(ctx context.Context) error {
	for {
		a.printf("\n=== Question management ===\n")
		a.printf("1. Add question\n2. Import from file\n3. Delete question\n4. List questions\n5. Export question file\n0. Back\n")
		choice, err := a.readInt("Choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case 0:
			return nil
		case 1:
			word, err := a.readLine("English word: ")
			if err != nil {
				return err
			}
			trans, err := a.readLine("Translation: ")
			if err != nil {
				return err
			}
			if _, err := a.Bank.Add(ctx, word, trans); err != nil {
				a.report("add question", err)
				continue
			}
			a.printf("[ok] question added\n")
		case 2:
			path, err := a.readLine("File (word<TAB>translation per line): ")
			if err != nil {
				return err
			}
			a.importFile(ctx, strings.TrimSpace(path))
		case 3:
			id, err := a.readInt("Question id: ")
			if err != nil {
				return err
			}
			if err := a.Bank.Delete(ctx, int64(id)); err != nil {
				a.report("delete question", err)
				continue
			}
			a.printf("[ok] question deleted\n")
		case 4:
			a.listQuestions(ctx)
		case 5:
			qs, err := a.Bank.List(ctx)
			if err != nil {
				a.report("export questions", err)
				continue
			}
			path, err := export.WriteFile(a.ExportDir, export.QuestionsFile, func(w io.Writer) error {
				return export.WriteQuestions(w, qs)
			})
			if err != nil {
				a.report("export questions", err)
				continue
			}
			a.printf("[ok] %d questions written to %s\n", len(qs), path)
		default:
			a.printf("[error] invalid choice\n")
		}
	}
}

func (a *App) importFile(ctx context.Context, path string) {
	f, err := openFile(path)
	if err != nil {
		a.printf("[error] cannot open %s\n", path)
		return
	}
	defer f.Close()
	res, err := a.Bank.Import(ctx, f)
	if err != nil {
		a.report("import questions", err)
		return
	}
	a.printf("[ok] imported %d, skipped %d\n", res.Added, res.Skipped)
}

func (a *App) listQuestions(ctx context.Context) {
	qs, err := a.Bank.List(ctx)
	if err != nil {
		a.report("list questions", err)
		return
	}
	if len(qs) == 0 {
		a.printf("[info] no questions\n")
		return
	}
	a.printf("\n=== All questions (%d) ===\n", len(qs))
	a.printf("%-5s %-25s %-50s\n", "ID", "Word", "Translation")
	for _, q := range qs {
		a.printf("%-5d %-25s %-50s\n", q.ID, q.Word, q.Translation)
	}
}

func (a *App) gradesMenu(ctx context.Context) error {
	for {
		a.printf("\n=== Grade queries ===\n")
		a.printf("1. By name\n2. By class\n3. By student number range\n0. Back\n")
		choice, err := a.readInt("Choice: ")
		if err != nil {
			return err
		}
		var rows []models.GradeSummary
		switch choice {
		case 0:
			return nil
		case 1:
			name, err := a.readLine("Name contains: ")
			if err != nil {
				return err
			}
			rows, err = a.Grades.ByNameSubstring(ctx, name)
			if err != nil {
				a.report("grades by name", err)
				continue
			}
		case 2:
			class, err := a.readLine("Class: ")
			if err != nil {
				return err
			}
			rows, err = a.Grades.ByClass(ctx, class)
			if err != nil {
				a.report("grades by class", err)
				continue
			}
		case 3:
			lo, err := a.readInt("Min number: ")
			if err != nil {
				return err
			}
			hi, err := a.readInt("Max number: ")
			if err != nil {
				return err
			}
			rows, err = a.Grades.ByStudentNumberRange(ctx, lo, hi)
			if err != nil {
				a.report("grades by number", err)
				continue
			}
		default:
			a.printf("[error] invalid choice\n")
			continue
		}
		a.printGrades(rows)
	}
}

func (a *App) printGrades(rows []models.GradeSummary) {
	if len(rows) == 0 {
		a.printf("[info] no results\n")
		return
	}
	a.printf("\n=== Results ===\n")
	a.printf("%-20s %-15s %-10s %-10s %-10s\n", "Name", "Class", "Number", "Score", "Accuracy")
	for _, g := range rows {
		a.printf("%-20s %-15s %-10d %-10d %-9.1f%%\n", g.Name, g.ClassName, g.StudentNum, g.TotalScore, g.Accuracy*100)
	}
}

func (a *App) statistics(ctx context.Context) error {
	class, err := a.readLine("Class: ")
	if err != nil {
		return err
	}
	st, err := a.Grades.StatisticsByClass(ctx, class)
	if err != nil {
		a.report("class statistics", err)
		return nil
	}
	a.printf("\n=== Class %s statistics ===\n", class)
	if st.Total == 0 {
		a.printf("[info] no students in class\n")
		return nil
	}
	a.printGrades(st.Students)
	a.printf("\nScore bands:\n")
	for _, b := range st.Bands {
		a.printf("  %-8s %d\n", b.Label, b.Count)
	}
	a.printf("Total: %d students\n", st.Total)

	wb, err := export.ClassStatisticsWorkbook(st)
	if err != nil {
		a.report("class workbook", err)
		return nil
	}
	defer wb.Close()
	path, err := wb.Save(a.ExportDir, class, time.Now())
	if err != nil {
		a.report("class workbook", err)
		return nil
	}
	a.printf("[ok] workbook saved to %s\n", path)
	return nil
}

// exportReports rewrites sort1.txt and sort2.txt.
func (a *App) exportReports(ctx context.Context) {
	byScore, err := a.Grades.AllByScore(ctx)
	if err != nil {
		a.report("export", err)
		return
	}
	byClass, err := a.Grades.AllByClass(ctx)
	if err != nil {
		a.report("export", err)
		return
	}
	for _, f := range []struct {
		name string
		fn   func(io.Writer) error
	}{
		{export.ByScoreFile, func(w io.Writer) error { return export.WriteByScore(w, byScore) }},
		{export.ByClassFile, func(w io.Writer) error { return export.WriteByClass(w, byClass) }},
	} {
		path, err := export.WriteFile(a.ExportDir, f.name, f.fn)
		if err != nil {
			a.report("export", err)
			return
		}
		a.printf("[ok] %s written (%d students)\n", path, len(byScore))
	}
}

func (a *App) takeQuiz(ctx context.Context) {
	sess, err := a.Quiz.Begin(ctx, a.me.UserID)
	if err != nil {
		a.report("start quiz", err)
		return
	}
	res, err := quiz.Run(ctx, sess, a.in, a.out)
	if err != nil {
		a.report("quiz", err)
	}
	if res.Answered == 0 {
		return
	}
	st := sess.Student()
	if _, err := export.AppendFile(a.ExportDir, export.StudentsFile, func(w io.Writer) error {
		if err := export.AppendGradeLine(w, st, res); err != nil {
			return err
		}
		return export.AppendAnswerSheet(w, st, sess.Sheet())
	}); err != nil {
		a.log().Warn("stu.txt not updated", zap.Error(err))
	}
}

func (a *App) myGrades(ctx context.Context) {
	g, err := a.Grades.ForStudent(ctx, a.me.UserID)
	if err != nil {
		a.report("my grades", err)
		return
	}
	if g.TotalAttempts == 0 {
		a.printf("[info] no grades yet\n")
		return
	}
	a.printf("\n=== My grades ===\n")
	a.printf("%-20s %-10s %-10s %-10s\n", "Name", "Score", "Answers", "Accuracy")
	a.printf("%-20s %-10d %-10d %-9.1f%%\n", g.Name, g.TotalScore, g.TotalAttempts, g.Accuracy*100)
}
