package quiz

import (
	"bufio"
	"context"
	"fmt"
	"io"
)

// Run drives sess from line-oriented input until it completes or input ends.
// End of input aborts the attempt and the partial result is returned.
// Ledger failures are reported to out and counted in Result.WriteFailures.
func Run(ctx context.Context, sess *Session, in *bufio.Scanner, out io.Writer) (Result, error) {
	st := sess.Student()
	fmt.Fprintln(out, "\n====== Quiz: English Vocabulary ======")
	fmt.Fprintf(out, "Student: %s (class: %s, number: %d)\n", st.Name, st.ClassName, st.Number())
	fmt.Fprintf(out, "Questions: %d, points each: %d\n", sess.QuestionCount(), sess.PointsPerQuestion())
	fmt.Fprintln(out, "Type the full English word.")
	fmt.Fprintln(out, "======================================")

	for sess.State() == InProgress {
		p, err := sess.Current()
		if err != nil {
			return sess.Result(), err
		}
		fmt.Fprintf(out, "\n[Question %d/%d]\n", p.Index, p.Total)
		fmt.Fprintf(out, "Translation: %s\n", p.Translation)
		fmt.Fprintf(out, "Puzzle: %s\n", p.Puzzle)
		fmt.Fprint(out, "Answer: ")

		if !in.Scan() {
			sess.Abort()
			fmt.Fprintln(out, "\n[info] input ended, quiz stopped")
			break
		}
		o, werr := sess.Submit(ctx, in.Text())
		verdict := "WRONG"
		if o.Correct {
			verdict = "CORRECT"
		}
		fmt.Fprintf(out, ">> %s [%s]\n", o.Expected, verdict)
		if werr != nil {
			fmt.Fprintln(out, "[warn] answer could not be saved")
		}
	}

	r := sess.Result()
	WriteSummary(out, st.Name, r)
	if err := in.Err(); err != nil {
		return r, fmt.Errorf("read answers: %w", err)
	}
	return r, nil
}

func WriteSummary(out io.Writer, name string, r Result) {
	fmt.Fprintln(out, "\n====== Result ======")
	fmt.Fprintf(out, "Student: %s\n", name)
	if !r.Completed {
		fmt.Fprintf(out, "Answered: %d / %d (incomplete)\n", r.Answered, r.QuestionCount)
	}
	fmt.Fprintf(out, "Correct: %d / %d\n", r.CorrectCount, r.QuestionCount)
	fmt.Fprintf(out, "Score: %d / %d\n", r.TotalScore, MaxScore)
	fmt.Fprintf(out, "Accuracy: %.2f%%\n", r.Accuracy()*100)
	fmt.Fprintln(out, "====================")
}
