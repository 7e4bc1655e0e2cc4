// Package console is the interactive menu front end over an io.Reader/io.Writer pair.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/apperr"
	"github.com/Spok95/vocab-scale/internal/auth"
	"github.com/Spok95/vocab-scale/internal/bank"
	"github.com/Spok95/vocab-scale/internal/grades"
	"github.com/Spok95/vocab-scale/internal/metrics"
	"github.com/Spok95/vocab-scale/internal/models"
	"github.com/Spok95/vocab-scale/internal/quiz"
)

type Deps struct {
	Auth      *auth.Service
	Bank      *bank.Service
	Quiz      *quiz.Service
	Grades    *grades.Aggregator
	ExportDir string
	Log       *zap.Logger
}

type App struct {
	Deps
	in  *bufio.Scanner
	out io.Writer
	me  auth.Principal
}

func New(d Deps, in io.Reader, out io.Writer) *App {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.ExportDir == "" {
		d.ExportDir = "."
	}
	return &App{Deps: d, in: bufio.NewScanner(in), out: out}
}

// Principal is the currently logged-in user; zero when logged out.
func (a *App) Principal() auth.Principal { return a.me }

// errEOF ends the main loop when input runs out.
var errEOF = errors.New("input closed")

func (a *App) printf(format string, args ...any) { fmt.Fprintf(a.out, format, args...) }

func (a *App) readLine(prompt string) (string, error) {
	a.printf("%s", prompt)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		return "", errEOF
	}
	return strings.TrimRight(a.in.Text(), "\r\n"), nil
}

// readInt re-asks until it gets a number.
func (a *App) readInt(prompt string) (int, error) {
	for {
		s, err := a.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(s))
		if convErr == nil {
			return n, nil
		}
		a.printf("[error] invalid input\n")
	}
}

// report prints a user-facing message for err and logs what the user should not see.
func (a *App) report(op string, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		a.printf("[error] invalid %s: %s\n", ve.Field, ve.Reason)
	case errors.Is(err, apperr.ErrInvalidCredentials):
		a.printf("[error] login failed\n")
	case errors.Is(err, apperr.ErrNoQuestions):
		a.printf("[error] no questions available\n")
	case errors.Is(err, apperr.ErrNotFound):
		a.printf("[error] not found\n")
	case errors.Is(err, apperr.ErrStorageUnavailable):
		metrics.HandlerErrors.Inc()
		a.log().Error(op, zap.Error(err))
		a.printf("[error] storage unavailable, try again later\n")
	default:
		metrics.HandlerErrors.Inc()
		a.log().Error(op, zap.Error(err))
		a.printf("[error] %s failed\n", op)
	}
}

func (a *App) log() *zap.Logger {
	if a.me.LoggedIn() {
		return a.Log.With(zap.String("user_id", a.me.UserID))
	}
	return a.Log
}

// Run shows the main menu until the user quits or input ends.
func (a *App) Run(ctx context.Context) error {
	a.printf("\n====== Vocabulary Scale ======\n")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		a.mainMenu()
		choice, err := a.readInt("Choice: ")
		if err != nil {
			return a.finish(err)
		}
		quit, err := a.dispatch(ctx, choice)
		if err != nil {
			return a.finish(err)
		}
		if quit {
			a.printf("\nGoodbye!\n")
			return nil
		}
	}
}

func (a *App) finish(err error) error {
	if errors.Is(err, errEOF) {
		a.printf("\nGoodbye!\n")
		return nil
	}
	return err
}

func (a *App) mainMenu() {
	a.printf("\n")
	if !a.me.LoggedIn() {
		a.printf("1. Register\n2. Login\n0. Quit\n")
		return
	}
	a.printf("Welcome, %s (%s)\n", a.me.Name, a.me.Role)
	a.printf("1. Logout\n2. Delete account\n")
	switch {
	case a.me.Role.IsStaff():
		a.printf("3. Question management\n4. Grade queries\n5. Class statistics\n6. Export reports\n")
	case a.me.Role == models.Student:
		a.printf("3. Start quiz\n4. My grades\n")
	}
	a.printf("0. Quit\n")
}

func (a *App) dispatch(ctx context.Context, choice int) (quit bool, err error) {
	if choice == 0 {
		return true, nil
	}
	if !a.me.LoggedIn() {
		switch choice {
		case 1:
			return false, a.register(ctx)
		case 2:
			return false, a.login(ctx)
		}
		a.printf("[error] invalid choice\n")
		return false, nil
	}

	switch {
	case choice == 1:
		a.logout()
	case choice == 2:
		a.deleteAccount(ctx)
	case a.me.Role.IsStaff() && choice == 3:
		return false, a.questionMenu(ctx)
	case a.me.Role.IsStaff() && choice == 4:
		return false, a.gradesMenu(ctx)
	case a.me.Role.IsStaff() && choice == 5:
		return false, a.statistics(ctx)
	case a.me.Role.IsStaff() && choice == 6:
		a.exportReports(ctx)
	case a.me.Role == models.Student && choice == 3:
		a.takeQuiz(ctx)
	case a.me.Role == models.Student && choice == 4:
		a.myGrades(ctx)
	default:
		a.printf("[error] invalid choice\n")
	}
	return false, nil
}

func (a *App) register(ctx context.Context) error {
	a.printf("\n=== Register ===\n")
	name, err := a.readLine("Name: ")
	if err != nil {
		return err
	}
	password, err := a.readLine("Password: ")
	if err != nil {
		return err
	}
	level, err := a.readInt("Level (0=admin, 1=teacher, 2=student): ")
	if err != nil {
		return err
	}
	if _, perr := models.ParseRole(level); perr != nil {
		a.printf("[error] invalid level\n")
		return nil
	}
	class, err := a.readLine("Class: ")
	if err != nil {
		return err
	}
	reg := auth.Registration{Name: name, Password: password, RoleCode: level, ClassName: class}
	if models.Role(level) == models.Student {
		num, err := a.readInt("Student number: ")
		if err != nil {
			return err
		}
		reg.StudentNum = &num
	}
	if _, err := a.Auth.Register(ctx, reg); err != nil {
		a.report("register", err)
		return nil
	}
	a.printf("[ok] user registered\n")
	return nil
}

func (a *App) login(ctx context.Context) error {
	a.printf("\n=== Login ===\n")
	name, err := a.readLine("Name: ")
	if err != nil {
		return err
	}
	password, err := a.readLine("Password: ")
	if err != nil {
		return err
	}
	u, err := a.Auth.Login(ctx, name, password)
	if err != nil {
		a.report("login", err)
		return nil
	}
	a.me = auth.PrincipalOf(u)
	a.printf("[ok] logged in as %s\n", u.Role)
	return nil
}

func (a *App) logout() {
	a.me = auth.Principal{}
	a.printf("[ok] logged out\n")
}

func (a *App) deleteAccount(ctx context.Context) {
	if err := a.Auth.Delete(ctx, a.me.UserID); err != nil {
		a.report("delete account", err)
		return
	}
	a.printf("[ok] account deleted\n")
	a.logout()
}

// openFile is swapped in tests.
var openFile = func(path string) (io.ReadCloser, error) { return os.Open(path) }
