// Package bot is the Telegram front end: chat-driven login, quizzes and class reports.
package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/Spok95/vocab-scale/internal/apperr"
	"github.com/Spok95/vocab-scale/internal/auth"
	"github.com/Spok95/vocab-scale/internal/bot/menu"
	"github.com/Spok95/vocab-scale/internal/ctxutil"
	"github.com/Spok95/vocab-scale/internal/export"
	"github.com/Spok95/vocab-scale/internal/grades"
	"github.com/Spok95/vocab-scale/internal/logging"
	"github.com/Spok95/vocab-scale/internal/metrics"
	"github.com/Spok95/vocab-scale/internal/models"
	"github.com/Spok95/vocab-scale/internal/quiz"
	"github.com/Spok95/vocab-scale/internal/tg"
)

type Deps struct {
	Auth   *auth.Service
	Quiz   *quiz.Service
	Grades *grades.Aggregator
	Log    *zap.Logger
}

// chatState is owned by one chat; the dispatcher never runs two updates of a chat at once.
type chatState struct {
	me   auth.Principal
	sess *quiz.Session
}

type Bot struct {
	Deps
	api tg.Sender

	mu    sync.Mutex
	chats map[int64]*chatState
}

func New(api tg.Sender, d Deps) *Bot {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &Bot{Deps: d, api: api, chats: make(map[int64]*chatState)}
}

func (b *Bot) state(chatID int64) *chatState {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.chats[chatID]
	if !ok {
		st = &chatState{}
		b.chats[chatID] = st
	}
	return st
}

// parseCommand splits "/cmd@bot arg1 arg2"; cmd is empty for plain text.
func parseCommand(text string) (cmd string, args []string) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	cmd, _, _ = strings.Cut(fields[0], "@")
	return cmd, fields[1:]
}

// HandleMessage routes one incoming message of chat msg.Chat.ID.
func (b *Bot) HandleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg == nil || msg.Chat == nil {
		return
	}
	chatID := msg.Chat.ID
	st := b.state(chatID)
	ctx = ctxutil.WithChatID(ctx, chatID)
	if st.me.LoggedIn() {
		ctx = ctxutil.WithUserID(ctx, st.me.UserID)
	}

	cmd, args := parseCommand(msg.Text)
	switch cmd {
	case "/start":
		b.start(ctx, chatID, st)
	case "/login":
		b.login(ctx, msg, st, args)
	case menu.BtnLogout:
		b.logout(ctx, chatID, st)
	case menu.BtnQuiz:
		b.beginQuiz(ctx, chatID, st)
	case menu.BtnStop:
		b.stopQuiz(ctx, chatID, st)
	case menu.BtnMyGrades:
		b.myGrades(ctx, chatID, st)
	case menu.BtnStats:
		b.stats(ctx, chatID, st, args)
	case menu.BtnReport:
		b.report(ctx, chatID, st, args)
	case "":
		if st.sess != nil && st.sess.State() == quiz.InProgress {
			b.answer(ctx, chatID, st, msg.Text)
			return
		}
		b.reply(ctx, chatID, "Unknown command. Use /start")
	default:
		b.reply(ctx, chatID, "Unknown command. Use /start")
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	b.send(ctx, tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(ctx context.Context, c tgbotapi.Chattable) {
	if _, err := tg.Send(b.api, c); err != nil {
		metrics.HandlerErrors.Inc()
		logging.With(ctx, b.Log).Warn("telegram send failed", zap.Error(err))
	}
}

// fail tells the user what went wrong without leaking internals.
func (b *Bot) fail(ctx context.Context, chatID int64, op string, err error) {
	var ve *apperr.ValidationError
	switch {
	case errors.As(err, &ve):
		b.reply(ctx, chatID, fmt.Sprintf("Invalid %s: %s", ve.Field, ve.Reason))
	case errors.Is(err, apperr.ErrInvalidCredentials):
		b.reply(ctx, chatID, "Login failed.")
	case errors.Is(err, apperr.ErrNoQuestions):
		b.reply(ctx, chatID, "No questions available yet.")
	case errors.Is(err, apperr.ErrNotFound):
		b.reply(ctx, chatID, "Not found.")
	default:
		metrics.HandlerErrors.Inc()
		logging.With(ctxutil.WithOp(ctx, op), b.Log).Error("bot handler failed", zap.Error(err))
		b.reply(ctx, chatID, "Something went wrong, try again later.")
	}
}

func (b *Bot) start(ctx context.Context, chatID int64, st *chatState) {
	if !st.me.LoggedIn() {
		m := tgbotapi.NewMessage(chatID, "Vocabulary Scale\nLog in with /login <name> <password>")
		m.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
		b.send(ctx, m)
		return
	}
	m := tgbotapi.NewMessage(chatID, fmt.Sprintf("Welcome, %s (%s). Choose an action:", st.me.Name, st.me.Role))
	m.ReplyMarkup = menu.GetRoleMenu(st.me.Role)
	b.send(ctx, m)
}

func (b *Bot) login(ctx context.Context, msg *tgbotapi.Message, st *chatState, args []string) {
	chatID := msg.Chat.ID
	// the password stays in the chat history otherwise
	if _, err := tg.Request(b.api, tgbotapi.NewDeleteMessage(chatID, msg.MessageID)); err != nil {
		logging.With(ctx, b.Log).Debug("delete login message", zap.Error(err))
	}
	if len(args) != 2 {
		b.reply(ctx, chatID, "Usage: /login <name> <password>")
		return
	}
	u, err := b.Auth.Login(ctx, args[0], args[1])
	if err != nil {
		b.fail(ctx, chatID, "bot.login", err)
		return
	}
	b.abort(st)
	st.me = auth.PrincipalOf(u)
	logging.With(ctx, b.Log).Info("chat logged in", zap.String("user_id", u.ID))
	b.start(ctx, chatID, st)
}

func (b *Bot) logout(ctx context.Context, chatID int64, st *chatState) {
	b.abort(st)
	st.me = auth.Principal{}
	m := tgbotapi.NewMessage(chatID, "Logged out.")
	m.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	b.send(ctx, m)
}

func (b *Bot) abort(st *chatState) {
	if st.sess != nil {
		st.sess.Abort()
		st.sess = nil
	}
}

func (b *Bot) requireLogin(ctx context.Context, chatID int64, st *chatState) bool {
	if st.me.LoggedIn() {
		return true
	}
	b.reply(ctx, chatID, "Please /login first.")
	return false
}

func (b *Bot) requireStaff(ctx context.Context, chatID int64, st *chatState) bool {
	if !b.requireLogin(ctx, chatID, st) {
		return false
	}
	if !st.me.Role.IsStaff() {
		b.reply(ctx, chatID, "Only teachers and admins can do that.")
		return false
	}
	return true
}

func (b *Bot) beginQuiz(ctx context.Context, chatID int64, st *chatState) {
	if !b.requireLogin(ctx, chatID, st) {
		return
	}
	if st.sess != nil && st.sess.State() == quiz.InProgress {
		b.reply(ctx, chatID, "A quiz is already running. Answer the puzzle or /stop.")
		return
	}
	sess, err := b.Quiz.Begin(ctx, st.me.UserID)
	if err != nil {
		b.fail(ctx, chatID, "bot.quiz", err)
		return
	}
	st.sess = sess
	b.reply(ctx, chatID, fmt.Sprintf("Quiz started: %d questions, %d points each. Type the full English word.",
		sess.QuestionCount(), sess.PointsPerQuestion()))
	b.prompt(ctx, chatID, sess)
}

func (b *Bot) prompt(ctx context.Context, chatID int64, sess *quiz.Session) {
	p, err := sess.Current()
	if err != nil {
		return
	}
	b.reply(ctx, chatID, fmt.Sprintf("Question %d/%d\nTranslation: %s\nPuzzle: %s", p.Index, p.Total, p.Translation, p.Puzzle))
}

func (b *Bot) answer(ctx context.Context, chatID int64, st *chatState, text string) {
	o, err := st.sess.Submit(ctx, text)
	if errors.Is(err, quiz.ErrNotInProgress) {
		return
	}
	verdict := "WRONG"
	if o.Correct {
		verdict = "CORRECT"
	}
	reply := fmt.Sprintf("%s [%s]", o.Expected, verdict)
	if err != nil {
		reply += "\n(answer could not be saved)"
	}
	b.reply(ctx, chatID, reply)
	if o.Done {
		b.summary(ctx, chatID, st)
		return
	}
	b.prompt(ctx, chatID, st.sess)
}

func (b *Bot) stopQuiz(ctx context.Context, chatID int64, st *chatState) {
	if st.sess == nil || st.sess.State() != quiz.InProgress {
		b.reply(ctx, chatID, "No quiz is running.")
		return
	}
	st.sess.Abort()
	b.summary(ctx, chatID, st)
}

func (b *Bot) summary(ctx context.Context, chatID int64, st *chatState) {
	var sb strings.Builder
	quiz.WriteSummary(&sb, st.me.Name, st.sess.Result())
	st.sess = nil
	b.reply(ctx, chatID, strings.TrimSpace(sb.String()))
}

func (b *Bot) myGrades(ctx context.Context, chatID int64, st *chatState) {
	if !b.requireLogin(ctx, chatID, st) {
		return
	}
	g, err := b.Grades.ForStudent(ctx, st.me.UserID)
	if err != nil {
		b.fail(ctx, chatID, "bot.mygrades", err)
		return
	}
	if g.TotalAttempts == 0 {
		b.reply(ctx, chatID, "No grades yet.")
		return
	}
	b.reply(ctx, chatID, fmt.Sprintf("%s\nScore: %d\nAnswers: %d\nAccuracy: %.1f%%", g.Name, g.TotalScore, g.TotalAttempts, g.Accuracy*100))
}

func (b *Bot) classArg(ctx context.Context, chatID int64, st *chatState, args []string, usage string) (string, bool) {
	if !b.requireStaff(ctx, chatID, st) {
		return "", false
	}
	if len(args) == 0 {
		b.reply(ctx, chatID, usage)
		return "", false
	}
	return strings.Join(args, " "), true
}

func (b *Bot) stats(ctx context.Context, chatID int64, st *chatState, args []string) {
	class, ok := b.classArg(ctx, chatID, st, args, "Usage: /stats <class>")
	if !ok {
		return
	}
	cs, err := b.Grades.StatisticsByClass(ctx, class)
	if err != nil {
		b.fail(ctx, chatID, "bot.stats", err)
		return
	}
	b.reply(ctx, chatID, formatStats(cs))
}

func formatStats(cs models.ClassStatistics) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Class %s: %d students\n", cs.ClassName, cs.Total)
	for i, g := range cs.Students {
		fmt.Fprintf(&sb, "%d. %s (#%d) %d pts, %.1f%%\n", i+1, g.Name, g.StudentNum, g.TotalScore, g.Accuracy*100)
	}
	sb.WriteString("Bands:\n")
	for _, band := range cs.Bands {
		fmt.Fprintf(&sb, "  %s: %d\n", band.Label, band.Count)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) report(ctx context.Context, chatID int64, st *chatState, args []string) {
	class, ok := b.classArg(ctx, chatID, st, args, "Usage: /report <class>")
	if !ok {
		return
	}
	cs, err := b.Grades.StatisticsByClass(ctx, class)
	if err != nil {
		b.fail(ctx, chatID, "bot.report", err)
		return
	}
	wb, err := export.ClassStatisticsWorkbook(cs)
	if err != nil {
		b.fail(ctx, chatID, "bot.report", err)
		return
	}
	defer wb.Close()
	buf, err := wb.WriteToBuffer()
	if err != nil {
		b.fail(ctx, chatID, "bot.report", err)
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  export.BuildClassReportFilename(class, time.Now()),
		Bytes: buf.Bytes(),
	})
	doc.Caption = fmt.Sprintf("Class %s statistics", class)
	b.send(ctx, doc)
}
