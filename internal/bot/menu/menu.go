package menu

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/vocab-scale/internal/models"
)

// Button texts double as commands.
const (
	BtnQuiz     = "/quiz"
	BtnMyGrades = "/mygrades"
	BtnStop     = "/stop"
	BtnStats    = "/stats"
	BtnReport   = "/report"
	BtnLogout   = "/logout"
)

// GetRoleMenu returns the reply keyboard for role.
func GetRoleMenu(role models.Role) tgbotapi.ReplyKeyboardMarkup {
	switch role {
	case models.Student:
		return studentMenu()
	case models.Teacher, models.Admin:
		return staffMenu()
	default:
		return tgbotapi.NewReplyKeyboard()
	}
}

func studentMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnQuiz),
			tgbotapi.NewKeyboardButton(BtnMyGrades),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnStop),
			tgbotapi.NewKeyboardButton(BtnLogout),
		),
	)
}

func staffMenu() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnStats),
			tgbotapi.NewKeyboardButton(BtnReport),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(BtnLogout),
		),
	)
}
