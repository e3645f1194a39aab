package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/roby45alfa/OfficinaOnline/internal/domain"
)

// Main menu labels. These are the reply-keyboard button texts, so they are
// also what arrives as free text when a user taps them.
const (
	menuVehicles     = "🚗 Vehicles"
	menuMaintenances = "🔧 Maintenances"
	menuDeadlines    = "⏰ Deadlines"
	menuLogout       = "❌ Logout"
)

const (
	welcomeText = "Welcome! Pick an option:"
	helpText    = "Available commands:\n" +
		"/login <username> <password>\n" +
		"/logout\n" +
		"Or use the menu buttons.\n"
	loginPromptText    = "Please /login first."
	wrongCredsText     = "Wrong credentials."
	loginUsageText     = "Usage: /login <username> <password>"
	notLoggedText      = "You were not logged in."
	accessDeniedText   = "Access denied."
	adminOnlyText      = "Admins only."
	unknownText        = "Unrecognized command. Try /help"
	noVehiclesText     = "No vehicles."
	noMaintenanceText  = "No maintenance records."
	noDeadlinesText    = "No deadlines."
	noFilterHitsText   = "No deadlines for this filter."
	savedText          = "✅ Maintenance saved!"
	saveIncompleteText = "Set at least type and date before saving."
	noFormText         = "Nothing being added right now."
	badDateText        = "Wrong format, try YYYY-MM-DD:"
	notifyUsageText    = "Usage: /imposta_notifiche <HH:MM> (UTC)"
	notifyBadTimeText  = "Wrong format, e.g. 07:30"
	notifyOnText       = "Notifications enabled."
	notifyAlreadyOn    = "Notifications already active."
	notifyOffText      = "Notifications disabled."
	notifyAlreadyOff   = "Notifications already disabled."
)

// mainMenuKeyboard is the persistent reply keyboard shown after /start.
func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuVehicles),
			tgbotapi.NewKeyboardButton(menuMaintenances),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuDeadlines),
			tgbotapi.NewKeyboardButton(menuLogout),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

// vehicleSelectKeyboard lists vehicles one per row; tag is the callback
// prefix ("MANU" or "SCAD").
func vehicleSelectKeyboard(vehicles []domain.Vehicle, tag string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(vehicles))
	for _, v := range vehicles {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%s %s", v.Brand, v.Plate),
				fmt.Sprintf("%s;%d", tag, v.ID),
			),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// maintenanceKeyboard offers adding a record or going back to the menu.
func maintenanceKeyboard(vehicleID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add", fmt.Sprintf("START_ADD_MANU;%d", vehicleID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Menu", "MENU"),
		),
	)
}

// deadlineKeyboard offers the three filters and the way back to the menu.
func deadlineKeyboard(vehicleID int64) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⏳ Next 7 days", fmt.Sprintf("FILTER_SCAD;UPCOMING;%d", vehicleID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Expired", fmt.Sprintf("FILTER_SCAD;EXPIRED;%d", vehicleID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 All", fmt.Sprintf("FILTER_SCAD;ALL;%d", vehicleID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Menu", "MENU"),
		),
	)
}

// formKeyboard edits one field, saves, or cancels back to the menu.
func formKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Type", "ADD_MANU_FIELD;TYPE"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📅 Date", "ADD_MANU_FIELD;DATE"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📝 Note", "ADD_MANU_FIELD;NOTE"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Save", "SAVE_MANU"),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔙 Cancel", "MENU"),
		),
	)
}
