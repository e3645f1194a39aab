package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/roby45alfa/OfficinaOnline/internal/domain"
	"github.com/roby45alfa/OfficinaOnline/internal/scheduler"
	"github.com/roby45alfa/OfficinaOnline/internal/session"
	"github.com/roby45alfa/OfficinaOnline/internal/store"
)

// requireSession looks up the chat's session and prompts for /login when
// there is none.
func (r *Router) requireSession(chatID int64) (session.Session, bool) {
	sess, ok := r.sessions.Get(chatID)
	if !ok {
		r.sendText(chatID, loginPromptText)
	}
	return sess, ok
}

// requireAdmin is requireSession plus the administrator check.
func (r *Router) requireAdmin(chatID int64) (session.Session, bool) {
	sess, ok := r.requireSession(chatID)
	if !ok {
		return sess, false
	}
	if !sess.IsAdmin {
		r.sendText(chatID, adminOnlyText)
		return sess, false
	}
	return sess, true
}

// canAccessVehicle reports whether the session may act on the vehicle:
// admins always, everyone else only on vehicles they own.
func (r *Router) canAccessVehicle(ctx context.Context, sess session.Session, vehicleID int64) bool {
	if sess.IsAdmin {
		return true
	}
	vehicles, err := r.repo.ListVehicles(ctx, sess.UserID, false)
	if err != nil {
		r.log.Error("list vehicles failed", zap.Int64("userID", sess.UserID), zap.Error(err))
		return false
	}
	for _, v := range vehicles {
		if v.ID == vehicleID {
			return true
		}
	}
	return false
}

// --- base commands ---

func (r *Router) handleStart(chatID int64) {
	r.sendWithKeyboard(chatID, welcomeText, mainMenuKeyboard())
}

func (r *Router) handleLogin(ctx context.Context, chatID int64, text string) {
	args := strings.Fields(text)
	if len(args) != 3 {
		r.sendText(chatID, loginUsageText)
		return
	}
	username, password := args[1], args[2]

	user, err := r.repo.Authenticate(ctx, username, password)
	if errors.Is(err, store.ErrWrongCredentials) {
		r.sendText(chatID, wrongCredsText)
		return
	}
	if err != nil {
		r.log.Error("authenticate failed", zap.String("username", username), zap.Error(err))
		r.sendText(chatID, "Login error. Please try again later.")
		return
	}

	r.sessions.Put(chatID, session.Session{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
	r.sendText(chatID, "Logged in as "+user.Username+".")
	r.handleStart(chatID)
}

func (r *Router) handleLogout(chatID int64) {
	if !r.sessions.Delete(chatID) {
		r.sendText(chatID, notLoggedText)
		return
	}
	msg := tgbotapi.NewMessage(chatID, "Logged out.")
	msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

// --- listings ---

func (r *Router) handleVehicles(ctx context.Context, chatID int64) {
	sess, ok := r.requireSession(chatID)
	if !ok {
		return
	}
	vehicles, err := r.repo.ListVehicles(ctx, sess.UserID, sess.IsAdmin)
	if err != nil {
		r.log.Error("list vehicles failed", zap.Error(err))
		r.sendText(chatID, "Error reading vehicles.")
		return
	}
	if len(vehicles) == 0 {
		r.sendText(chatID, noVehiclesText)
		return
	}
	lines := make([]string, 0, len(vehicles))
	for _, v := range vehicles {
		lines = append(lines, fmt.Sprintf("ID:%d %s %s", v.ID, v.Brand, v.Plate))
	}
	r.sendText(chatID, strings.Join(lines, "\n"))
}

// askVehicle shows the inline vehicle picker; tag selects what the tap
// opens ("MANU" or "SCAD").
func (r *Router) askVehicle(ctx context.Context, chatID int64, tag string) {
	sess, ok := r.requireSession(chatID)
	if !ok {
		return
	}
	vehicles, err := r.repo.ListVehicles(ctx, sess.UserID, sess.IsAdmin)
	if err != nil {
		r.log.Error("list vehicles failed", zap.Error(err))
		r.sendText(chatID, "Error reading vehicles.")
		return
	}
	if len(vehicles) == 0 {
		r.sendText(chatID, noVehiclesText)
		return
	}
	r.sendWithKeyboard(chatID, "Select a vehicle:", vehicleSelectKeyboard(vehicles, tag))
}

func (r *Router) showMaintenances(ctx context.Context, chatID, vehicleID int64) {
	sess, ok := r.requireSession(chatID)
	if !ok {
		return
	}
	if !r.canAccessVehicle(ctx, sess, vehicleID) {
		r.sendText(chatID, accessDeniedText)
		return
	}
	records, err := r.repo.ListMaintenances(ctx, vehicleID)
	if err != nil {
		r.log.Error("list maintenances failed", zap.Int64("vehicleID", vehicleID), zap.Error(err))
		r.sendText(chatID, "Error reading maintenance records.")
		return
	}
	if len(records) == 0 {
		r.sendWithKeyboard(chatID, noMaintenanceText, maintenanceKeyboard(vehicleID))
		return
	}
	lines := make([]string, 0, len(records))
	for _, m := range records {
		line := fmt.Sprintf("ID:%d %s on %s", m.ID, m.Type, m.Date)
		if m.Note != "" {
			line += " – " + m.Note
		}
		lines = append(lines, line)
	}
	r.sendWithKeyboard(chatID, strings.Join(lines, "\n"), maintenanceKeyboard(vehicleID))
}

func (r *Router) showDeadlines(ctx context.Context, chatID, vehicleID int64) {
	sess, ok := r.requireSession(chatID)
	if !ok {
		return
	}
	if !r.canAccessVehicle(ctx, sess, vehicleID) {
		r.sendText(chatID, accessDeniedText)
		return
	}
	deadlines, err := r.repo.ListDeadlines(ctx, vehicleID)
	if err != nil {
		r.log.Error("list deadlines failed", zap.Int64("vehicleID", vehicleID), zap.Error(err))
		r.sendText(chatID, "Error reading deadlines.")
		return
	}
	if len(deadlines) == 0 {
		r.sendText(chatID, noDeadlinesText)
		return
	}
	r.sendWithKeyboard(chatID, deadlineLines(deadlines), deadlineKeyboard(vehicleID))
}

// handleFilter re-renders a deadline listing in place with the chosen
// filter applied. rest is "<MODE>;<vehicleID>".
func (r *Router) handleFilter(ctx context.Context, chatID int64, messageID int, rest string) {
	sess, ok := r.requireSession(chatID)
	if !ok {
		return
	}
	modeStr, vidStr, found := strings.Cut(rest, ";")
	if !found {
		return
	}
	vehicleID, ok2 := parseID(vidStr)
	if !ok2 {
		return
	}
	mode, err := domain.ParseFilterMode(modeStr)
	if err != nil {
		r.log.Debug("bad filter mode", zap.String("mode", modeStr))
		return
	}
	if !r.canAccessVehicle(ctx, sess, vehicleID) {
		r.sendText(chatID, accessDeniedText)
		return
	}

	deadlines, err := r.repo.ListDeadlines(ctx, vehicleID)
	if err != nil {
		r.log.Error("list deadlines failed", zap.Int64("vehicleID", vehicleID), zap.Error(err))
		r.sendText(chatID, "Error reading deadlines.")
		return
	}
	filtered := domain.FilterDeadlines(deadlines, mode, domain.Today(timeNow()))

	text := noFilterHitsText
	if len(filtered) > 0 {
		text = deadlineLines(filtered)
	}
	r.editMessage(chatID, messageID, text, deadlineKeyboard(vehicleID))
}

func deadlineLines(deadlines []domain.Deadline) string {
	lines := make([]string, 0, len(deadlines))
	for _, d := range deadlines {
		lines = append(lines, fmt.Sprintf("ID:%d %s on %s", d.ID, d.Type, d.Date))
	}
	return strings.Join(lines, "\n")
}

// --- notification commands (admin) ---

func (r *Router) handleNotifyOn(chatID int64) {
	if _, ok := r.requireAdmin(chatID); !ok {
		return
	}
	if r.sched.Enable() {
		r.sendText(chatID, notifyOnText)
	} else {
		r.sendText(chatID, notifyAlreadyOn)
	}
}

func (r *Router) handleNotifyOff(chatID int64) {
	if _, ok := r.requireAdmin(chatID); !ok {
		return
	}
	if r.sched.Disable() {
		r.sendText(chatID, notifyOffText)
	} else {
		r.sendText(chatID, notifyAlreadyOff)
	}
}

func (r *Router) handleNotifyAt(chatID int64, text string) {
	if _, ok := r.requireAdmin(chatID); !ok {
		return
	}
	args := strings.Fields(text)
	if len(args) != 2 {
		r.sendText(chatID, notifyUsageText)
		return
	}
	hour, minute, err := domain.ParseClock(args[1])
	if err != nil {
		r.sendText(chatID, notifyBadTimeText)
		return
	}
	if err := r.sched.SetTime(hour, minute); err != nil {
		if errors.Is(err, scheduler.ErrInvalidTime) {
			r.sendText(chatID, notifyBadTimeText)
			return
		}
		r.log.Error("set notification time failed", zap.Error(err))
		r.sendText(chatID, "Could not update the notification time.")
		return
	}
	r.sendText(chatID, "Daily notifications set to "+domain.FormatClock(hour, minute)+" UTC.")
}
