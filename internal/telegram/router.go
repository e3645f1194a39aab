package telegram

import (
	"context"
	"strconv"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/roby45alfa/OfficinaOnline/internal/scheduler"
	"github.com/roby45alfa/OfficinaOnline/internal/session"
	"github.com/roby45alfa/OfficinaOnline/internal/store"
)

// api is the slice of the Bot API the router needs. *tgbotapi.BotAPI
// satisfies it; tests substitute a fake.
type api interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Router wires Telegram updates to handlers and holds the per-chat bot
// state: sessions live in the session store, pending forms in the forms map.
type Router struct {
	bot      api
	log      *zap.Logger
	repo     store.Repo
	sessions *session.Store
	sched    *scheduler.Scheduler

	mu    sync.Mutex
	forms map[int64]*pendingForm
}

// NewRouter creates a router over the given collaborators.
func NewRouter(bot api, log *zap.Logger, repo store.Repo, sessions *session.Store, sched *scheduler.Scheduler) *Router {
	return &Router{
		bot:      bot,
		log:      log,
		repo:     repo,
		sessions: sessions,
		sched:    sched,
		forms:    make(map[int64]*pendingForm),
	}
}

// HandleUpdate routes a single update. A panicking handler is contained
// here so one chat's failure cannot take down the dispatch loop.
func (r *Router) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if p := recover(); p != nil {
			r.log.Error("handler panic", zap.Any("panic", p))
		}
	}()

	switch {
	case upd.Message != nil:
		r.handleMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		r.handleCallback(ctx, upd.CallbackQuery)
	}
}

func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/start"):
		r.handleStart(chatID)
	case strings.HasPrefix(text, "/help"):
		r.sendText(chatID, helpText)
	case strings.HasPrefix(text, "/login"):
		r.handleLogin(ctx, chatID, text)
	case strings.HasPrefix(text, "/logout"):
		r.handleLogout(chatID)
	case strings.HasPrefix(text, "/attiva_notifiche"):
		r.handleNotifyOn(chatID)
	case strings.HasPrefix(text, "/disattiva_notifiche"):
		r.handleNotifyOff(chatID)
	case strings.HasPrefix(text, "/imposta_notifiche"):
		r.handleNotifyAt(chatID, text)
	case strings.HasPrefix(text, "/"):
		r.sendText(chatID, unknownText)
	default:
		r.handleText(ctx, chatID, text)
	}
}

// handleText applies the dispatch precedence for free text: a pending form
// field consumes it first, then menu labels, then the unknown fallback.
func (r *Router) handleText(ctx context.Context, chatID int64, text string) {
	if r.consumeFieldInput(chatID, text) {
		return
	}
	switch text {
	case menuVehicles:
		r.handleVehicles(ctx, chatID)
	case menuMaintenances:
		r.askVehicle(ctx, chatID, "MANU")
	case menuDeadlines:
		r.askVehicle(ctx, chatID, "SCAD")
	case menuLogout:
		r.handleLogout(chatID)
	default:
		r.sendText(chatID, unknownText)
	}
}

func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	r.answerCallback(cb.ID)

	tag, rest, _ := strings.Cut(cb.Data, ";")
	switch tag {
	case "MANU":
		if vid, ok := parseID(rest); ok {
			r.showMaintenances(ctx, chatID, vid)
		}
	case "SCAD":
		if vid, ok := parseID(rest); ok {
			r.showDeadlines(ctx, chatID, vid)
		}
	case "FILTER_SCAD":
		r.handleFilter(ctx, chatID, cb.Message.MessageID, rest)
	case "START_ADD_MANU":
		if vid, ok := parseID(rest); ok {
			r.startForm(ctx, chatID, vid)
		}
	case "ADD_MANU_FIELD":
		r.askFormField(chatID, rest)
	case "SAVE_MANU":
		r.saveForm(ctx, chatID)
	case "MENU":
		// Back to the menu keeps an in-progress form; only starting a new
		// one or saving discards it.
		r.stopAwaiting(chatID)
		r.handleStart(chatID)
	default:
		r.log.Debug("unknown callback", zap.String("data", cb.Data))
	}
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}

// --- outbound helpers ---

func (r *Router) sendText(chatID int64, text string) {
	if _, err := r.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.log.Warn("send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func (r *Router) sendWithKeyboard(chatID int64, text string, kb any) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = kb
	if _, err := r.bot.Send(msg); err != nil {
		r.log.Warn("send failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func (r *Router) editMessage(chatID int64, messageID int, text string, kb tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, text, kb)
	if _, err := r.bot.Send(edit); err != nil {
		r.log.Warn("edit failed", zap.Int64("chatID", chatID), zap.Error(err))
	}
}

func (r *Router) answerCallback(id string) {
	if _, err := r.bot.Request(tgbotapi.NewCallback(id, "")); err != nil {
		r.log.Warn("answer callback failed", zap.Error(err))
	}
}
