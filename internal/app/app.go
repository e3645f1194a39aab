package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/roby45alfa/OfficinaOnline/internal/config"
	"github.com/roby45alfa/OfficinaOnline/internal/domain"
	"github.com/roby45alfa/OfficinaOnline/internal/scheduler"
	"github.com/roby45alfa/OfficinaOnline/internal/session"
	"github.com/roby45alfa/OfficinaOnline/internal/store"
	"github.com/roby45alfa/OfficinaOnline/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server
	repo    store.Repo
	sched   *scheduler.Scheduler
	router  *telegram.Router
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	// Outbound calls (including digest delivery) share this timeout.
	bot.Client = &http.Client{Timeout: 30 * time.Second}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting officina-bot",
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("db", a.cfg.DBPath),
	)

	repo, err := store.OpenSQLite(ctx, a.cfg.DBPath)
	if err != nil {
		a.log.Error("open sqlite failed", zap.Error(err))
		return err
	}
	a.repo = repo
	a.log.Info("sqlite ready")

	sessions := session.NewStore()
	a.sched = scheduler.New(repo, sessions, telegram.NewSender(a.bot), a.log, a.cfg.NotifyHour, a.cfg.NotifyMinute)
	a.router = telegram.NewRouter(a.bot, a.log, repo, sessions, a.sched)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	if a.cfg.NotifyOnStart {
		a.sched.Enable()
		a.log.Info("daily notifications scheduled",
			zap.String("clock", domain.FormatClock(a.cfg.NotifyHour, a.cfg.NotifyMinute)),
		)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()
			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}

			a.sched.Disable()
			if a.repo != nil {
				_ = a.repo.Close()
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
