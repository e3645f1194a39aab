package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/roby45alfa/OfficinaOnline/internal/domain"
	"github.com/roby45alfa/OfficinaOnline/internal/session"
	"github.com/roby45alfa/OfficinaOnline/internal/store"
)

// ErrInvalidTime is returned when a fire time is outside 00:00–23:59.
var ErrInvalidTime = errors.New("invalid notification time")

// Sender delivers one digest message to a chat.
type Sender interface {
	SendText(chatID int64, text string) error
}

// Scheduler owns the single daily digest loop. Enable, Disable and SetTime
// guarantee that at most one loop is ever live: a reschedule cancels the
// running loop and waits for it to exit before starting the replacement.
type Scheduler struct {
	repo     store.Repo
	sessions *session.Store
	sender   Sender
	log      *zap.Logger
	now      func() time.Time

	mu      sync.Mutex
	enabled bool
	hour    int
	minute  int
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a disabled scheduler with the given daily fire time (UTC).
func New(repo store.Repo, sessions *session.Store, sender Sender, log *zap.Logger, hour, minute int) *Scheduler {
	return &Scheduler{
		repo:     repo,
		sessions: sessions,
		sender:   sender,
		log:      log,
		now:      time.Now,
		hour:     hour,
		minute:   minute,
	}
}

// Enabled reports whether the loop is running.
func (s *Scheduler) Enabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.enabled
}

// Time returns the configured daily fire time (UTC).
func (s *Scheduler) Time() (hour, minute int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hour, s.minute
}

// Enable starts the loop and reports false when it was already running.
func (s *Scheduler) Enable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.enabled {
		return false
	}
	s.startLocked()
	return true
}

// Disable signals the loop to stop and reports false when it was not running.
func (s *Scheduler) Disable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.enabled {
		return false
	}
	s.stopLocked()
	return true
}

// SetTime changes the daily fire time. When the scheduler is enabled the
// running loop is stopped and exactly one replacement is started.
func (s *Scheduler) SetTime(hour, minute int) error {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return ErrInvalidTime
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hour, s.minute = hour, minute
	if s.enabled {
		s.stopLocked()
		s.startLocked()
	}
	return nil
}

func (s *Scheduler) startLocked() {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	s.cancel, s.done, s.enabled = cancel, done, true
	go s.run(ctx, done, s.hour, s.minute)
}

// stopLocked cancels the loop and waits for it to exit, so callers observe
// cancel+restart as atomic.
func (s *Scheduler) stopLocked() {
	s.cancel()
	<-s.done
	s.cancel, s.done, s.enabled = nil, nil, false
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}, hour, minute int) {
	defer close(done)
	for {
		next := nextRun(s.now(), hour, minute)
		s.log.Info("next digest scheduled",
			zap.Time("at", next),
			zap.String("clock", domain.FormatClock(hour, minute)),
		)
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			s.log.Info("notification loop stopping")
			return
		case <-timer.C:
		}
		s.deliver(ctx)
	}
}

// nextRun returns the next instant at hour:minute UTC strictly after now.
func nextRun(now time.Time, hour, minute int) time.Time {
	now = now.UTC()
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.UTC)
	if !target.After(now) {
		target = target.AddDate(0, 0, 1)
	}
	return target
}

// deliver builds a digest per user and sends it to every logged-in chat of
// that user. Failures are per-recipient: one bad send never aborts the rest.
func (s *Scheduler) deliver(ctx context.Context) {
	today := domain.Today(s.now())

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		s.log.Error("list users failed", zap.Error(err))
		return
	}

	for _, u := range users {
		vehicles, err := s.repo.ListVehicles(ctx, u.ID, u.IsAdmin)
		if err != nil {
			s.log.Error("list vehicles failed", zap.Int64("userID", u.ID), zap.Error(err))
			continue
		}

		var scope []domain.VehicleDeadlines
		for _, v := range vehicles {
			ds, err := s.repo.ListDeadlines(ctx, v.ID)
			if err != nil {
				s.log.Error("list deadlines failed", zap.Int64("vehicleID", v.ID), zap.Error(err))
				continue
			}
			scope = append(scope, domain.VehicleDeadlines{Vehicle: v, Deadlines: ds})
		}

		digest, ok := domain.BuildDigest(u, scope, today)
		if !ok {
			continue
		}
		for _, chatID := range s.sessions.ChatsFor(u.Username) {
			if err := s.sender.SendText(chatID, digest); err != nil {
				s.log.Warn("digest delivery failed",
					zap.Int64("chatID", chatID),
					zap.String("user", u.Username),
					zap.Error(err),
				)
			}
		}
	}
}
