// Package services hosts background jobs that run beside the HTTP server.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionCleaner drops sessions that expired at or before now.
type SessionCleaner interface {
	Cleanup(now time.Time) (int, error)
}

// SessionSweeper periodically removes expired sessions from stores that do not
// expire keys on their own. Task data is never touched here.
type SessionSweeper struct {
	store  SessionCleaner
	logger *zap.Logger
	cron   *cron.Cron
	now    func() time.Time
}

func NewSessionSweeper(store SessionCleaner, interval time.Duration, logger *zap.Logger) (*SessionSweeper, error) {
	if interval < time.Second {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &SessionSweeper{
		store:  store,
		logger: logger,
		cron:   cron.New(cron.WithSeconds()),
		now:    time.Now,
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	if _, err := s.cron.AddFunc(schedule, func() { _, _ = s.Sweep() }); err != nil {
		return nil, err
	}
	return s, nil
}

// Start launches the cron scheduler.
func (s *SessionSweeper) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("session sweeper started")
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *SessionSweeper) Stop(ctx context.Context) error {
	if s == nil || s.cron == nil {
		return nil
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
		return ctx.Err()
	}
	s.logger.Info("session sweeper stopped")
	return nil
}

// Sweep runs one cleanup pass synchronously.
func (s *SessionSweeper) Sweep() (int, error) {
	if s == nil || s.store == nil {
		return 0, nil
	}
	removed, err := s.store.Cleanup(s.now())
	if err != nil {
		s.logger.Error("session sweep failed", zap.Error(err))
		return 0, err
	}
	if removed > 0 {
		s.logger.Debug("expired sessions removed", zap.Int("count", removed))
	}
	return removed, nil
}
