package monitor

import (
	"context"
	"sync"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Pinger is any dependency that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type sizer interface {
	Size() (int, error)
}

// Monitor periodically pings the relational store, the optional Redis client
// and the session store, and caches the result for /health.
type Monitor struct {
	db       Pinger
	redis    *redislib.Client
	sessions Pinger

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

// New builds a monitor. A nil sessions pinger means sessions live in Redis.
func New(db Pinger, redis *redislib.Client, sessions Pinger, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		db:       db,
		redis:    redis,
		sessions: sessions,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	m.refresh()
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) IsOnline() bool {
	return m.GetStatus().Healthy()
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	status := Status{
		Database:     m.ping("database", m.db, 3*time.Second),
		RedisEnabled: m.redis != nil,
		Redis:        m.checkRedis(),
		LastCheck:    time.Now(),
	}
	if m.sessions == nil {
		status.Sessions = status.Redis
	} else {
		status.Sessions, status.SessionCount = m.checkSessions()
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) ping(name string, p Pinger, timeout time.Duration) bool {
	if p == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		m.logger.Warn("health check failed", zap.String("dependency", name), zap.Error(err))
		return false
	}
	return true
}

func (m *Monitor) checkRedis() bool {
	if m.redis == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return m.redis.Ping(ctx).Err() == nil
}

func (m *Monitor) checkSessions() (bool, int) {
	if !m.ping("sessions", m.sessions, time.Second) {
		return false, 0
	}
	s, ok := m.sessions.(sizer)
	if !ok {
		return true, 0
	}
	size, err := s.Size()
	if err != nil {
		m.logger.Warn("session size check failed", zap.Error(err))
		return false, 0
	}
	return true, size
}
