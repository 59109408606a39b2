package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Pinger is satisfied by *pgxpool.Pool and the sqlite adapter.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor periodically pings the database and caches the outcome so health
// probes never block on storage.
type Monitor struct {
	db     Pinger
	driver string

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

func New(db Pinger, driver string, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval < time.Second {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		db:       db,
		driver:   driver,
		interval: interval,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger,
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	if _, err := m.cron.AddFunc(schedule, m.Refresh); err != nil {
		logger.Error("invalid health check schedule", zap.String("schedule", schedule), zap.Error(err))
	}
	return m
}

// Start performs an immediate check and then schedules periodic ones.
func (m *Monitor) Start() {
	m.Refresh()
	m.cron.Start()
}

// Stop halts the scheduler and waits for a running check to finish or ctx to end.
func (m *Monitor) Stop(ctx context.Context) {
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Refresh pings the database once and records the result.
func (m *Monitor) Refresh() {
	online := m.checkDatabase()

	m.mu.Lock()
	wasOnline := m.status.Database
	m.status = Status{
		Database:  online,
		Driver:    m.driver,
		LastCheck: time.Now(),
	}
	m.mu.Unlock()

	if wasOnline != online {
		m.logger.Info("database availability changed",
			zap.String("driver", m.driver),
			zap.Bool("online", online))
	}
}

func (m *Monitor) checkDatabase() bool {
	if m.db == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := m.db.Ping(ctx); err != nil {
		m.logger.Warn("database ping failed", zap.String("driver", m.driver), zap.Error(err))
		return false
	}
	return true
}
