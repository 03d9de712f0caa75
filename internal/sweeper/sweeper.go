package sweeper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/MikeSquared-Agency/Oshichecker/internal/hermes"
	"github.com/MikeSquared-Agency/Oshichecker/internal/metrics"
)

// Expirer deletes snapshots last written before a cutoff.
type Expirer interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Sweeper periodically removes sessions idle for longer than the TTL.
type Sweeper struct {
	store    Expirer
	hermes   hermes.Client
	ttl      time.Duration
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New builds a sweeper. h may be nil.
func New(s Expirer, h hermes.Client, ttl, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		store:    s,
		hermes:   h,
		ttl:      ttl,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the sweep loop. It is a no-op when ttl or interval is zero.
func (s *Sweeper) Start(ctx context.Context) {
	if s.ttl <= 0 || s.interval <= 0 {
		s.logger.Info("session sweeper disabled")
		return
	}
	s.wg.Add(1)
	go s.loop(ctx)
}

func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

func (s *Sweeper) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = s.Sweep(ctx)
		}
	}
}

// Sweep deletes every session idle for longer than the TTL and returns how
// many were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	now := s.now().UTC()
	before := now.Add(-s.ttl)
	n, err := s.store.DeleteExpired(ctx, before)
	if err != nil {
		metrics.SnapshotErrors.WithLabelValues("sweep").Inc()
		s.logger.Error("failed to sweep expired sessions", "error", err)
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}

	metrics.SessionsSwept.Add(float64(n))
	s.logger.Info("swept expired sessions", "deleted", n, "before", before)
	if s.hermes != nil {
		if err := s.hermes.Publish(ctx, hermes.SessionsSweptEvent{
			Deleted:   n,
			Before:    before,
			Timestamp: now,
		}); err != nil {
			s.logger.Warn("failed to publish sweep event", "error", err)
		}
	}
	return n, nil
}
