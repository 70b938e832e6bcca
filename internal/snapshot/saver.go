package snapshot

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Interval is the period between automatic snapshot saves. The first save
// runs one full interval after start.
const Interval = 30 * time.Second

// Saver runs periodic snapshot saves in the background.
type Saver struct {
	engine   *Engine
	logger   *slog.Logger
	interval time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSaver creates a Saver over the given engine.
func NewSaver(engine *Engine, logger *slog.Logger) *Saver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Saver{
		engine:   engine,
		logger:   logger,
		interval: Interval,
	}
}

// WithInterval sets the save interval. Intended for tests.
func (s *Saver) WithInterval(d time.Duration) *Saver {
	s.interval = d
	return s
}

// Start begins the periodic save loop in a goroutine. Stop it with Stop.
func (s *Saver) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()

	s.logger.Info("snapshot saver started", "interval", s.interval)
}

// Stop shuts the saver down and waits for an in-flight save to finish.
func (s *Saver) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	s.wg.Wait()
	s.logger.Info("snapshot saver stopped")
}

func (s *Saver) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.engine.Save(); err != nil {
				s.logger.Error("periodic snapshot save failed", "error", err)
			}
		}
	}
}
