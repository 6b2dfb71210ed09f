package payment

import (
	"context"
	"time"

	"github.com/permadocs/permapay/pkg/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Sweeper expires overdue pending payment requests in the background, so
// that a request abandoned without polling still reaches a terminal state.
type Sweeper struct {
	log      *zap.SugaredLogger
	store    Store
	interval time.Duration
	stop     chan struct{}
	done     chan struct{}
}

func NewSweeper(lc fx.Lifecycle, cfg *config.Config, log *zap.SugaredLogger, store Store) *Sweeper {
	interval := time.Duration(cfg.Crypto.SweepIntervalSecs) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}
	s := &Sweeper{
		log:      log,
		store:    store,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go s.run()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(s.stop)
			select {
			case <-s.done:
			case <-ctx.Done():
			}
			return nil
		},
	})
	return s
}

func (s *Sweeper) run() {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.sweepOnce()
		case <-s.stop:
			return
		}
	}
}

func (s *Sweeper) sweepOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.store.SweepExpired(ctx, time.Now())
	if err != nil {
		s.log.Errorw("expiry sweep failed", "err", err)
		return
	}
	if n > 0 {
		s.log.Infow("expired overdue payment requests", "count", n)
	}
}
