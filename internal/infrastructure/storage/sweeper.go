package storage

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// imageLister reports every image reference currently stored in the database.
type imageLister interface {
	ListImageURLs(ctx context.Context) ([]string, error)
}

// Sweeper periodically removes upload-directory files no event references
// anymore. Orphans appear when the process dies between writing an asset and
// committing the row that references it.
type Sweeper struct {
	store    *LocalStore
	events   imageLister
	interval time.Duration
	log      zerolog.Logger
}

func NewSweeper(store *LocalStore, events imageLister, interval time.Duration, log zerolog.Logger) *Sweeper {
	return &Sweeper{store: store, events: events, interval: interval, log: log}
}

// Start launches the sweep loop. It runs once immediately, then on every
// tick, and stops when ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		s.sweep(ctx)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

func (s *Sweeper) sweep(ctx context.Context) {
	refs, err := s.events.ListImageURLs(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("image sweep: listing referenced images failed")
		return
	}

	removed, err := s.store.Sweep(refs)
	if err != nil {
		s.log.Warn().Err(err).Msg("image sweep failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int("removed", removed).Msg("image sweep removed orphaned assets")
	}
}
