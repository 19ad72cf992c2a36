package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/synkcrm/sessiond/internal/directory/store"
)

// HousekeepingService periodically clears expired session rows.
type HousekeepingService struct {
	store    store.Store
	logger   *slog.Logger
	interval time.Duration

	stop chan struct{}
	done chan struct{}
}

func NewHousekeepingService(st store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{
		store:    st,
		logger:   logger,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the background loop. Call Stop to terminate it.
func (s *HousekeepingService) Start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runOnce()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop terminates the loop and waits for it to exit.
func (s *HousekeepingService) Stop() {
	close(s.stop)
	<-s.done
}

func (s *HousekeepingService) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.store.Sessions().DeleteExpiredSessions(ctx); err != nil {
		s.logger.Error("housekeeping: delete expired sessions failed", "err", err)
		return
	}
	s.logger.Debug("housekeeping: expired sessions cleared")
}
