// Package cleanup provides data retention and cleanup services.
package cleanup

import (
	"context"
	"log/slog"
	"time"

	"github.com/bvquist1400/mission-control/pkg/config"
	"github.com/bvquist1400/mission-control/pkg/store"
)

// Service periodically enforces retention policies:
//   - Prunes LLM usage events older than LLMUsageEventRetention
//   - Prunes calendar snapshots older than CalendarSnapshotRetention
//
// The narrative cache is pruned opportunistically on every narrative
// request instead (§4.G) and needs no background sweep here. All
// operations are idempotent and safe to run from a single process.
type Service struct {
	db     *store.Store
	config *config.RetentionConfig

	cancel context.CancelFunc
	done   chan struct{}
}

// NewService creates a new cleanup service.
func NewService(db *store.Store, cfg *config.RetentionConfig) *Service {
	return &Service{db: db, config: cfg}
}

// Start launches the background cleanup loop.
func (s *Service) Start(ctx context.Context) {
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go s.run(ctx)

	slog.Info("Cleanup service started",
		"llm_usage_event_retention", s.config.LLMUsageEventRetention,
		"calendar_snapshot_retention", s.config.CalendarSnapshotRetention,
		"interval", s.config.LLMPrunePeriod)
}

// Stop signals the cleanup loop to exit and waits for it to finish.
func (s *Service) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	slog.Info("Cleanup service stopped")
}

func (s *Service) run(ctx context.Context) {
	defer close(s.done)

	s.runAll(ctx)

	ticker := time.NewTicker(s.config.LLMPrunePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runAll(ctx)
		}
	}
}

func (s *Service) runAll(ctx context.Context) {
	s.pruneLLMUsageEvents(ctx)
	s.pruneCalendarSnapshots(ctx)
}

func (s *Service) pruneLLMUsageEvents(_ context.Context) {
	cutoff := time.Now().UTC().Add(-s.config.LLMUsageEventRetention)
	count, err := s.db.PruneLLMUsageEvents(context.Background(), cutoff)
	if err != nil {
		slog.Error("Retention: LLM usage event prune failed", "error", err)
		return
	}
	if count > 0 {
		slog.Info("Retention: pruned LLM usage events", "count", count)
	}
}

func (s *Service) pruneCalendarSnapshots(_ context.Context) {
	cutoff := time.Now().UTC().Add(-s.config.CalendarSnapshotRetention)
	count, err := s.db.PruneCalendarSnapshots(context.Background(), cutoff)
	if err != nil {
		slog.Error("Retention: calendar snapshot prune failed", "error", err)
		return
	}
	if count > 0 {
		slog.Info("Retention: pruned calendar snapshots", "count", count)
	}
}
