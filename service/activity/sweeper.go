package activity

import (
	"bealive-agent-backend/dao"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const sweepTimeout = 5 * time.Minute

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// SweepResult counts what one sweep changed.
type SweepResult struct {
	Finished  int
	Reindexed int
}

// Sweep finishes activities whose end has passed, removes them from the index and indexes
// open activities that are missing from it.
func (s *Service) Sweep(ctx context.Context, now time.Time) (SweepResult, error) {
	var result SweepResult

	expired, err := dao.FinishExpiredActivities(ctx, now)
	if err != nil {
		return result, fmt.Errorf("failed to finish expired activities: %w", err)
	}
	result.Finished = len(expired)

	ids := make([]int64, 0, len(expired))
	for _, a := range expired {
		if a.VectorID != nil {
			ids = append(ids, a.ActivityID)
		}
	}
	if err := s.indexer.Unindex(ctx, ids...); err != nil {
		return result, fmt.Errorf("failed to unindex finished activities: %w", err)
	}

	missing, err := dao.ListUnindexedActivities(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list unindexed activities: %w", err)
	}
	var errs []error
	for i := range missing {
		if err := s.indexer.Index(ctx, &missing[i]); err != nil {
			errs = append(errs, err)
			continue
		}
		result.Reindexed++
	}
	return result, errors.Join(errs...)
}

// StartSweeper runs Sweep on the cron schedule spec until the returned cron is stopped.
func (s *Service) StartSweeper(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithParser(cronParser))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		result, err := s.Sweep(ctx, s.now())
		if err != nil {
			slog.Error("activity sweep failed", "err", err)
		}
		if result.Finished > 0 || result.Reindexed > 0 {
			slog.Info("activity sweep",
				"finished", result.Finished,
				"reindexed", result.Reindexed,
			)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", spec, err)
	}
	c.Start()
	return c, nil
}
