package rules

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/merchkit/pricing-api/internal/obs"
)

// TaskRuleSync identifies the periodic rule snapshot task.
const TaskRuleSync = "rules:sync"

// NewSyncTask builds the asynq task that triggers a rule snapshot.
func NewSyncTask() *asynq.Task {
	return asynq.NewTask(TaskRuleSync, nil)
}

// Syncer snapshots active rules from the store into the Redis cache and the
// serialized config blob consumed by the checkout platform sync.
type Syncer struct {
	Store  Store
	Cache  *Cache
	Logger *zerolog.Logger
}

// HandleSync implements the asynq handler for TaskRuleSync.
func (s Syncer) HandleSync(ctx context.Context, _ *asynq.Task) error {
	if s.Store == nil || s.Cache == nil {
		return errors.New("rule syncer not configured")
	}
	active, err := s.Store.ActiveRules(ctx)
	if err != nil {
		s.observe("error")
		return err
	}
	blob, err := EncodeConfig(active)
	if err != nil {
		s.observe("error")
		return err
	}
	if err := s.Cache.SetRules(ctx, active); err != nil {
		s.observe("error")
		return err
	}
	if err := s.Cache.SetConfigBlob(ctx, blob); err != nil {
		s.observe("error")
		return err
	}
	if s.Logger != nil {
		s.Logger.Info().Int("rules", len(active)).Int("blob_bytes", len(blob)).Msg("rule snapshot synced")
	}
	s.observe("ok")
	return nil
}

func (s Syncer) observe(result string) {
	if obs.RuleSyncTotal != nil {
		obs.RuleSyncTotal.WithLabelValues(result).Inc()
	}
}
