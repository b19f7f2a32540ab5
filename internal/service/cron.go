package service

import (
	"context"
	"fmt"
	"time"

	"github.com/naphat-v/visawatch/internal/domain"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// CronTrigger fires the daily scheduled sweep. It registers one recurring
// job at process start and invokes the same pipeline entry point as the
// inbound-trigger path, always in push mode (no reply token exists without
// an inbound event).
type CronTrigger struct {
	cron   *cron.Cron
	spec   string
	logger *zap.Logger
}

func NewCronTrigger(spec string, pipeline *Pipeline, logger *zap.Logger) (*CronTrigger, error) {
	if pipeline == nil {
		return nil, fmt.Errorf("pipeline is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := cron.New(cron.WithLocation(time.UTC))
	_, err := c.AddFunc(spec, func() {
		pipeline.Run(context.Background(), RunRequest{
			Trigger: domain.TriggerScheduled,
			Mode:    domain.TargetPush,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}

	return &CronTrigger{
		cron:   c,
		spec:   spec,
		logger: logger,
	}, nil
}

// Start runs the schedule until the context is canceled, then waits for any
// in-flight run to complete.
func (t *CronTrigger) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	t.logger.Info("reminder schedule started", zap.String("spec", t.spec))
	t.cron.Start()

	<-ctx.Done()

	stopCtx := t.cron.Stop()
	<-stopCtx.Done()

	t.logger.Info("reminder schedule stopped")
	return nil
}
