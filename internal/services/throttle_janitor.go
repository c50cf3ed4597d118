package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/funtiknax13/task-manager/internal/infrastructure/throttle"
)

// ThrottleJanitor prunes aged-out login failure records on a schedule so the
// BoltDB file does not accumulate usernames forever.
type ThrottleJanitor struct {
	store  *throttle.Store
	cron   *cron.Cron
	logger *zap.Logger
}

func NewThrottleJanitor(store *throttle.Store, interval time.Duration, logger *zap.Logger) *ThrottleJanitor {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &ThrottleJanitor{
		store:  store,
		cron:   cron.New(cron.WithSeconds()),
		logger: logger,
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	_, _ = j.cron.AddFunc(schedule, func() {
		if err := j.store.Cleanup(time.Now()); err != nil {
			j.logger.Error("throttle cleanup failed", zap.Error(err))
		}
	})

	return j
}

func (j *ThrottleJanitor) Start() {
	j.cron.Start()
}

// Stop halts the schedule and waits for a running cleanup to finish.
func (j *ThrottleJanitor) Stop() {
	<-j.cron.Stop().Done()
}
