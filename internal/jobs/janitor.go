package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Purger удаляет устаревшие записи журнала кодов.
type Purger interface {
	PurgeStale(ctx context.Context) (int64, error)
}

// Janitor периодически чистит таблицу whatsapp_verifications.
type Janitor struct {
	cron    *cron.Cron
	purger  Purger
	timeout time.Duration
	log     *zap.SugaredLogger
}

func NewJanitor(purger Purger, log *zap.SugaredLogger) *Janitor {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Janitor{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		purger:  purger,
		timeout: time.Minute,
		log:     log,
	}
}

// Start регистрирует задачу по расписанию (cron-выражение или "@every 30m") и запускает планировщик.
func (j *Janitor) Start(schedule string) error {
	if _, err := j.cron.AddFunc(schedule, j.RunOnce); err != nil {
		return fmt.Errorf("register janitor %q: %w", schedule, err)
	}
	j.cron.Start()
	j.log.Infow("[janitor] started", "schedule", schedule)
	return nil
}

// Stop ждёт завершения текущего прогона.
func (j *Janitor) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
	j.log.Info("[janitor] stopped")
}

func (j *Janitor) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.purger.PurgeStale(ctx)
	if err != nil {
		j.log.Errorw("[janitor] purge failed", "err", err)
		return
	}
	if n > 0 {
		j.log.Infow("[janitor] purged verification rows", "count", n)
	}
}
