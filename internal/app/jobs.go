package app

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/talkincode/catalogadmin/internal/audit"
	"go.uber.org/zap"
)

const defaultOprLogKeepDays = 365

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) initJob() error {
	loc, err := time.LoadLocation(a.appConfig.System.Location)
	if err != nil {
		loc = time.Local
	}
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	if _, err := a.sched.AddFunc("@daily", a.SchedClearExpireData); err != nil {
		return errors.Wrap(err, "init job")
	}
	a.sched.Start()
	return nil
}

// SchedClearExpireData purges audit entries older than oprlog.keep_days.
func (a *Application) SchedClearExpireData() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	days := a.appConfig.OprLog.KeepDays
	if days <= 0 {
		days = defaultOprLogKeepDays
	}
	n, err := audit.NewGormOprLogRepository(a.gormDB).DeleteOlderThan(context.Background(), days)
	if err != nil {
		zap.L().Error("failed to purge operation logs", zap.Error(err))
		return
	}
	if n > 0 {
		zap.L().Info("purged operation logs", zap.Int64("count", n), zap.Int("keep_days", days))
	}
}
