package main

import (
	"labourhub/internal/jobs"
	"labourhub/pkg/lock"
	"labourhub/pkg/logger"
)

func (app *Application) initJobs() error {
	if app.engine == nil {
		logger.WarnCtx(app.ctx, "Service layer not initialized yet, skipping background task registration")
		return nil
	}

	manager := jobs.NewManager(app.ctx)

	// without redis the lock degrades to single-instance mode
	rescanLock := lock.NewRedisLock(app.redisClient.GetClient(), jobs.ReliabilityRescanLockKey, 0)
	manager.Register(jobs.NewReliabilityRescanJob(app.config.Jobs.ReliabilityRescanInterval, app.engine.Scorer, rescanLock))

	app.jobsManager = manager
	return nil
}
