package main

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"labourhub/app/handler"
	"labourhub/app/router"
	"labourhub/internal/service"
	"labourhub/pkg/config"
	"labourhub/pkg/events"
	"labourhub/pkg/interfaces"
	"labourhub/pkg/logger"
	"labourhub/pkg/notification"
	asynqqueue "labourhub/pkg/queue/asynq"
	"labourhub/pkg/store"
	redisstore "labourhub/pkg/store/redis"

	"github.com/gin-gonic/gin"
)

const webhookDeliverTimeout = 15 * time.Second

// initConfig initializes configuration; a missing file falls back to defaults
func (app *Application) initConfig() error {
	if err := config.Init(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		logger.WarnCtx(app.ctx, "config file not found, using defaults with the in-memory store")
		cfg := config.Default()
		cfg.Storage.Driver = store.DriverMemory
		cfg.Demo.SeedOnStart = true
		config.GlobalConfig = cfg
	}
	app.config = config.GlobalConfig
	return nil
}

// initLogger initializes logging
func (app *Application) initLogger() error {
	if err := logger.Init(); err != nil {
		return err
	}
	app.registerCleanup(func() {
		logger.Sync()
	})
	return nil
}

// initStorage opens the configured store
func (app *Application) initStorage() error {
	s, err := store.Open(app.ctx, app.config)
	if err != nil {
		return err
	}
	app.store = s
	app.registerCleanup(func() {
		s.Close()
		logger.InfoCtx(app.ctx, "Store connection has been closed")
	})
	return nil
}

// initRedis initializes Redis; optional unless the event queue is enabled
func (app *Application) initRedis() error {
	if app.config.Redis.Addr == "" {
		if app.config.Queue.Enabled {
			return fmt.Errorf("queue.enabled requires redis.addr")
		}
		logger.InfoCtx(app.ctx, "Redis not configured, background jobs run in single-instance mode")
		return nil
	}

	client, err := redisstore.NewRedisClient(app.config.Redis)
	if err != nil {
		return err
	}
	app.redisClient = client
	app.registerCleanup(func() {
		client.Close()
		logger.InfoCtx(app.ctx, "Redis connection has been closed")
	})
	return nil
}

// initServices builds the coordination engine
func (app *Application) initServices() error {
	app.engine = service.NewEngine(app.store, app.config.Engine)
	return nil
}

// initEvents wires committed log entries to the websocket hub and the webhook,
// through the durable queue when enabled
func (app *Application) initEvents() error {
	app.hub = events.NewHub(0)
	app.notifier = notification.NewWebhookNotifier(app.config.Notification)

	sinks := []interfaces.EventSink{app.hub}
	if app.config.Queue.Enabled {
		app.queue = asynqqueue.NewManager(app.config.Redis, app.config.Queue)
		if app.notifier.Enabled() {
			app.queue.RegisterSink(app.notifier)
		}
		sinks = append(sinks, app.queue)
		app.registerCleanup(func() {
			app.queue.Stop()
			app.queue.Close()
		})
	} else if app.notifier.Enabled() {
		sinks = append(sinks, events.Detached(app.notifier, webhookDeliverTimeout))
	}

	app.engine.SetPublisher(events.NewPublisher(sinks...))
	logger.InfoCtx(app.ctx, "event sinks: %d (queue=%v, webhook=%v)", len(sinks), app.queue != nil, app.notifier.Enabled())
	return nil
}

// initDemo seeds demo data when configured
func (app *Application) initDemo() error {
	if !app.config.Demo.SeedOnStart {
		return nil
	}
	result, err := service.Seed(app.ctx, app.engine, time.Now())
	if err != nil {
		return err
	}
	if result.Existing {
		logger.InfoCtx(app.ctx, "demo data already present, coordinator %s", result.CoordinatorID)
		return nil
	}
	logger.InfoCtx(app.ctx, "demo data seeded: coordinator %s, %d workers, %d requests",
		result.CoordinatorID, len(result.WorkerIDs), len(result.RequestIDs))
	return nil
}

// initHandlers initializes handlers
func (app *Application) initHandlers() error {
	e := app.engine
	app.requestHandler = handler.NewRequestHandler(e.Requests)
	app.coordinatorHandler = handler.NewCoordinatorHandler(e.Coordinators, e.Logs)
	app.workerHandler = handler.NewWorkerHandler(e.Workers)
	app.metaHandler = handler.NewMetaHandler(e.Logs)
	app.eventsHandler = handler.NewEventsHandler(app.hub, e.Coordinators)

	if app.redisClient != nil {
		app.metaHandler.AddHealthCheck("redis", app.redisClient)
	}
	return nil
}

// initHTTPServer initializes the router and HTTP server
func (app *Application) initHTTPServer() error {
	r := router.NewRouter(
		app.requestHandler,
		app.coordinatorHandler,
		app.workerHandler,
		app.metaHandler,
		app.eventsHandler,
		app.config.Server.APIKey,
	)

	gin.SetMode(app.config.Server.Mode)
	app.ginEngine = gin.New()
	r.Setup(app.ginEngine)

	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           app.ginEngine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return nil
}
