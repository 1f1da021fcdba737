// Package kernel wires configuration, infrastructure and services into a
// runnable application. cmd/backoffice is its only caller.
package kernel

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sudeviagro/backoffice/app/jobs"
	"github.com/sudeviagro/backoffice/app/listeners"
	"github.com/sudeviagro/backoffice/app/routes"
	"github.com/sudeviagro/backoffice/app/services"
	"github.com/sudeviagro/backoffice/config"
	"github.com/sudeviagro/backoffice/pkg/cache"
	"github.com/sudeviagro/backoffice/pkg/database"
	"github.com/sudeviagro/backoffice/pkg/event"
	"github.com/sudeviagro/backoffice/pkg/logger"
	"github.com/sudeviagro/backoffice/pkg/mirror"
	"github.com/sudeviagro/backoffice/pkg/orm"
	"github.com/sudeviagro/backoffice/pkg/queue"
	"github.com/sudeviagro/backoffice/pkg/schedule"
	"github.com/sudeviagro/backoffice/pkg/storage"
	"github.com/sudeviagro/backoffice/pkg/workerpool"
)

// App is a booted application.
type App struct {
	Deps      routes.Deps
	Queue     *queue.Manager
	Pool      *workerpool.Pool
	Scheduler *schedule.Scheduler
	Events    *event.Dispatcher
	Mirror    mirror.Store
}

// Boot loads config, connects the primary database and every optional
// backend, and builds the services. Redis, S3 and the Mongo log sink are
// optional; their failures are logged and the service keeps running.
func Boot(ctx context.Context) (*App, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := logger.Setup(); err != nil {
		logger.Warn("mongo log sink disabled", "error", err)
	}
	if err := database.Connect(); err != nil {
		return nil, err
	}

	if err := cache.Connect(); err != nil {
		logger.Warn("redis unavailable, cache disabled", "error", err)
	}
	orm.CacheStore = cache.Store{}
	storage.Connect(ctx)

	q := queue.Default()
	if config.QueueDriver() == "redis" {
		if cache.RDB == nil {
			logger.Warn("QUEUE_DRIVER=redis but redis is unavailable, using memory queue")
		} else {
			q.SetDriver(queue.NewRedisDriver(cache.RDB))
		}
	}
	q.UseDB(database.DB)
	jobs.Register(q)

	store, err := mirror.New(mirror.ConfigFromEnv())
	if err != nil {
		return nil, err
	}

	app := &App{
		Queue:     q,
		Pool:      workerpool.New("mirror", config.WorkerPoolSize()),
		Scheduler: schedule.New(config.Timezone()),
		Events:    event.Default(),
		Mirror:    store,
	}
	app.Deps = NewDeps(store, app.Pool, app.Scheduler, app.Events, q)
	app.Deps.Health = func(r *http.Request) error { return database.Ping(r.Context()) }
	listeners.Register(app.Events, app.Deps.Mirror)

	logger.Info("kernel: booted",
		"env", config.AppEnv(),
		"db", config.DatabaseDriver(),
		"mirror", store.Mode(),
		"queue", config.QueueDriver(),
		"storage", config.StorageDefault(),
	)
	return app, nil
}

// NewDeps builds the service graph. It does not touch any backend, so
// route:list can call it without a database.
func NewDeps(store mirror.Store, pool *workerpool.Pool, sched *schedule.Scheduler, events *event.Dispatcher, q services.Dispatcher) routes.Deps {
	products := services.NewProductService(events)
	return routes.Deps{
		Auth:     services.NewAuthService(),
		Products: products,
		Leads:    services.NewLeadService(q, events),
		Jobs:     services.NewJobService(),
		SEO:      services.NewSEOService(),
		Content:  services.NewContentService(),
		Merchant: services.NewMerchantService(products, sched),
		Mirror:   services.NewMirrorService(store, products, pool),
		Mail:     services.NewApplicationEmailService(nil),
		Site:     services.NewSiteService(),
	}
}

// Close releases everything Boot opened. The pool drains first so queued
// mirror writes finish before the store closes.
func (a *App) Close(ctx context.Context) error {
	if a.Scheduler != nil {
		a.Scheduler.Stop(ctx)
	}
	if a.Pool != nil {
		a.Pool.Shutdown()
	}
	var errs []error
	if a.Mirror != nil {
		errs = append(errs, a.Mirror.Close())
	}
	if cache.RDB != nil {
		errs = append(errs, cache.RDB.Close())
	}
	errs = append(errs, database.Close())
	logger.Close()
	return errors.Join(errs...)
}
