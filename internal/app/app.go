// Package app wires configuration, stores, services and transports into
// the processes started by cmd/.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"skincare-tracker/config"
	"skincare-tracker/internal/catalog"
	"skincare-tracker/internal/handler"
	"skincare-tracker/internal/httpserver"
	"skincare-tracker/internal/repository"
	"skincare-tracker/internal/service"
	"skincare-tracker/pkg/circuitbreaker"
	"skincare-tracker/pkg/db"
	"skincare-tracker/pkg/mq"
	"skincare-tracker/pkg/redis"
)

// Storage is an opened record store plus what it needs to shut down.
type Storage struct {
	Stores repository.Stores
	Pool   *pgxpool.Pool // nil for the memory driver
}

func (s *Storage) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// OpenStorage connects the configured store driver. Postgres schemas are
// applied when migrate is set.
func OpenStorage(ctx context.Context, cfg *config.Config, migrate bool, log *zap.Logger) (*Storage, error) {
	switch cfg.Store.Driver {
	case "memory":
		log.Warn("Using in-memory store, data is lost on restart")
		return &Storage{Stores: repository.NewMemoryStores()}, nil
	case "postgres":
		pool, err := db.NewConnection(cfg.DB, cfg.Store.SlowThreshold, log)
		if err != nil {
			return nil, err
		}
		if migrate {
			if err := repository.Migrate(ctx, pool); err != nil {
				pool.Close()
				return nil, err
			}
			log.Info("Database schema applied")
		}
		return &Storage{Stores: repository.NewPostgresStores(pool, log), Pool: pool}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// Services is every domain service the API exposes.
type Services struct {
	Products  *service.ProductService
	Routines  *service.RoutineService
	Tasks     *service.TaskService
	Reviews   *service.ReviewService
	Dashboard *service.DashboardService
	Activity  *service.ActivityService
}

func NewServices(cfg *config.Config, stores repository.Stores, events service.Emitter, log *zap.Logger) (*Services, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("load suggestion catalog: %w", err)
	}
	v := service.NewValidator()

	products := service.NewProductService(stores.Products, events, v, log)
	routines := service.NewRoutineService(stores.Routines, stores.Products, v, log)
	tasks := service.NewTaskService(stores.Tasks, stores.Routines, events, v, log)
	reviews := service.NewReviewService(stores.Reviews, events, v, log)
	dashboard := service.NewDashboardService(stores, tasks, routines, cat, service.DashboardOptions{
		SummaryLimit:  cfg.Agenda.SummaryLimit,
		ActivityLimit: cfg.Agenda.ActivityLimit,
	}, log)

	return &Services{
		Products:  products,
		Routines:  routines,
		Tasks:     tasks,
		Reviews:   reviews,
		Dashboard: dashboard,
		Activity:  service.NewActivityService(stores.Activities, cfg.Agenda.ActivityLimit),
	}, nil
}

func NewRouter(cfg *config.Config, svc *Services, checks []httpserver.ReadinessCheck, log *zap.Logger) *gin.Engine {
	return httpserver.NewRouter(httpserver.Handlers{
		Products:  handler.NewProductHandler(svc.Products, log),
		Routines:  handler.NewRoutineHandler(svc.Routines, log),
		Tasks:     handler.NewTaskHandler(svc.Tasks, log),
		Reviews:   handler.NewReviewHandler(svc.Reviews, log),
		Dashboard: handler.NewDashboardHandler(svc.Dashboard, svc.Activity, log),
	}, cfg.JWT, checks, log)
}

// RunAPI serves the REST API until ctx is cancelled, then drains in-flight
// requests.
func RunAPI(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	log.Info("Starting skincare API...",
		zap.String("port", cfg.Server.Port),
		zap.String("store", cfg.Store.Driver),
		zap.Bool("events", cfg.MQ.URL != ""),
	)

	storage, err := OpenStorage(ctx, cfg, true, log)
	if err != nil {
		return err
	}
	defer storage.Close()

	var checks []httpserver.ReadinessCheck
	if storage.Pool != nil {
		checks = append(checks, httpserver.ReadinessCheck{Name: "db", Check: storage.Pool.Ping})
	}

	var events service.Emitter = service.NopEmitter{}
	if cfg.MQ.URL != "" {
		publisher, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			return fmt.Errorf("init publisher: %w", err)
		}
		defer publisher.Close()

		breaker := circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig())
		events = service.NewEventEmitter(publisher, breaker, log)
		checks = append(checks, httpserver.ReadinessCheck{Name: "mq", Check: func(context.Context) error {
			if !publisher.IsConnected() {
				return errors.New("publisher disconnected")
			}
			return nil
		}})
	} else {
		log.Warn("mq.url is empty, activity events are not published")
	}

	if cfg.Redis.Addr != "" {
		rdb := redis.NewRedisClient(cfg.Redis)
		defer rdb.Close()
		checks = append(checks, httpserver.ReadinessCheck{Name: "redis", Check: pingRedis(rdb)})
	}

	svc, err := NewServices(cfg, storage.Stores, events, log)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           NewRouter(cfg, svc, checks, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
		return err
	}
	log.Info("HTTP server stopped")
	return nil
}

func pingRedis(rdb goredis.Cmdable) func(context.Context) error {
	return func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	}
}
