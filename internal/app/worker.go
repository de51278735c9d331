package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"skincare-tracker/config"
	"skincare-tracker/internal/mqhandler"
	"skincare-tracker/internal/service"
	"skincare-tracker/pkg/mq"
	"skincare-tracker/pkg/redis"
	"skincare-tracker/pkg/util"
)

// RunWorker consumes activity events into the journal until ctx is
// cancelled.
func RunWorker(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	if cfg.MQ.URL == "" {
		return fmt.Errorf("mq.url must be set for the worker")
	}

	log.Info("Starting activity worker...",
		zap.String("queue", cfg.Worker.Queue),
		zap.String("binding_key", cfg.Worker.BindingKey),
		zap.Int64("max_retries", cfg.Worker.MaxRetries),
	)

	storage, err := OpenStorage(ctx, cfg, true, log)
	if err != nil {
		return err
	}
	defer storage.Close()

	rdb := redis.NewRedisClient(cfg.Redis)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}

	// DLQ 发布者
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		return fmt.Errorf("init dlq publisher: %w", err)
	}
	defer publisher.Close()
	if err := publisher.DeclareDeadLetterQueue(cfg.Worker.Queue, cfg.Worker.BindingKey); err != nil {
		return fmt.Errorf("declare dlq: %w", err)
	}

	activity := service.NewActivityService(storage.Stores.Activities, cfg.Agenda.ActivityLimit)
	h := mqhandler.NewActivityHandler(
		activity,
		util.NewDeduper(rdb, cfg.Worker.DedupTTL, log),
		util.NewRetryCounter(rdb, cfg.Worker.DedupTTL),
		publisher,
		cfg.Worker.MaxRetries,
		log,
	)

	consumer, err := mq.NewConsumer(cfg.MQ.URL, cfg.Worker.Queue, cfg.Worker.BindingKey, log)
	if err != nil {
		return fmt.Errorf("init consumer: %w", err)
	}
	defer consumer.Close()
	consumer.SetHandler(h.Handle)

	errCh := make(chan error, 1)
	go func() {
		errCh <- consumer.StartConsuming()
	}()
	log.Info("Activity worker is running")

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("consumer: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("Stopping MQ consumer...")
	consumer.Stop()
	<-errCh
	log.Info("Activity worker stopped")
	return nil
}
