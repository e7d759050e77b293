package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"wanderstay/internal/app/middleware"
	"wanderstay/internal/app/wiring"
	domainbooking "wanderstay/internal/domain/booking"
	domaincatalog "wanderstay/internal/domain/catalog"
	"wanderstay/internal/infra/broker/kafka"
	"wanderstay/internal/infra/config"
	ginserver "wanderstay/internal/infra/http/gin"
	"wanderstay/internal/infra/obs"
	infraoutbox "wanderstay/internal/infra/outbox"
	"wanderstay/internal/infra/schedule"
	"wanderstay/internal/infra/seed"
	"wanderstay/internal/infra/storage/memory"
	redisstore "wanderstay/internal/infra/storage/redis"
	"wanderstay/internal/infra/storage/s3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	logger := obs.NewLogger(cfg.Env)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	app, err := buildApplication(cfg, logger)
	if err != nil {
		logger.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: app.ready}, app.handlers)

	go func() {
		if err := app.worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox worker stopped", "error", err)
		}
	}()

	app.janitor.Start()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		if err := app.janitor.Stop(shutdownCtx); err != nil {
			logger.Warn("janitor did not stop in time", "error", err)
		}
	}()

	logger.Info("HTTP server starting",
		"addr", cfg.HTTPAddr,
		"destinations", app.catalog.Len(),
		"kafka", cfg.KafkaEnabled(),
		"s3", cfg.S3Enabled(),
		"redis", cfg.RedisEnabled(),
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	catalog  *domaincatalog.Catalog
	outbox   *memory.Outbox
	worker   *infraoutbox.Worker
	janitor  *schedule.Janitor
	ready    func(ctx context.Context) error
	closers  []io.Closer
}

func (a application) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func buildApplication(cfg config.Config, logger *slog.Logger) (application, error) {
	catalog, err := seed.LoadFile(cfg.CatalogFixtures)
	if err != nil {
		return application{}, fmt.Errorf("load catalog: %w", err)
	}

	var closers []io.Closer
	var producer infraoutbox.Producer = infraoutbox.LogProducer{Logger: logger}
	if cfg.KafkaEnabled() {
		kp, err := kafka.NewProducer(cfg.KafkaBrokers, kafka.Config("wanderstay"))
		if err != nil {
			return application{}, fmt.Errorf("kafka producer: %w", err)
		}
		producer = kp
		closers = append(closers, kp)
	}

	var uploader s3.Uploader = memory.NewDocumentStore("")
	var s3Client *s3.Client
	if cfg.S3Enabled() {
		s3Client, err = s3.NewClient(s3.Options{
			Endpoint:       cfg.S3Endpoint,
			PublicEndpoint: cfg.S3PublicEndpoint,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			Bucket:         cfg.S3Bucket,
			UseSSL:         cfg.S3UseSSL,
		}, logger)
		if err != nil {
			return application{}, err
		}
		uploader = s3Client
	}

	outboxStore := memory.NewOutbox()
	policy := domainbooking.Policy{Currency: cfg.Currency, HallFee: cfg.HallFee}

	var (
		idStore       middleware.IdempotencyStore
		verifications domainbooking.VerificationRepository
		redisClient   *goredis.Client
		tasks         []schedule.Task
	)
	if cfg.RedisEnabled() {
		dialCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		redisClient, err = redisstore.Connect(dialCtx, redisstore.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cancel()
		if err != nil {
			return application{}, err
		}
		closers = append(closers, redisClient)
		idStore = redisstore.NewIdempotencyStore(redisClient, cfg.IdempotencyTTL)
		verifications = redisstore.NewVerificationRepository(redisClient, cfg.VerificationTTL)
	} else {
		memIdem := memory.NewIdempotencyStore()
		memVerifications := memory.NewVerificationRepository()
		idStore, verifications = memIdem, memVerifications
		tasks = append(tasks,
			schedule.Task{Name: "idempotency", Store: memIdem, MaxAge: cfg.IdempotencyTTL},
			schedule.Task{Name: "verifications", Store: memVerifications, MaxAge: cfg.VerificationTTL},
		)
	}

	buses := wiring.NewBuses(wiring.Deps{
		Catalog:         catalog,
		Verifications:   verifications,
		Uploader:        uploader,
		Outbox:          outboxStore,
		Idempotency:     idStore,
		Policy:          policy,
		IdempotencyTTL:  cfg.IdempotencyTTL,
		SuggestMinChars: cfg.SuggestMinChars,
		Logger:          logger,
	})
	logger.Debug("buses wired", "commands", buses.CommandKeys, "queries", buses.QueryKeys)

	janitor, err := schedule.New(schedule.Options{
		Schedule: cfg.MaintenanceSchedule,
		Logger:   logger,
		Backlog: func() (int, int) {
			stats := outboxStore.Stats()
			return stats.Pending, stats.Failed
		},
	}, tasks...)
	if err != nil {
		return application{}, err
	}

	worker := &infraoutbox.Worker{
		Store:       outboxStore,
		Producer:    producer,
		Logger:      logger,
		Interval:    cfg.OutboxPollInterval,
		TopicPrefix: cfg.KafkaTopicPrefix,
		Backoff:     cfg.RetryBackoff,
	}

	ready := func(ctx context.Context) error {
		if catalog.Len() == 0 {
			return errors.New("catalog is empty")
		}
		if redisClient != nil {
			if err := redisstore.Ping(ctx, redisClient); err != nil {
				return err
			}
		}
		if s3Client != nil {
			return s3Client.Ping(ctx)
		}
		return nil
	}

	return application{
		handlers: ginserver.Handlers{
			Catalog: ginserver.CatalogHandler{Queries: buses.Queries},
			Booking: ginserver.BookingHandler{
				Commands: buses.Commands,
				Queries:  buses.Queries,
			},
			Suggestions: &ginserver.SuggestionStream{
				Queries:  buses.Queries,
				Debounce: cfg.SuggestDebounce,
				Logger:   logger,
			},
		},
		catalog: catalog,
		outbox:  outboxStore,
		worker:  worker,
		janitor: janitor,
		ready:   ready,
		closers: closers,
	}, nil
}
