// Command server runs the case finalization service: the HTTP API for
// caseworkers, the ingestion consumer feeding the case store, and the
// finalized-case publisher. main wires dependencies and owns the lifecycle;
// business logic lives in the internal packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"

	"caseflow/internal/access"
	"caseflow/internal/archive"
	"caseflow/internal/audit"
	auditstore "caseflow/internal/audit/store"
	casestore "caseflow/internal/case/store"
	"caseflow/internal/events"
	"caseflow/internal/finalize"
	finalizehandler "caseflow/internal/finalize/handler"
	"caseflow/internal/finalize/metrics"
	httpapi "caseflow/internal/http"
	"caseflow/internal/ingest"
	jwttoken "caseflow/internal/jwt_token"
	"caseflow/internal/platform/config"
	"caseflow/internal/platform/httpserver"
	"caseflow/internal/platform/kafka/consumer"
	"caseflow/internal/platform/kafka/producer"
	"caseflow/internal/platform/logger"
	ingestmetrics "caseflow/internal/platform/metrics"
	platformredis "caseflow/internal/platform/redis"
	"caseflow/internal/practitioner"
	"caseflow/internal/task"
	"caseflow/pkg/platform/upstream"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	cases := casestore.NewPostgres(db)
	auditTrail := audit.NewPublisher(auditstore.NewPostgresStore(db))

	m := metrics.New()
	httpClient := &http.Client{Timeout: cfg.Upstream.CallTimeout}
	policyFor := func(system string) upstream.Policy {
		p := upstream.Policy{
			MaxAttempts:     cfg.Retry.MaxAttempts,
			InitialInterval: cfg.Retry.InitialInterval,
			MaxInterval:     cfg.Retry.MaxInterval,
		}
		p.OnRetry = func(error) { m.IncrementRetry(system) }
		return p
	}

	archiveClient := archive.NewClient(cfg.Upstream.ArchiveBaseURL, httpClient, policyFor("archive"), cfg.Archive400SkipCaseIDs, log)
	taskClient := task.NewClient(cfg.Upstream.TaskBaseURL, httpClient, policyFor("task"), log)
	authz := access.NewAuthzClient(cfg.Upstream.AuthzBaseURL, httpClient, log)
	gate := access.NewGate(cases, authz, auditTrail, log)

	flagSource := practitioner.NewClient(cfg.Upstream.PractitionerBaseURL, httpClient, policyFor("practitioner"), log)
	var redisClient *platformredis.Client
	if cache, err := platformredis.New(cfg.Redis); err != nil {
		// The flag cache is an optimization; run without it rather than die.
		log.Warn("redis unavailable, practitioner flags uncached", "error", err)
	} else if cache != nil {
		defer cache.Close()
		redisClient = cache
	}
	flags := practitioner.NewCache(flagSource, redisClient, config.PractitionerFlagTTL, log)

	prod, err := producer.New(cfg.Kafka.Brokers)
	if err != nil {
		return fmt.Errorf("create kafka producer: %w", err)
	}
	defer prod.Close()
	finalized := events.NewPublisher(prod, cfg.Kafka.FinalizedTopic, log)

	service := finalize.NewService(cases, gate, archiveClient, taskClient, finalized, flags,
		finalize.WithMetrics(m),
		finalize.WithLogger(log),
	)

	listener := ingest.NewListener(cases, ingest.DefaultFilter(), ingestmetrics.New(), log)
	cons, err := consumer.New(consumer.Config{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.IngestTopic,
		Group:   cfg.Kafka.IngestGroup,
	}, listener, log)
	if err != nil {
		return fmt.Errorf("create kafka consumer: %w", err)
	}

	router := httpapi.NewRouter(httpapi.Config{
		Finalize:     finalizehandler.New(service, log),
		JWTValidator: jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService(cfg.JWTSigningKey)),
		Logger:       log,
	})
	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("ingest consumer running",
			"topic", cfg.Kafka.IngestTopic,
			"group", cfg.Kafka.IngestGroup,
		)
		return cons.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		cons.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
