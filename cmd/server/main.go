package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"verifyflow/internal/casework/aggregate"
	"verifyflow/internal/casework/documents"
	"verifyflow/internal/casework/ports"
	"verifyflow/internal/casework/schema"
	"verifyflow/internal/casework/workflow"
	identityhandler "verifyflow/internal/identity/handler"
	"verifyflow/internal/identity/revocation"
	identityservice "verifyflow/internal/identity/service"
	identitystore "verifyflow/internal/identity/store"
	"verifyflow/internal/identity/token"
	"verifyflow/internal/platform/config"
	"verifyflow/internal/platform/httpserver"
	"verifyflow/internal/platform/kafka"
	"verifyflow/internal/platform/logger"
	"verifyflow/internal/platform/metrics"
	"verifyflow/internal/platform/postgres"
	"verifyflow/internal/platform/ratelimit"
	"verifyflow/internal/platform/redis"
	httptransport "verifyflow/internal/transport/http"
	casehandler "verifyflow/internal/verification/handler"
	casemetrics "verifyflow/internal/verification/metrics"
	caseservice "verifyflow/internal/verification/service"
	casestore "verifyflow/internal/verification/store"
	dErrors "verifyflow/pkg/domain-errors"
	audit "verifyflow/pkg/platform/audit"
	"verifyflow/pkg/platform/audit/publishers/compliance"
	kafkaaudit "verifyflow/pkg/platform/audit/store/kafka"
	auditmemory "verifyflow/pkg/platform/audit/store/memory"
	auditpostgres "verifyflow/pkg/platform/audit/store/postgres"
	"verifyflow/pkg/platform/audit/worker"
)

const shutdownGrace = 10 * time.Second

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "verifyflow: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogFormat, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	health := map[string]httptransport.HealthCheck{}

	db, err := postgres.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if err := ensureSchemas(ctx, db); err != nil {
			return err
		}
		health["postgres"] = db.PingContext
	}

	producer, err := kafka.NewProducer(ctx, cfg.Kafka)
	if err != nil {
		return err
	}
	if producer != nil {
		defer producer.Close()
		health["kafka"] = producer.Ping
	}

	auditStore, relay := auditBackend(db, producer, cfg.Kafka, log)
	publisher := compliance.New(auditStore,
		compliance.WithLogger(log),
		compliance.WithMetrics(compliance.NewMetrics(m.Registry())),
	)

	policy := documents.DefaultPolicy()
	policy.MaxFileBytes = cfg.Cases.MaxUploadBytes
	policy.RequireMinimum = cfg.Cases.RequireMinimumDocuments
	evaluator := aggregate.NewEvaluator(schema.NewRegistry(),
		aggregate.WithDocumentPolicy(policy),
		aggregate.WithOwnershipTotal(cfg.Cases.EnforceOwnershipTotal),
	)

	caseOpts := []caseservice.Option{
		caseservice.WithLogger(log),
		caseservice.WithMetrics(casemetrics.New(m.Registry())),
		caseservice.WithAuditPublisher(publisher),
		caseservice.WithEvaluator(evaluator),
		caseservice.WithConcurrencyMode(cfg.Cases.ConcurrencyMode),
	}
	var cases caseservice.Store = casestore.NewInMemory()
	var users identityservice.UserStore = identitystore.NewInMemory()
	if db != nil {
		cases = casestore.NewPostgres(db)
		users = identitystore.NewPostgres(db)
		caseOpts = append(caseOpts, caseservice.WithTx(casestore.NewPostgresTx(db)))
	}
	caseSvc := caseservice.New(cases, caseOpts...)

	var trl identityservice.RevocationList = revocation.NewInMemoryTRL()
	redisClient, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		trl = revocation.NewRedisTRL(redisClient.Client, revocation.WithRegisterer(m.Registry()))
		health["redis"] = redisClient.Health
	}

	jwt := token.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.JWTIssuer, cfg.Auth.SessionTTL)
	idp := identityservice.New(users, jwt,
		identityservice.WithLogger(log),
		identityservice.WithRevocationList(trl),
		identityservice.WithAuditPublisher(publisher),
	)
	if err := seedReviewer(ctx, idp, cfg.Auth.SeedReviewer, log); err != nil {
		return err
	}

	var authLimiter *ratelimit.SlidingWindow
	if cfg.Auth.RateLimitPerMinute > 0 {
		authLimiter = ratelimit.NewSlidingWindow(cfg.Auth.RateLimitPerMinute, time.Minute)
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Cases:      casehandler.New(caseSvc, log, cfg.Cases.MaxUploadBytes),
		Sessions:   identityhandler.New(idp, log),
		Validator:  token.NewValidator(jwt),
		Revocation: trl,
		Metrics:    m,
		Logger:     log,
		Health:     health,
		Timeout:    30 * time.Second,

		AuthLimiter: authLimiter,
	})
	srv := httpserver.New(cfg.Addr, router)

	log.InfoContext(ctx, "starting verifyflow",
		"addr", cfg.Addr,
		"postgres", db != nil,
		"redis", redisClient != nil,
		"kafka", producer != nil,
		"concurrency_mode", cfg.Cases.ConcurrencyMode,
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Run(gctx, srv, shutdownGrace, log)
	})
	if authLimiter != nil {
		g.Go(func() error {
			sweep(gctx, authLimiter)
			return nil
		})
	}
	if relay != nil {
		g.Go(func() error {
			if err := relay.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}
	return g.Wait()
}

// seedReviewer provisions the configured reviewer. An account that already
// exists is left as it is.
func seedReviewer(ctx context.Context, idp *identityservice.Service, seed *config.ReviewerSeed, log *slog.Logger) error {
	if seed == nil {
		return nil
	}
	user, err := idp.Provision(ctx, ports.Registration{
		Email:    seed.Email,
		Password: seed.Password,
		Role:     workflow.ActorReviewer,
	})
	if dErrors.HasCode(err, dErrors.CodeConflict) {
		log.InfoContext(ctx, "reviewer already provisioned", "email", seed.Email)
		return nil
	}
	if err != nil {
		return fmt.Errorf("provision reviewer: %w", err)
	}
	log.InfoContext(ctx, "reviewer provisioned", "user_id", user.ID)
	return nil
}

func sweep(ctx context.Context, limiter *ratelimit.SlidingWindow) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Sweep()
		}
	}
}

func ensureSchemas(ctx context.Context, db *sql.DB) error {
	for _, ensure := range []func(context.Context, *sql.DB) error{
		casestore.EnsureSchema,
		identitystore.EnsureSchema,
		auditpostgres.EnsureSchema,
	} {
		if err := ensure(ctx, db); err != nil {
			return err
		}
	}
	return nil
}

// auditBackend picks where audit events land. With Postgres they go to the
// outbox inside the case transaction, and a relay forwards them to Kafka when
// brokers are configured. Without Postgres, Kafka is written directly.
func auditBackend(db *sql.DB, producer *kgo.Client, cfg config.KafkaConfig, log *slog.Logger) (audit.Store, *worker.Relay) {
	switch {
	case db != nil:
		outbox := auditpostgres.New(db)
		if producer == nil {
			return outbox, nil
		}
		return outbox, worker.NewRelay(outbox, kafkaaudit.New(producer, cfg.AuditTopic), worker.WithLogger(log))
	case producer != nil:
		return kafkaaudit.New(producer, cfg.AuditTopic), nil
	default:
		return auditmemory.NewInMemoryStore(), nil
	}
}
