package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	catalogmetrics "chorale/internal/catalog/metrics"
	catalogservice "chorale/internal/catalog/service"
	"chorale/internal/catalog/stats"
	albumstore "chorale/internal/catalog/store/album"
	artiststore "chorale/internal/catalog/store/artist"
	songstore "chorale/internal/catalog/store/song"
	orgmetrics "chorale/internal/org/metrics"
	orgservice "chorale/internal/org/service"
	adminstore "chorale/internal/org/store/admin"
	orgstore "chorale/internal/org/store/organization"
	"chorale/internal/platform/config"
	"chorale/internal/platform/httpserver"
	"chorale/internal/platform/logger"
	"chorale/internal/platform/redis"
	"chorale/internal/platform/token"
	"chorale/internal/transport"
	auditkafka "chorale/pkg/platform/audit/kafka"
	auditpublisher "chorale/pkg/platform/audit/publisher"
	auditmemory "chorale/pkg/platform/audit/store/memory"
	"chorale/pkg/platform/tx"
)

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Stores: PostgreSQL when configured, in-memory otherwise (local dev).
	var (
		db      *sql.DB
		txr     tx.Runner = tx.NoopRunner{}
		orgs    orgservice.OrganizationStore
		admins  orgservice.AdministratorStore
		artists interface {
			catalogservice.ArtistStore
			stats.ArtistCounterStore
		}
		albums interface {
			catalogservice.AlbumStore
			stats.AlbumCounterStore
		}
		songs catalogservice.SongStore
	)
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("database open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		txr = tx.NewSQLRunner(db)
		orgs = orgstore.NewPostgres(db)
		admins = adminstore.NewPostgres(db)
		artists = artiststore.NewPostgres(db)
		albums = albumstore.NewPostgres(db)
		songs = songstore.NewPostgres(db)
		log.Info("using postgres stores")
	} else {
		orgs = orgstore.NewInMemory()
		admins = adminstore.NewInMemory()
		artists = artiststore.NewInMemory()
		albums = albumstore.NewInMemory()
		songs = songstore.NewInMemory()
		log.Warn("DATABASE_URL not set, using in-memory stores")
	}

	// Audit trail: Kafka sink when brokers are configured, otherwise the
	// in-memory store behind an async publisher.
	var auditStore auditpublisher.Store
	if len(cfg.KafkaBrokers) > 0 {
		sink, err := auditkafka.New(ctx, cfg.KafkaBrokers, cfg.KafkaAuditTopic, log)
		if err != nil {
			log.Error("kafka audit sink init failed", "error", err)
			os.Exit(1)
		}
		defer sink.Close()
		auditStore = sink
	} else {
		auditStore = auditmemory.NewInMemoryStore()
	}
	auditor := auditpublisher.NewPublisher(auditStore,
		auditpublisher.WithAsyncBuffer(256),
		auditpublisher.WithLogger(log),
	)

	// Optional redis mirror for display counters.
	cache, err := redis.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if cache != nil {
		defer cache.Close()
	}

	orgSvc := orgservice.New(orgs, admins,
		orgservice.WithTxRunner(txr),
		orgservice.WithLogger(log),
		orgservice.WithMetrics(orgmetrics.New()),
		orgservice.WithAuditEmitter(auditor),
	)

	cMetrics := catalogmetrics.New()
	statsOpts := []stats.Option{stats.WithLogger(log), stats.WithMetrics(cMetrics)}
	if cache != nil {
		statsOpts = append(statsOpts, stats.WithCache(cache))
	}
	counters := stats.New(artists, albums, statsOpts...)

	catalogSvc := catalogservice.New(artists, albums, songs,
		catalogservice.WithVerificationSource(orgSvc),
		catalogservice.WithCounters(counters),
		catalogservice.WithTxRunner(txr),
		catalogservice.WithLogger(log),
		catalogservice.WithMetrics(cMetrics),
		catalogservice.WithAuditEmitter(auditor),
	)

	tokens := token.NewService(cfg.JWTSigningKey, "chorale")

	router := transport.NewRouter(transport.Deps{
		Catalog:   catalogSvc,
		Org:       orgSvc,
		Validator: tokens,
		Refresher: orgSvc,
		Logger:    log,
		Health: func(r *http.Request) error {
			if db != nil {
				return db.PingContext(r.Context())
			}
			return nil
		},
	})

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		if err := httpserver.Shutdown(srv, 10*time.Second); err != nil {
			return err
		}
		auditor.Close()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}
