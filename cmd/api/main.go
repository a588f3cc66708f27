package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "campfind/internal/adapters/http_server"
	"campfind/internal/adapters/notify"
	"campfind/internal/adapters/observability"
	"campfind/internal/adapters/payment"
	redisad "campfind/internal/adapters/redis"
	"campfind/internal/app"
	"campfind/internal/domain"
	"campfind/internal/shared"
	"campfind/internal/storage/memory"
	mysqlrepo "campfind/internal/storage/mysql"
)

func main() {
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// catalog
	var catalog domain.CatalogRepository
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		catalog = mysqlrepo.New(db)
	} else {
		seed, err := memory.DefaultCatalog()
		if err != nil {
			log.Fatal().Err(err).Msg("embedded catalog invalid")
		}
		catalog = memory.New(seed)
		log.Info().Int("camps", len(seed.Camps)).Int("rooms", len(seed.Rooms)).Msg("serving embedded catalog")
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable; catalog cache misses will fall through")
		}
		cache = rc
	}

	// notifications
	sinks := notify.Fanout{notify.NewLogSink(log.Logger)}
	if cfg.NATSURL != "" {
		ns, conn, err := notify.ConnectNATS(cfg.NATSURL, cfg.NATSSubject)
		if err != nil {
			log.Fatal().Err(err).Msg("nats connect failed")
		}
		defer conn.Drain()
		sinks = append(sinks, ns)
	}

	// core
	dir := app.NewDirectory()
	ledger := app.NewLedger()
	if cfg.SeedDemo {
		if err := app.SeedDemo(dir, ledger); err != nil {
			log.Fatal().Err(err).Msg("seed demo data failed")
		}
	}
	q := app.NewQueryService(catalog, cache, cfg.CacheTTL)
	gw := payment.NewSimulator(cfg.PaymentDelay, cfg.PaymentSuccessRate)
	flow := app.NewBookingFlow(q, ledger, gw, sinks)

	// http
	srv := server.New(server.Options{RateLimitRPS: cfg.RateLimitRPS, RateLimitBurst: cfg.RateLimitBurst})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Catalog:   q,
		Favorites: app.NewFavorites(),
		Ledger:    ledger,
		Flow:      flow,
		Sessions:  server.NewSessions(dir, cfg.SessionCookie, !cfg.IsDev()),
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown failed")
	}
	log.Info().Msg("API stopped")
}
