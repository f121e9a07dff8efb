package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/AnishBandal/deforestation-monitoring-tool/internal/application/account"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/config"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/infrastructure/db/postgres"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/infrastructure/geodata"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/infrastructure/memory"
	rabbitmq_pub "github.com/AnishBandal/deforestation-monitoring-tool/internal/infrastructure/messaging/rabbitmq"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/infrastructure/redis"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/infrastructure/security"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/logger"
	http_handlers "github.com/AnishBandal/deforestation-monitoring-tool/internal/transport/http/handlers"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/transport/http/middleware"
	"github.com/AnishBandal/deforestation-monitoring-tool/internal/transport/http/router"
)

// NewServer wires config, stores, service, handlers and router into a
// ready-to-run HTTP server plus a cleanup function for its resources.
func NewServer() (*http.Server, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	// 1) db + schema
	db, err := config.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	migrateCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := postgres.Migrate(migrateCtx, db); err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	accountRepo := postgres.NewAccountRepo(db)

	// 2) sessions: Redis when reachable, in-memory otherwise
	var sessionStore account.SessionStore
	if cfg.RedisAddr != "" {
		c := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, cancelPing := context.WithTimeout(context.Background(), 2*time.Second)
		err := c.Ping(pingCtx)
		cancelPing()

		if err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; using in-memory sessions")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			sessionStore = redis.NewSessionStore(c)
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}
	if sessionStore == nil {
		sessionStore = memory.NewSessionStore()
	}

	// 3) event publisher (noop fallback in dev)
	var pub account.EventPublisher
	if cfg.RabbitURL != "" {
		p, err := rabbitmq_pub.NewPublisher(cfg.RabbitURL)
		if err != nil {
			if cfg.Env == "dev" {
				logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
				pub = memory.NewNoopPublisher()
			} else {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
		} else {
			p.SetExchange(cfg.RabbitExchange)
			pub = p
			cleanupFns = append(cleanupFns, func() { _ = p.Close() })
		}
	} else {
		pub = memory.NewNoopPublisher()
	}

	// 4) service
	hasher := security.NewBcryptHasher(cfg.BcryptCost)

	svc := account.NewService(accountRepo, hasher, sessionStore, pub, account.Config{
		SessionTTL: cfg.SessionTTL,
	})
	svc = svc.WithAudit(func(action string, fields map[string]string) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("action", action)
		for k, v := range fields {
			evt = evt.Str(k, v)
		}
		evt.Msg("audit")
	})

	// 5) handlers + middleware
	secureCookies := cfg.Env != "dev"

	authH := http_handlers.NewAuthHandler(svc, cfg.SessionTTL, secureCookies)
	healthH := http_handlers.NewHealthHandler(db)
	geoH := http_handlers.NewGeodataHandler(geodata.NewClient(cfg.GeodataBaseURL, cfg.GeodataTimeout))

	pagesH, err := http_handlers.NewPageHandler()
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	sessionMW := middleware.RequireSession(svc.Validate, "/login")

	// 6) router + server
	mux, err := router.New(router.Deps{
		Health:  healthH,
		Auth:    authH,
		Pages:   pagesH,
		Geodata: geoH,

		RequestIDMW: middleware.RequestID,
		MetricsMW:   middleware.Metrics,
		SessionMW:   sessionMW,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

// runCleanup runs cleanups in reverse registration order.
func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
