package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	trusthttp "github.com/jcarintoc/simple-applications-sub002/internal/trust/http"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/service"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store/drivers/memory"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store/drivers/redis"
	"github.com/jcarintoc/simple-applications-sub002/internal/trust/store/drivers/sqlite"
	"github.com/jcarintoc/simple-applications-sub002/pkg/cryptox"
	"github.com/jcarintoc/simple-applications-sub002/pkg/httpx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/jwtx"
	"github.com/jcarintoc/simple-applications-sub002/pkg/slogx"
)

// BuildVersion is overridden at build time via ldflags.
var BuildVersion = "v0.1.0"

// Application owns the trust service and its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	csrfStore  store.CSRFRecords
	redis      *goredis.Client // nil with the memory backend
	keyManager *jwtx.KeyManager

	tokenService        *service.TokenService
	csrfGuard           *service.CSRFGuard
	userService         *service.UserService
	cartService         *service.CartService
	resolver            *service.SessionResolver
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *trusthttp.Router
}

// New builds an Application. cfg must already be validated.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "trust-core",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepper(cfg.Pepper)
	if cfg.Pepper == "" {
		app.logger.Warn("no password pepper configured")
	}

	if err := httpx.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initCSRFStore(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	keyManager, err := InitKeys(cfg, app.logger)
	if err != nil {
		app.closeStores()
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.keyManager = keyManager

	if err := app.initServices(); err != nil {
		app.closeStores()
		return nil, err
	}
	app.initHTTP()

	return app, nil
}

// Handler exposes the routed handler, mainly for tests.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Run starts serving and blocks until a signal or a server failure.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("trust service starting",
		"port", app.cfg.Port,
		"version", BuildVersion,
		"algorithm", app.keyManager.Algorithm(),
		"csrf_store", app.cfg.CSRFStore,
	)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		app.closeStores()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, stops the worker and closes stores.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down trust service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.closeStores(); err != nil {
		return err
	}

	app.logger.Info("trust service stopped")
	return nil
}

func (app *Application) closeStores() error {
	var errs []error
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", "error", err)
			errs = append(errs, err)
		}
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (app *Application) initDatabase() error {
	dsn := app.cfg.DatabaseFile
	if dsn != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	}
	db, err := sqlite.NewStore(dsn)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initCSRFStore() error {
	switch strings.ToLower(app.cfg.CSRFStore) {
	case CSRFStoreRedis:
		rdb := goredis.NewClient(&goredis.Options{Addr: app.cfg.RedisAddr})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		rs := redis.NewCSRFStore(rdb, redis.DefaultKeyPrefix)
		if err := rs.Ping(ctx); err != nil {
			_ = rdb.Close()
			return fmt.Errorf("failed to reach redis at %s: %w", app.cfg.RedisAddr, err)
		}
		app.redis = rdb
		app.csrfStore = rs
		app.logger.Info("csrf records stored in redis", "addr", app.cfg.RedisAddr)
	default:
		app.csrfStore = memory.NewCSRFStore()
		app.logger.Info("csrf records stored in memory")
	}
	return nil
}

func (app *Application) initServices() error {
	codec, err := app.keyManager.NewCodec(app.cfg.Issuer)
	if err != nil {
		return fmt.Errorf("failed to build token codec: %w", err)
	}

	app.tokenService, err = service.NewTokenService(codec, app.cfg.AccessTTL, app.cfg.RefreshTTL)
	if err != nil {
		return fmt.Errorf("failed to build token service: %w", err)
	}

	app.csrfGuard = service.NewCSRFGuard(app.csrfStore, app.cfg.CSRFTTL)
	app.userService = &service.UserService{Store: app.db}
	app.cartService = &service.CartService{Store: app.db}
	app.resolver = &service.SessionResolver{
		Tokens:      app.tokenService,
		CSRF:        app.csrfGuard,
		Migrator:    service.NewIdentityMigrator(app.db),
		Credentials: app.userService,
		Registrar:   app.userService,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.csrfGuard,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.AnonymousTTL,
	)
	return nil
}

func (app *Application) initHTTP() {
	opts := []trusthttp.RouterOption{
		trusthttp.WithCookieConfig(app.cfg.CookieConfig()),
	}
	if pinger, ok := app.csrfStore.(trusthttp.Pinger); ok {
		opts = append(opts, trusthttp.WithCSRFStoreCheck(pinger))
	}

	router := trusthttp.NewRouter(
		app.keyManager.KeySet,
		BuildVersion,
		app.db,
		app.logger,
		opts...,
	)
	router.Resolver = app.resolver
	router.CSRFGuard = app.csrfGuard
	router.UserService = app.userService
	router.CartService = app.cartService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
