package main // Entry point package

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/pflag"

	"github.com/mikey2020/docs-cabinet-cp2/internal/config"
	"github.com/mikey2020/docs-cabinet-cp2/internal/database"
	"github.com/mikey2020/docs-cabinet-cp2/internal/handler"
	"github.com/mikey2020/docs-cabinet-cp2/internal/logging"
	"github.com/mikey2020/docs-cabinet-cp2/internal/metrics"
	"github.com/mikey2020/docs-cabinet-cp2/internal/middleware"
	"github.com/mikey2020/docs-cabinet-cp2/internal/queue"
	"github.com/mikey2020/docs-cabinet-cp2/internal/repository"
	"github.com/mikey2020/docs-cabinet-cp2/internal/router"
	"github.com/mikey2020/docs-cabinet-cp2/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var envFile string
	var migrate bool

	flagSet := pflag.NewFlagSet("docs-cabinet", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "load environment variables from this file if it exists")
	flagSet.BoolVar(&migrate, "migrate", false, "apply the database schema before serving")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}
	cfg, err := config.Load() // Load environment config
	if err != nil {
		return err
	}
	log := logging.New(os.Stdout, cfg.LogLevel)
	if cfg.Env == "dev" {
		log = logging.Console(cfg.LogLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if migrate {
		if err := database.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info().Msg("schema applied")
	}

	// Redis is optional: without it caching and rate limiting pass through.
	rdb := config.NewRedisClient(cfg.Redis)
	if rdb == nil {
		log.Warn().Str("addr", cfg.Redis.Addr).Msg("redis unavailable; cache and rate limit disabled")
	} else {
		defer rdb.Close()
	}

	var events service.EventPublisher
	if cfg.AMQP.URL != "" {
		pub := queue.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Queue)
		defer pub.Close()
		events = pub
	} else {
		log.Warn().Msg("AMQP_URL not set; document events are not published")
	}

	users := repository.NewUserRepo(db)
	docSvc := service.NewDocumentService(service.DocumentServiceConfig{
		Documents: repository.NewDocumentRepo(db),
		Users:     users,
		Events:    events,
		Logger:    log.With().Str("component", "documents").Logger(),
	})
	userSvc := service.NewUserService(service.UserServiceConfig{
		Users:      users,
		Secret:     cfg.JWTSecret,
		TokenTTL:   cfg.TokenTTL,
		BcryptCost: cfg.BcryptCost,
		Logger:     log.With().Str("component", "users").Logger(),
	})

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(metrics.Middleware())
	e.Use(middleware.RequestLogger(log))

	cache := middleware.NewResponseCache(cfg.Cache, rdb, log)
	mw := router.Middlewares{
		Auth:       middleware.JWTAuth(cfg.JWTSecret, cfg.AuthHeader),
		RateLimit:  middleware.NewTokenBucket(cfg.RateLimit, rdb, log),
		Cache:      cache.Reads(),
		Invalidate: cache.Writes(),
	}
	docHandler := handler.NewDocumentHandler(docSvc, handler.Paging{
		DefaultLimit: cfg.PageDefaultLimit,
		MaxLimit:     cfg.PageMaxLimit,
	}, log)
	router.RegisterRoutes(e, &handler.HealthHandler{DB: db, Redis: rdb})
	router.RegisterUsers(e, handler.NewUserHandler(userSvc, log), docHandler, mw)
	router.RegisterDocuments(e, docHandler, mw)

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
