package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/eventdeck/internal/config"
	"github.com/iliyamo/eventdeck/internal/database"
	"github.com/iliyamo/eventdeck/internal/embeddings"
	"github.com/iliyamo/eventdeck/internal/handler"
	"github.com/iliyamo/eventdeck/internal/logger"
	"github.com/iliyamo/eventdeck/internal/middleware"
	"github.com/iliyamo/eventdeck/internal/queue"
	"github.com/iliyamo/eventdeck/internal/repository"
	"github.com/iliyamo/eventdeck/internal/router"
	"github.com/iliyamo/eventdeck/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Str("host", cfg.DBHost).Msg("database connection failed")
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = database.Migrate(migrateCtx, db)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("schema migration failed")
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable; rate limiting and caching disabled")
	} else {
		defer rdb.Close()
	}

	var activity service.ActivityPublisher = service.NopPublisher{}
	if cfg.RabbitURL != "" {
		activity = &service.AMQPPublisher{URL: cfg.RabbitURL, Log: log}
		consumer := &queue.Consumer{URL: cfg.RabbitURL, Dir: "logs", Log: log}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("activity consumer stopped")
			}
		}()
	} else {
		log.Info().Msg("RABBITMQ_URL not set; activity events disabled")
	}

	var embedder service.Embedder
	if cfg.EmbeddingsURL != "" {
		embedder = embeddings.New(cfg.EmbeddingsURL)
	}

	users := repository.NewUserRepo(db)
	auth, err := service.NewAuthService(users, cfg.JWTSecret, cfg.AccessTTL, cfg.BcryptCost, activity, log)
	if err != nil {
		log.Fatal().Err(err).Msg("auth service")
	}
	bootCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	created, err := auth.BootstrapAdmin(bootCtx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("admin bootstrap failed")
	}
	if created {
		log.Info().Str("username", cfg.AdminUsername).Msg("bootstrap admin created")
	}
	events := service.NewEventService(repository.NewEventRepo(db), users, embedder, activity, log)

	rlCfg := config.LoadRateLimitConfig()
	cacheCfg := config.LoadCacheConfig()
	jwt := middleware.JWTAuth(auth, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLogger(log))

	router.RegisterRoutes(e, &handler.HealthHandler{DB: db, Redis: rdb})
	router.RegisterAuth(e, handler.NewAuthHandler(auth, log), jwt, middleware.NewTokenBucket(rlCfg, rdb, log))
	router.RegisterEvents(e,
		handler.NewEventHandler(events, middleware.NewCacheInvalidator(rdb, cacheCfg.Prefix), log),
		jwt,
		middleware.NewRedisCache(cacheCfg, rdb, middleware.EventKey(cacheCfg.Prefix), log))
	router.RegisterAdmin(e, handler.NewAdminHandler(auth, log), jwt)

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
