package main // Entry point package

import (
	"context"
	"database/sql"
	"errors"
	"log" // Logging library
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4" // Echo web framework
	echomw "github.com/labstack/echo/v4/middleware"
	glog "github.com/labstack/gommon/log"

	"github.com/iliyamo/wine-cellar/internal/config"
	"github.com/iliyamo/wine-cellar/internal/database"
	"github.com/iliyamo/wine-cellar/internal/handler"
	"github.com/iliyamo/wine-cellar/internal/middleware"
	"github.com/iliyamo/wine-cellar/internal/queue"
	"github.com/iliyamo/wine-cellar/internal/repository"
	"github.com/iliyamo/wine-cellar/internal/router"
	"github.com/iliyamo/wine-cellar/internal/service"
)

func main() {
	config.LoadDotEnv()
	cfg := config.Load() // Load environment config

	db, err := openDB(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis: unavailable, rate limiting and layout cache disabled")
	} else {
		defer rdb.Close()
	}

	var events service.EventPublisher
	if cfg.EventsEnabled {
		events = service.AMQPPublisher{URL: cfg.RabbitMQURL}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.ConsumerOn {
		consumer := queue.PlacementConsumer{URL: cfg.RabbitMQURL, LogDir: cfg.LogDir}
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("placement-consumer: stopped: %v", err)
			}
		}()
	}

	cellarRepo := repository.NewCellarRepo(db)
	spaceRepo := repository.NewCellarSpaceRepo(db)
	wineRepo := repository.NewWineRepo(db)

	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	placement := service.NewPlacementService(db, cellarRepo, spaceRepo, wineRepo, events)

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Logger.SetLevel(logLevel(cfg.LogLevel))
	e.Use(echomw.RequestID())
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e, router.Deps{
		JWTSecret: cfg.JWTSecret,
		Health:    handler.Health(db),
		Auth:      handler.NewAuthHandler(cfg, repository.NewUserRepo(db), repository.NewTokenRepo(db)),
		Cellars:   handler.NewCellarHandler(service.NewCellarService(db, cellarRepo, spaceRepo), cache),
		Wines:     handler.NewWineHandler(wineRepo, placement),
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
		Cache:     cache.Middleware(),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, db=%s)", addr, cfg.Env, cfg.DBDriver)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

func openDB(cfg config.Config) (*sql.DB, error) {
	if cfg.DBDriver == database.DriverSQLite {
		return database.OpenSQLite(cfg.SQLitePath)
	}
	return database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

func logLevel(s string) glog.Lvl {
	switch s {
	case "debug":
		return glog.DEBUG
	case "warn", "warning":
		return glog.WARN
	case "error":
		return glog.ERROR
	case "off":
		return glog.OFF
	}
	return glog.INFO
}
