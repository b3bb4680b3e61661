package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	_ "github.com/go-sql-driver/mysql"
	zlog "github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/baechuer/theatre-listing/internal/application/listing"
	"github.com/baechuer/theatre-listing/internal/config"
	"github.com/baechuer/theatre-listing/internal/i18n"
	redisCache "github.com/baechuer/theatre-listing/internal/infrastructure/caching/redis"
	"github.com/baechuer/theatre-listing/internal/infrastructure/db/wordpress"
	"github.com/baechuer/theatre-listing/internal/infrastructure/messaging/rabbitmq"
	"github.com/baechuer/theatre-listing/internal/logger"
	"github.com/baechuer/theatre-listing/internal/render"
	"github.com/baechuer/theatre-listing/internal/transport/http/handlers"
	authmw "github.com/baechuer/theatre-listing/internal/transport/http/middleware"
	"github.com/baechuer/theatre-listing/internal/transport/http/router"
)

// siteClock reads the wall clock in the site timezone.
type siteClock struct{ loc *time.Location }

func (c siteClock) Now() time.Time { return time.Now().In(c.loc) }

// App holds all dependencies for the service
type App struct {
	Config  *config.Config
	Server  *http.Server
	DB      *sql.DB
	Listing *listing.Service

	Cache    *redisCache.Client
	Consumer *rabbitmq.Consumer
}

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		zlog.Fatal().Err(err).Msg("config load failed")
	}

	db, err := sql.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		zlog.Fatal().Err(err).Msg("db open failed")
	}
	defer db.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			zlog.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("db ping failed")
		}
	}
	zlog.Info().Str("driver", cfg.DBDriver).Str("prefix", cfg.TablePrefix).Msg("db connected")

	app, err := NewApp(cfg, db)
	if err != nil {
		zlog.Fatal().Err(err).Msg("app init failed")
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.RabbitURL != "" {
		c, err := rabbitmq.NewConsumer(cfg.RabbitURL, cfg.RabbitExchange, app.Listing, cfg.EventPostType, cfg.ProductionPostType)
		if err == nil {
			err = c.Start(ctx)
		}
		if err != nil {
			zlog.Fatal().Err(err).Msg("content consumer init failed")
		}
		app.Consumer = c
	} else {
		zlog.Warn().Msg("RABBIT_URL empty: shared cache only expires by TTL")
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = app.Server.Shutdown(shutdownCtx)
	}()

	zlog.Info().Str("addr", cfg.HTTPAddr).Msg("listening")
	if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		zlog.Fatal().Err(err).Msg("server crashed")
	}
}

func NewApp(cfg *config.Config, db *sql.DB) (*App, error) {
	loc, err := time.LoadLocation(cfg.SiteTimezone)
	if err != nil {
		return nil, err
	}
	clock := siteClock{loc: loc}

	// 1) Infrastructure
	repo := wordpress.New(db, wordpress.Options{
		TablePrefix:        cfg.TablePrefix,
		EventPostType:      cfg.EventPostType,
		ProductionPostType: cfg.ProductionPostType,
		SiteURL:            cfg.SiteURL,
		UploadsURL:         cfg.UploadsURL,
		ProductionBase:     cfg.ProductionBase,
		Location:           loc,
	})

	var cache listing.Cache
	var rc *redisCache.Client
	if cfg.RedisURL != "" {
		c, err := redisCache.New(cfg.RedisURL)
		if err != nil {
			zlog.Warn().Err(err).Msg("redis unavailable: shared listing cache disabled")
		} else {
			rc, cache = c, c
			zlog.Info().Dur("ttl", cfg.CacheTTLList).Msg("shared listing cache ready")
		}
	}

	// 2) Application
	svc := listing.New(repo, clock, cache, cfg.CacheTTLList)

	// 3) Transport
	tr := i18n.New(cfg.SiteLocale)
	h := handlers.NewEventsHandler(svc, render.New(tr, cfg.EventPostType, cfg.ProductionPostType), tr)
	z := handlers.NewHealthHandler(db)

	var admin *handlers.AdminHandler
	var auth *authmw.AuthMiddleware
	if cfg.JWTSecret != "" {
		admin = handlers.NewAdminHandler(svc)
		auth = authmw.NewAuth(cfg.JWTSecret, cfg.JWTIssuer)
	} else {
		zlog.Warn().Msg("JWT_SECRET empty: admin routes disabled")
	}

	// 4) Router
	httpHandler := router.New(h, z, admin, auth, cfg)

	// 5) Server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpHandler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &App{
		Config:  cfg,
		Server:  srv,
		DB:      db,
		Listing: svc,
		Cache:   rc,
	}, nil
}

func (a *App) Close() {
	if a.Consumer != nil {
		_ = a.Consumer.Close()
	}
	if a.Cache != nil {
		_ = a.Cache.Close()
	}
}
