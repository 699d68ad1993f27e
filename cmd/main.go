package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"directory-service/internal/handler"
	"directory-service/internal/middleware"
	"directory-service/internal/repository"
	"directory-service/internal/service"
	"directory-service/pkg/config"
	"directory-service/pkg/database"
	"directory-service/pkg/jwtutil"
	"directory-service/pkg/logger"
	"directory-service/pkg/revocation"
	"directory-service/pkg/tracing"
	"directory-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting directory service...", cfg.LogConfig()...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, log, cfg.Tracing.Endpoint, cfg.ServiceName, cfg.Server.Env)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	if cfg.DB.AutoMigrate {
		if err := database.MigrateUp(cfg.DB.GetURL()); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
		log.Info("Database migrations applied")
	}

	db, err := database.InitDB(&cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()
	log.Info("Database connection established")

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Failed to get database handle", zap.Error(err))
	}

	var revoked revocation.Store = revocation.Noop{}
	if cfg.Redis.URL != "" {
		store, err := revocation.NewRedisStore(cfg.Redis.URL)
		if err != nil {
			log.Fatal("Failed to connect to redis", zap.Error(err))
		}
		revoked = store
		log.Info("Refresh token revocation enabled")
	}
	defer func() { _ = revoked.Close() }()

	tokens := jwtutil.NewJWTUtil(&cfg.JWT)

	users := repository.NewUserRepo(db)
	businesses := repository.NewBusinessRepo(db)
	categories := repository.NewCategoryRepo(db)
	favorites := repository.NewFavoriteRepo(db)

	authService := service.NewAuthService(users, tokens, revoked, log)
	businessService := service.NewBusinessService(businesses, categories, users, log)
	categoryService := service.NewCategoryService(categories, log)
	favoriteService := service.NewFavoriteService(favorites, businesses, log)
	profileService := service.NewProfileService(users, log)

	deps := map[string]handler.Pinger{
		"database": handler.PingFunc(sqlDB.PingContext),
	}
	if cfg.Redis.URL != "" {
		deps["redis"] = revoked
	}

	e := echo.New()
	e.HideBanner = true

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(echo.WrapMiddleware(otelhttp.NewMiddleware(cfg.ServiceName)))
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	e.GET(cfg.Metrics.Path, echo.WrapHandler(prometheus.GetPrometheusHandler()))

	handler.RegisterRoutes(e, handler.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		Business: handler.NewBusinessHandler(businessService, categoryService),
		Favorite: handler.NewFavoriteHandler(favoriteService),
		User:     handler.NewUserHandler(profileService),
		Health:   handler.NewHealthHandler(cfg.ServiceName, deps),
	}, middleware.AuthMiddleware(tokens))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := e.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return shutdownTracing(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error", zap.Error(err))
		return
	}
	log.Info("Server stopped")
}
