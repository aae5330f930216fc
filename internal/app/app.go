package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/restful-go/accounts/internal/config"
	"github.com/restful-go/accounts/internal/database"
	"github.com/restful-go/accounts/internal/middleware"
	jwtpkg "github.com/restful-go/accounts/internal/pkg/jwt"
	pkgredis "github.com/restful-go/accounts/internal/pkg/redis"
	"github.com/restful-go/accounts/internal/pkg/revocation"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *mongo.Database
	rc     *pkgredis.Client
	logger *zap.Logger
}

// New initializes the application: config → MongoDB → optional Redis →
// routes. The revocation layer is wired only when enabled; its absence is a
// valid, statically-known configuration.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	db, err := database.Connect(context.Background(), cfg.DatabaseURL, cfg.DatabaseName)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	users := database.NewUserRepository(db)

	codec := jwtpkg.NewCodec(
		cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret,
		cfg.JWT.AccessLife, cfg.JWT.RefreshLife,
	)

	var rc *pkgredis.Client
	var revoker *revocation.Filter
	if cfg.Revocation.Enabled {
		rc, err = pkgredis.Connect(cfg.Revocation.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		revoker = revocation.New(rc, revocation.Options{
			DaySize:   cfg.Revocation.DaySize,
			ErrorRate: cfg.Revocation.ErrorRate,
			KeyName:   cfg.Revocation.KeyName,
		})
		logger.Info("token revocation enabled",
			zap.Int("day_size", cfg.Revocation.DaySize),
			zap.Float64("error_rate", cfg.Revocation.ErrorRate))
	} else {
		logger.Info("token revocation disabled")
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))
	router.Use(corsMiddleware(cfg))
	router.Use(middleware.RateLimit())

	a := &App{cfg: cfg, router: router, db: db, rc: rc, logger: logger}
	a.registerRoutes(users, codec, revoker)
	return a, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown releases external connections.
func (a *App) Shutdown(ctx context.Context) {
	if err := database.Disconnect(ctx, a.db); err != nil {
		a.logger.Warn("mongo disconnect", zap.Error(err))
	}
	if a.rc != nil {
		if err := a.rc.Close(); err != nil {
			a.logger.Warn("redis close", zap.Error(err))
		}
	}
}

func corsMiddleware(cfg *config.AppConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(corsConfig)
}
