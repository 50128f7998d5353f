package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/guardforce-admin/api/swagger"
	"github.com/noah-isme/guardforce-admin/internal/dto"
	"github.com/noah-isme/guardforce-admin/internal/handler"
	"github.com/noah-isme/guardforce-admin/internal/middleware"
	"github.com/noah-isme/guardforce-admin/internal/models"
	"github.com/noah-isme/guardforce-admin/internal/notify"
	"github.com/noah-isme/guardforce-admin/internal/repository"
	"github.com/noah-isme/guardforce-admin/internal/service"
	"github.com/noah-isme/guardforce-admin/internal/upstream"
	"github.com/noah-isme/guardforce-admin/internal/workspace"
	"github.com/noah-isme/guardforce-admin/pkg/apiclient"
	"github.com/noah-isme/guardforce-admin/pkg/cache"
	"github.com/noah-isme/guardforce-admin/pkg/config"
	"github.com/noah-isme/guardforce-admin/pkg/database"
	"github.com/noah-isme/guardforce-admin/pkg/logger"
	corsmiddleware "github.com/noah-isme/guardforce-admin/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/guardforce-admin/pkg/middleware/requestid"
	"github.com/noah-isme/guardforce-admin/pkg/storage"
)

// @title Guard Console API
// @version 1.0.0
// @description Back-office console for a security guard workforce
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	checks := map[string]handler.ReadinessCheck{}

	var redisClient *redis.Client
	if cfg.Session.Store == config.SessionStoreRedis {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redisClient.Close()
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	var sessionStore interface {
		Load(ctx context.Context) (*models.Session, error)
		Save(ctx context.Context, sess *models.Session) error
		Clear(ctx context.Context) error
	}
	if redisClient != nil {
		sessionStore = repository.NewRedisSessionRepository(redisClient, cfg.Session.RedisKey, logger.Named(logr, "session"))
	} else {
		sessionStore = repository.NewFileSessionRepository(cfg.Session.File)
	}

	validate := dto.NewValidator()
	sessions := service.NewSessionService(sessionStore, nil, validate, logger.Named(logr, "session"))
	metrics := service.NewMetricsService()

	wsOpts := workspace.Options{
		Logger:             logger.Named(logr, "workspace"),
		Observer:           metrics,
		Validate:           validate,
		SearchDebounce:     cfg.Forms.SearchDebounce,
		LookupPageSize:     cfg.Forms.LookupPageSize,
		LookupOpenPageSize: cfg.Forms.LookupOpenPageSize,
		Context:            ctx,
	}

	var ws *workspace.Workspace
	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect database", zap.Error(err))
		}
		defer db.Close()
		checks["database"] = pinger(db)
		sessions.SetAuthenticator(service.NewLocalAuthenticator(repository.NewUserRepository(db), cfg.JWT.Secret, cfg.JWT.Expiration, logger.Named(logr, "auth")))
		ws = workspace.NewPostgres(db, wsOpts)
	default:
		client := apiclient.New(cfg.Upstream, apiclient.TokenFunc(sessions.Token), logger.Named(logr, "upstream"))
		sessions.SetAuthenticator(upstream.NewAuth(client))
		ws = workspace.NewREST(client, wsOpts)
	}

	if err := sessions.Restore(ctx); err != nil {
		logr.Warn("failed to restore session", zap.Error(err))
	}

	var exports *service.ExportService
	var cleaner interface{ Cleanup() ([]string, error) }
	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Fatal("failed to prepare export storage", zap.Error(err))
		}
		exports = service.NewExportService(files, service.ExportConfig{Enabled: true, TTL: cfg.Exports.TTL}, logger.Named(logr, "export"))
		cleaner = exports
	}

	refresher, err := service.NewRefreshService(service.RefreshConfig{
		Enabled:         cfg.AutoRefresh.Enabled,
		Schedule:        cfg.AutoRefresh.Schedule,
		CleanupSchedule: cleanupSchedule(cleaner),
	}, sessions, []service.RefreshTarget{ws.DutyAttendances, ws.DutyStatusReports}, cleaner, metrics, logger.Named(logr, "scheduler"))
	if err != nil {
		logr.Fatal("invalid refresh schedule", zap.Error(err))
	}
	refresher.Start()
	defer refresher.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	ops := handler.NewMetricsHandler(metrics, checks)
	r.GET("/health", ops.Health)
	r.GET("/ready", ops.Ready)
	r.GET("/metrics", ops.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	sessionHandler := handler.NewSessionHandler(sessions)
	api.POST("/session/login", sessionHandler.Login)
	api.POST("/session/logout", sessionHandler.Logout)
	api.GET("/session", sessionHandler.Current)

	secured := api.Group("", middleware.RequireSession(sessions))
	secured.GET("/exports/:file", handler.NewExportHandler(exports).Download)
	entityHandler := handler.NewEntityHandler(notify.NewLogNotifier(logger.Named(logr, "notify"), false), exports)
	handler.RegisterEntityRoutes(secured, entityHandler, ws.Entities(), middleware.RequireRole(models.RoleSuperAdmin, models.RoleAdmin))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "backend", cfg.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Warn("graceful shutdown failed", zap.Error(err))
	}
}

func pinger(db *sqlx.DB) handler.ReadinessCheck {
	return func(ctx context.Context) error { return db.PingContext(ctx) }
}

func cleanupSchedule(cleaner interface{ Cleanup() ([]string, error) }) string {
	if cleaner == nil {
		return ""
	}
	return "@hourly"
}
