package app

import (
	"context"
	"fmt"
	"net"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yungbote/amelfit-backend/internal/data/db"
	"github.com/yungbote/amelfit-backend/internal/http"
	"github.com/yungbote/amelfit-backend/internal/observability"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

const appVersion = "1.0.0"

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services
	Metrics  *observability.Metrics

	pg            *db.PostgresService
	otelShutdown  func(context.Context) error
	cancelMetrics context.CancelFunc
}

func NewLogger(mode string) (*logger.Logger, error) {
	if mode == "" {
		mode = "development"
	}
	log, err := logger.New(mode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// OpenDB connects to Postgres and, when migrate is set, brings the schema up to date.
func OpenDB(log *logger.Logger, cfg db.PostgresConfig, migrate bool) (*db.PostgresService, error) {
	pg, err := db.NewPostgresService(log, cfg)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if migrate {
		if err := pg.AutoMigrateAll(); err != nil {
			_ = pg.Close()
			return nil, fmt.Errorf("postgres automigrate: %w", err)
		}
	}
	return pg, nil
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading environment variables...")
	cfg, err := LoadConfig(log)
	if err != nil {
		return nil, err
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "amelfit-backend",
		Environment: cfg.Env,
		Version:     appVersion,
	})
	metrics := observability.Init(log)

	pg, err := OpenDB(log, cfg.Postgres, cfg.AutoMigrate)
	if err != nil {
		return nil, err
	}
	theDB := pg.DB()

	clientset, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}

	reposet := wireRepos(theDB, log)
	aggregates := wireAggregates(theDB, log, reposet, clientset, metrics)
	serviceset := wireServices(log, cfg, reposet, aggregates, clientset, metrics)
	handlerset := wireHandlers(log, serviceset)
	middleware := wireMiddleware(log, serviceset)
	router := wireRouter(log, cfg, metrics, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Clients:      clientset,
		Services:     serviceset,
		Metrics:      metrics,
		pg:           pg,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	if a.Metrics != nil {
		mctx, cancel := context.WithCancel(ctx)
		a.cancelMetrics = cancel
		a.Metrics.StartServer(mctx, a.Log, a.Cfg.MetricsAddr)
		a.Metrics.StartPostgresCollector(mctx, a.Log, a.DB)
		if a.Clients.Redis != nil {
			a.Metrics.StartRedisCollector(mctx, a.Log, a.Clients.Redis)
		}
	}
	addr := net.JoinHostPort("", a.Cfg.Port)
	a.Log.Info("HTTP server listening", "addr", addr)
	return (&http.Server{Engine: a.Router}).Serve(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancelMetrics != nil {
		a.cancelMetrics()
		a.cancelMetrics = nil
	}
	a.Clients.Close()
	if a.pg != nil {
		if err := a.pg.Close(); err != nil && a.Log != nil {
			a.Log.Warn("close postgres failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
