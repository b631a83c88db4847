package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/ugis90/playlistplayer/internal/config"
	s3infra "github.com/ugis90/playlistplayer/internal/infra/s3"
	"github.com/ugis90/playlistplayer/internal/jobs/cleanup"
	pgrepo "github.com/ugis90/playlistplayer/internal/repo/postgres"
	redrepo "github.com/ugis90/playlistplayer/internal/repo/redis"
	accountsvc "github.com/ugis90/playlistplayer/internal/services/accounts"
	authsvc "github.com/ugis90/playlistplayer/internal/services/auth"
	catalogsvc "github.com/ugis90/playlistplayer/internal/services/catalog"
	fleetsvc "github.com/ugis90/playlistplayer/internal/services/fleet"
	"github.com/ugis90/playlistplayer/internal/transport/http/handlers"
)

type App struct {
	cfg         config.Config
	logger      *zap.Logger
	server      *http.Server
	postgres    *pgxpool.Pool
	redis       *goredis.Client
	cleanupJob  *cleanup.Job
	cleanupStop chan struct{}
	httpRouter  http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	pool, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	userRepo := pgrepo.NewUserRepo(pool)
	sessionRepo := pgrepo.NewSessionRepo(pool)
	categoryRepo := pgrepo.NewCategoryRepo(pool)
	playlistRepo := pgrepo.NewPlaylistRepo(pool)
	songRepo := pgrepo.NewSongRepo(pool)
	vehicleRepo := pgrepo.NewVehicleRepo(pool)
	tripRepo := pgrepo.NewTripRepo(pool)
	fuelRepo := pgrepo.NewFuelRepo(pool)
	maintenanceRepo := pgrepo.NewMaintenanceRepo(pool)
	cacheRepo := redrepo.NewCacheRepo(redisClient)

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTTL)
	authService := authsvc.NewService(jwtManager, authSessionStore{repo: sessionRepo}, authUserStore{repo: userRepo}, cfg.Auth.SessionTTL)
	accountService := accountsvc.NewService(accountUserStore{repo: userRepo})

	catalogService := catalogsvc.NewService(categoryRepo, playlistRepo, songRepo, catalogsvc.Config{
		CacheTTL:        cfg.Catalog.CacheTTL,
		DefaultPageSize: cfg.Catalog.DefaultPageSize,
		MaxPageSize:     cfg.Catalog.MaxPageSize,
		CoverURLTTL:     cfg.Catalog.CoverURLTTL,
	})
	catalogService.AttachCache(cacheRepo)

	if s3Client, err := s3infra.NewClient(s3infra.Config{
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
		UseSSL:    cfg.S3.UseSSL,
	}); err != nil {
		log.Warn("s3 init failed, cover art disabled", zap.Error(err))
	} else {
		storage := s3infra.NewStorage(s3Client, cfg.S3.Bucket)
		if err := storage.EnsureBucket(ctx); err != nil {
			log.Warn("s3 bucket check failed, cover art disabled", zap.Error(err))
		} else {
			catalogService.AttachCovers(storage)
		}
	}

	fleetService := fleetsvc.NewService(vehicleRepo, tripRepo, fuelRepo, maintenanceRepo, fleetsvc.Config{
		DefaultPageSize: cfg.Catalog.DefaultPageSize,
		MaxPageSize:     cfg.Catalog.MaxPageSize,
	})

	cleanupJob := cleanup.New(sessionRepo, log)
	cleanupJob.AttachStaleTripCleanup(tripRepo, cfg.Cleanup.OpenTripRetention)

	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		AccountService: accountService,
		CatalogService: catalogService,
		FleetService:   fleetService,
		Health:         handlers.NewHealthHandler(pool),
		Logger:         log,
		Config:         cfg,
	})

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &App{
		cfg:         cfg,
		logger:      log,
		server:      server,
		postgres:    pool,
		redis:       redisClient,
		cleanupJob:  cleanupJob,
		cleanupStop: make(chan struct{}),
		httpRouter:  r,
	}, nil
}

func (a *App) Run() error {
	go a.runCleanupLoop()

	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *App) runCleanupLoop() {
	interval := a.cfg.Cleanup.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if err := a.cleanupJob.Run(ctx); err != nil {
				a.logger.Warn("cleanup pass failed", zap.Error(err))
			}
			cancel()
		case <-a.cleanupStop:
			return
		}
	}
}

func (a *App) Shutdown(ctx context.Context) error {
	close(a.cleanupStop)

	var shutdownErr error
	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
