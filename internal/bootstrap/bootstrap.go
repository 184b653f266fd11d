package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	appAuth "github.com/yigit/pastquestions/internal/app/auth"
	appControllers "github.com/yigit/pastquestions/internal/app/controllers"
	appMigrations "github.com/yigit/pastquestions/internal/app/migrations"
	"github.com/yigit/pastquestions/internal/app/models"
	appRepos "github.com/yigit/pastquestions/internal/app/repositories"
	appRoutes "github.com/yigit/pastquestions/internal/app/routes"
	appServices "github.com/yigit/pastquestions/internal/app/services"
	"github.com/yigit/pastquestions/internal/config"
	"github.com/yigit/pastquestions/internal/db"
	appMiddleware "github.com/yigit/pastquestions/internal/middleware"
	pkgAuth "github.com/yigit/pastquestions/internal/pkg/auth"
	"github.com/yigit/pastquestions/internal/pkg/cache"
	"github.com/yigit/pastquestions/internal/pkg/filestorage"
	"github.com/yigit/pastquestions/internal/pkg/helpers"
	"github.com/yigit/pastquestions/internal/pkg/logger"
	"github.com/yigit/pastquestions/internal/pkg/metrics"
	"github.com/yigit/pastquestions/internal/pkg/worker"
	"github.com/yigit/pastquestions/internal/seed"
)

// reconcileTimeout bounds a single scheduled reconciliation run
const reconcileTimeout = 2 * time.Minute

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService            appServices.AuthService
	PastQuestionService    appServices.PastQuestionService
	DownloadService        appServices.DownloadService
	Reconciler             *appServices.Reconciler
	AuthController         *appControllers.AuthController
	PastQuestionController *appControllers.PastQuestionController
	DownloadController     *appControllers.DownloadController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	AuthzService           *appAuth.AuthorizationService
	FileStorage            *filestorage.LocalStorage
	ViewPool               *worker.Pool
	Redis                  *redis.Client
	Logger                 zerolog.Logger
}

// Close releases background workers and external clients in reverse start order.
func (d *Dependencies) Close(ctx context.Context) error {
	var firstErr error
	if d.Reconciler != nil {
		if err := d.Reconciler.Stop(ctx); err != nil {
			d.Logger.Warn().Err(err).Msg("Reconciler did not stop cleanly")
			firstErr = err
		}
	}
	if d.ViewPool != nil {
		if err := d.ViewPool.Close(ctx); err != nil {
			d.Logger.Warn().Err(err).Int("pending", d.ViewPool.Pending()).Msg("View recorder did not drain")
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := logger.Get()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Server.MigrationsDir
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Str("path", migrationsDir).Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Seed.Enabled {
		users := appRepos.NewUserRepository(dbPool)
		if err := seed.CreateDefaultData(context.Background(), users, cfg, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// buildListingCache picks the listing cache backend from configuration.
// The returned client is nil unless the redis driver is selected.
func buildListingCache(cfg *config.Config, lgr zerolog.Logger) (appServices.ListingCache, *redis.Client, error) {
	ttl := helpers.ParseDuration(cfg.Cache.TTL, 5*time.Minute)

	switch strings.ToLower(cfg.Cache.Driver) {
	case config.CacheDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Cache.RedisAddr, err)
		}
		lgr.Info().Str("addr", cfg.Cache.RedisAddr).Dur("ttl", ttl).Msg("Listing cache backed by redis")
		return cache.NewRedis[[]models.PastQuestion](client, "pq:list:", ttl), client, nil
	case config.CacheDriverMemory:
		lgr.Info().Int("size", cfg.Cache.Size).Dur("ttl", ttl).Msg("Listing cache held in memory")
		return cache.NewMemory[[]models.PastQuestion](cfg.Cache.Size, ttl), nil, nil
	default:
		lgr.Info().Msg("Listing cache disabled")
		return cache.Nop[[]models.PastQuestion]{}, nil, nil
	}
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	listings, redisClient, err := buildListingCache(cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize listing cache")
		return nil, err
	}
	deps.Redis = redisClient

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthzService = appAuth.NewAuthorizationService(deps.Repos.UserRepository)

	deps.ViewPool = worker.New("views",
		cfg.Views.Workers,
		cfg.Views.QueueSize,
		helpers.ParseDuration(cfg.Views.Timeout, 10*time.Second),
		logger.Component("views"),
	)

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, logger.Component("auth"))
	deps.PastQuestionService = appServices.NewPastQuestionService(
		deps.Repos.PastQuestionRepository,
		deps.FileStorage,
		deps.Repos.CleanupRepository,
		listings,
		deps.AuthzService,
		cfg.MaxUploadBytes(),
		logger.Component("past_questions"),
	)
	deps.DownloadService = appServices.NewDownloadService(
		deps.FileStorage,
		deps.Repos.PastQuestionRepository,
		deps.Repos.ViewEventRepository,
		deps.ViewPool,
		logger.Component("download"),
	)

	if cfg.Reconcile.Enabled {
		deps.Reconciler = appServices.NewReconciler(
			deps.Repos.PastQuestionRepository,
			deps.FileStorage,
			deps.Repos.CleanupRepository,
			cfg.Reconcile.BatchSize,
			reconcileTimeout,
			logger.Component("reconciler"),
		)
		if err := deps.Reconciler.Start(cfg.Reconcile.Schedule); err != nil {
			_ = deps.Close(context.Background())
			return nil, err
		}
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.PastQuestionController = appControllers.NewPastQuestionController(deps.PastQuestionService, lgr)
	deps.DownloadController = appControllers.NewDownloadController(deps.DownloadService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(), metrics.Middleware(), appMiddleware.CORS(cfg.Server.CORSOrigins))
	router.MaxMultipartMemory = 8 << 20

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.PastQuestionController,
		deps.DownloadController,
		deps.AuthMiddleware,
		cfg.MaxUploadBytes(),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
