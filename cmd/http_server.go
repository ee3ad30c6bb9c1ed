package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/campus-complaints/api"
	"github.com/frahmantamala/campus-complaints/internal"
	"github.com/frahmantamala/campus-complaints/internal/auth"
	authPostgres "github.com/frahmantamala/campus-complaints/internal/auth/postgres"
	"github.com/frahmantamala/campus-complaints/internal/category"
	"github.com/frahmantamala/campus-complaints/internal/complaint"
	complaintPostgres "github.com/frahmantamala/campus-complaints/internal/complaint/postgres"
	"github.com/frahmantamala/campus-complaints/internal/core/events"
	"github.com/frahmantamala/campus-complaints/internal/notification"
	"github.com/frahmantamala/campus-complaints/internal/profile"
	profilePostgres "github.com/frahmantamala/campus-complaints/internal/profile/postgres"
	"github.com/frahmantamala/campus-complaints/internal/querycache"
	"github.com/frahmantamala/campus-complaints/internal/transport"
	"github.com/frahmantamala/campus-complaints/internal/transport/rest"
	"github.com/frahmantamala/campus-complaints/pkg/logger"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config     *internal.Config
	DB         *sqlx.DB
	Gorm       *gorm.DB
	Redis      *redis.Client
	Cache      querycache.Cache
	EventBus   *events.EventBus
	Dispatcher *notification.Dispatcher
	Router     *chi.Mux
	Logger     *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	setupRoutes(deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		deps.close()
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			deps.close()
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

// close releases resources in reverse order of creation.
func (d *Dependencies) close() {
	d.EventBus.Wait()
	if d.Dispatcher != nil {
		d.Dispatcher.Shutdown()
	}
	if d.Redis != nil {
		if err := d.Redis.Close(); err != nil {
			d.Logger.Error("Redis close error", "error", err)
		}
	}
	if err := d.DB.Close(); err != nil {
		d.Logger.Error("Database close error", "error", err)
	}
}

func setupRoutes(deps *Dependencies) {
	base := transport.NewBaseHandler(deps.Logger)

	if _, err := api.Load(context.Background()); err != nil {
		deps.Logger.Warn("openapi document failed validation", "error", err)
	}

	authRepo := authPostgres.NewRepository(deps.Gorm)
	tokenGen := auth.NewJWTTokenGenerator(
		deps.Config.Security.AccessTokenSecret,
		deps.Config.Security.RefreshTokenSecret,
		deps.Config.Security.AccessTokenDuration,
		deps.Config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGen, deps.Logger)

	profileRepo := profilePostgres.NewProfileRepository(deps.Gorm)
	profileService := profile.NewService(profileRepo, deps.Logger)

	complaintRepo := complaintPostgres.NewComplaintRepository(deps.Gorm)
	complaintService := complaint.NewService(complaintRepo, profileRepo, deps.Cache, deps.EventBus, deps.Logger)

	if deps.Config.Notification.Enabled {
		deps.Dispatcher = notification.NewDispatcher(notification.Config{
			EndpointURL: deps.Config.Notification.EndpointURL,
			Timeout:     deps.Config.Notification.Timeout,
			MaxWorkers:  deps.Config.Notification.MaxWorkers,
			QueueSize:   deps.Config.Notification.QueueSize,
		}, profileRepo, deps.Logger)
		deps.EventBus.Subscribe(events.EventTypeComplaintStatusChanged, deps.Dispatcher.HandleStatusChanged)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, rest.Handlers{
		Auth:         auth.NewHandler(authService),
		Profile:      profile.NewHandler(base, profileService),
		Complaint:    complaint.NewHandler(base, complaintService),
		Category:     category.NewHandler(base, category.NewService(deps.Logger)),
		Notification: notification.NewHandler(base),
	}, rest.Options{
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		Redis:          deps.Redis,
	}, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize gorm: %w", err)
	}

	cache, redisClient, err := initCache(config.Cache, lg)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize query cache: %w", err)
	}

	return &Dependencies{
		Config:   config,
		Logger:   lg,
		DB:       db,
		Gorm:     gormDB,
		Redis:    redisClient,
		Cache:    cache,
		EventBus: events.NewEventBus(lg),
		Router:   chi.NewRouter(),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm runs the repositories on the same pool as sqlx.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
}

func initCache(cfg internal.CacheConfig, lg *slog.Logger) (querycache.Cache, *redis.Client, error) {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = querycache.DefaultTTL
	}

	if cfg.Driver != "redis" {
		lg.Info("query cache ready", "driver", "memory", "ttl", ttl)
		return querycache.NewMemory(ttl), nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client, err := querycache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return nil, nil, err
	}
	lg.Info("query cache ready", "driver", "redis", "addr", cfg.RedisAddr, "ttl", ttl)
	return querycache.NewRedis(client, "campus-complaints", ttl), client, nil
}
