package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/api"
	"github.com/GaiKT/rentflow/internal/app"
	"github.com/GaiKT/rentflow/internal/app/maintenance"
	iauth "github.com/GaiKT/rentflow/internal/auth"
	"github.com/GaiKT/rentflow/internal/cache"
	"github.com/GaiKT/rentflow/internal/database"
	"github.com/GaiKT/rentflow/internal/notifications"
	"github.com/GaiKT/rentflow/internal/reminder"
	"github.com/GaiKT/rentflow/internal/services"
	"github.com/GaiKT/rentflow/pkg/logger"
	"github.com/GaiKT/rentflow/pkg/mail"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rentflow-server", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	var configPath string
	fs.StringVar(&configPath, "config", "", "Path to configuration directory or file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadApplicationConfig(configPath)
	if err != nil {
		return err
	}

	if err := ensureSecretsPresent(cfg); err != nil {
		return err
	}

	if err := app.ConfigureLogging(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}
	defer logger.Sync() // best effort

	log := logger.WithModule("bootstrap")

	db, err := initialiseDatabase(cfg)
	if err != nil {
		return err
	}
	defer closeDatabase(db, log)

	store := initialiseCacheStore(cfg, db, log)
	defer func() {
		if rc, ok := store.(*cache.RedisClient); ok && rc != nil {
			_ = rc.Close()
		}
	}()

	jwtService, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:          cfg.Auth.JWT.Secret,
		Issuer:          cfg.Auth.JWT.Issuer,
		AccessTokenTTL:  cfg.Auth.JWT.TTL,
		RefreshTokenTTL: cfg.Auth.JWT.RefreshTTL,
	})
	if err != nil {
		return fmt.Errorf("initialise jwt service: %w", err)
	}

	hub := notifications.NewHub()

	runnerOpts := []reminder.RunnerOption{reminder.WithHub(hub)}
	if store != nil {
		runnerOpts = append(runnerOpts, reminder.WithRunLock(store))
	}
	if cfg.Reminders.EmailDigest && cfg.Email.SMTP.Enabled {
		mailer, mailErr := mail.NewSMTPMailer(cfg.Email.SMTPSettings())
		if mailErr != nil {
			log.Warn("smtp unavailable; reminder digests disabled", zap.Error(mailErr))
		} else {
			runnerOpts = append(runnerOpts, reminder.WithMailer(mailer))
		}
	}

	runner, err := reminder.NewRunner(db, runnerOpts...)
	if err != nil {
		return fmt.Errorf("initialise reminder runner: %w", err)
	}

	reporter, err := reminder.NewReporter(db, reminder.WithReporterHub(hub))
	if err != nil {
		return fmt.Errorf("initialise monthly reporter: %w", err)
	}

	scheduler, err := initialiseScheduler(cfg, db, hub, runner, reporter, store)
	if err != nil {
		return err
	}
	if scheduler != nil {
		if err := scheduler.Start(); err != nil {
			return fmt.Errorf("start maintenance jobs: %w", err)
		}
		defer scheduler.Stop()
	}

	router, err := api.NewRouter(api.Dependencies{
		DB:       db,
		JWT:      jwtService,
		Config:   cfg,
		Hub:      hub,
		Store:    store,
		Runner:   runner,
		Reporter: reporter,
	})
	if err != nil {
		return fmt.Errorf("build api router: %w", err)
	}

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	if err, ok := <-serverErr; ok && err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}

func loadApplicationConfig(path string) (*app.Config, error) {
	switch {
	case strings.TrimSpace(path) == "":
		return app.LoadConfig()
	default:
		info, err := os.Stat(path)
		if err == nil {
			if info.IsDir() {
				return app.LoadConfig(path)
			}
			return app.LoadConfig(filepath.Dir(path))
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config path %q does not exist", path)
		}
		return nil, fmt.Errorf("stat config path: %w", err)
	}
}

func ensureSecretsPresent(cfg *app.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Auth.JWT.Secret = strings.TrimSpace(cfg.Auth.JWT.Secret)
	if cfg.Auth.JWT.Secret == "" {
		return errors.New("auth.jwt.secret must be configured")
	}

	return nil
}

func initialiseDatabase(cfg *app.Config) (*gorm.DB, error) {
	db, err := database.Open(database.Config{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		DSN:      cfg.Database.DSN,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		Options:  cfg.Database.Options,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return db, nil
}

// initialiseCacheStore prefers Redis and falls back to the database-backed
// store, so coordination keys keep working on single-node installs.
func initialiseCacheStore(cfg *app.Config, db *gorm.DB, log *zap.Logger) cache.Store {
	if cfg.Cache.Redis.Enabled {
		client, err := cache.NewRedisClient(cfg.Cache.RedisClientConfig())
		if err != nil {
			log.Warn("redis unavailable; falling back to database-backed cache", zap.Error(err))
		} else {
			log.Info("redis connected", zap.String("addr", cfg.Cache.Redis.Address))
			return client
		}
	}
	return cache.NewDatabaseStore(db)
}

func initialiseScheduler(cfg *app.Config, db *gorm.DB, hub *notifications.Hub, runner *reminder.Runner, reporter *reminder.Reporter, store cache.Store) (*maintenance.Scheduler, error) {
	if !cfg.Reminders.Enabled {
		return nil, nil
	}

	notificationSvc, err := services.NewNotificationService(db, hub)
	if err != nil {
		return nil, fmt.Errorf("initialise notification service: %w", err)
	}

	activity, err := services.NewActivityService(db)
	if err != nil {
		return nil, fmt.Errorf("initialise activity service: %w", err)
	}

	contractSvc, err := services.NewContractService(db, hub, activity)
	if err != nil {
		return nil, fmt.Errorf("initialise contract service: %w", err)
	}

	opts := []maintenance.Option{
		maintenance.WithReminderSchedule(cfg.Reminders.Schedule),
		maintenance.WithReportSchedule(cfg.Reminders.ReportSchedule),
		maintenance.WithCleanupSchedule(cfg.Reminders.CleanupSchedule),
		maintenance.WithRetentionDays(cfg.Reminders.RetentionDays),
	}

	if dbStore, ok := store.(*cache.DatabaseStore); ok && dbStore != nil {
		opts = append(opts, maintenance.WithCachePurge(dbStore.PurgeExpired))
	}

	return maintenance.NewScheduler(runner, reporter, notificationSvc, contractSvc, opts...), nil
}

func closeDatabase(db *gorm.DB, log *zap.Logger) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Warn("database handle unavailable on shutdown", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn("database close failed", zap.Error(err))
	}
}
