// Package main - entry point for the EduGuard Core service.
//
// EduGuard classifies a student roster into risk tiers from three raw
// signals (attendance, marks, fee arrears), rolls the results up per class
// and per teacher, and dispatches guardian alerts on explicit operator
// action. Risk is always computed on read; the stores hold raw signals
// only.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: pure business logic without external dependencies
// - Application: use case orchestration (Commands/Queries)
// - Infrastructure: persistence, email transport, report export
// - Interface: HTTP endpoints
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eduguard-hub/eduguard-core/config"
	"github.com/eduguard-hub/eduguard-core/internal/application/command"
	"github.com/eduguard-hub/eduguard-core/internal/application/query"
	"github.com/eduguard-hub/eduguard-core/internal/domain/alert"
	"github.com/eduguard-hub/eduguard-core/internal/domain/roster"
	"github.com/eduguard-hub/eduguard-core/internal/infrastructure/email"
	"github.com/eduguard-hub/eduguard-core/internal/infrastructure/persistence/jsonfile"
	"github.com/eduguard-hub/eduguard-core/internal/infrastructure/persistence/postgres"
	"github.com/eduguard-hub/eduguard-core/internal/infrastructure/persistence/redis"
	httpserver "github.com/eduguard-hub/eduguard-core/internal/interface/http"
	"github.com/eduguard-hub/eduguard-core/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	logOpts := logger.DefaultOptions()
	logOpts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		logOpts.Level = logger.LevelDebug
	}
	log := logger.New(logOpts)

	log.Info("starting EduGuard Core",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.String("roster_source", cfg.Roster.Source),
	)

	pingers := make(map[string]httpserver.Pinger)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ROSTER SOURCE
	// ─────────────────────────────────────────────────────────────────────────
	var source roster.RosterSource
	var directorySource roster.DirectorySource

	switch cfg.Roster.Source {
	case config.RosterSourcePostgres:
		log.Info("connecting to database...")
		dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Roster.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			log.Info("closing database connection...")
			dbConn.Close()
		}()

		log.Info("running database migrations...")
		if err := postgres.NewMigrator(dbConn).Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		repo := postgres.NewRosterRepository(dbConn)
		if cfg.Roster.SeedFromJSON {
			if err := seedFromJSON(ctx, cfg, repo, log); err != nil {
				return fmt.Errorf("failed to seed roster: %w", err)
			}
		}

		source = repo
		directorySource = repo
		pingers["postgres"] = dbConn

	case config.RosterSourceJSON:
		source = jsonfile.NewRosterSource(cfg.Roster.StudentsPath)
		directorySource = jsonfile.NewDirectorySource(cfg.Roster.TeachersPath)

	default:
		return fmt.Errorf("unknown roster source %q", cfg.Roster.Source)
	}

	log.Info("loading teacher directory...")
	directory, err := directorySource.LoadDirectory(ctx)
	if err != nil {
		return fmt.Errorf("failed to load teacher directory: %w", err)
	}
	log.Info("teacher directory loaded", logger.Int("classes", directory.Len()))

	// ─────────────────────────────────────────────────────────────────────────
	// 4. STATS CACHE (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var statsCache query.StatsCache
	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.Config{
			Host:         cfg.Redis.Host,
			Port:         cfg.Redis.Port,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			StatsTTL:     cfg.Redis.StatsTTL,
		}
		cache, err := redis.NewStatsCache(redisCfg, log)
		if err != nil {
			log.Warn("failed to connect to Redis, stats caching disabled", logger.Err(err))
		} else {
			defer cache.Close()
			statsCache = cache
			pingers["redis"] = cache
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ALERT CHANNEL
	// ─────────────────────────────────────────────────────────────────────────
	var channel alert.Channel
	if cfg.SMTP.Disabled {
		log.Info("SMTP disabled, alerts will be logged only")
		channel = email.NewLogChannel(log)
	} else {
		smtpChannel, err := email.NewChannel(email.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			Timeout:  cfg.SMTP.Timeout,
		}, log)
		if err != nil {
			return fmt.Errorf("failed to configure SMTP channel: %w", err)
		}
		channel = smtpChannel
	}
	dispatcher := alert.NewDispatcher(channel)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. APPLICATION LAYER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")
	riskOverview := query.NewGetRiskOverviewHandler(source, directory, cfg.Thresholds)
	cohortStats := query.NewGetCohortStatsHandler(source, directory, cfg.Thresholds, statsCache)
	sendAlert := command.NewSendAlertHandler(source, cfg.Thresholds, dispatcher, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpserver.NewServer(httpConfig, httpserver.Dependencies{
		RiskOverview: riskOverview,
		CohortStats:  cohortStats,
		SendAlert:    sendAlert,
		Exporter:     httpserver.NewExporter(source, directory, cfg.Thresholds),
		Pingers:      pingers,
		Logger:       log,
	})

	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("EduGuard Core is running", logger.String("address", httpConfig.Address()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			log.Error("http server error", logger.Err(err))
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}

// seedFromJSON imports the JSON roster and teacher directory files into
// PostgreSQL. Records with unusable identity are skipped with a warning,
// matching the loader's per-record tolerance.
func seedFromJSON(ctx context.Context, cfg *config.Config, repo *postgres.RosterRepository, log *logger.Logger) error {
	log.Info("seeding roster from JSON files",
		logger.String("students", cfg.Roster.StudentsPath),
		logger.String("teachers", cfg.Roster.TeachersPath),
	)

	students, issues, err := jsonfile.NewRosterSource(cfg.Roster.StudentsPath).Load(ctx)
	if err != nil {
		return err
	}
	for _, issue := range issues {
		log.Warn("roster seed issue", logger.String("detail", issue.String()))
	}
	for _, s := range students {
		if err := repo.UpsertStudent(ctx, s); err != nil {
			return err
		}
	}

	if cfg.Roster.TeachersPath != "" {
		directory, err := jsonfile.NewDirectorySource(cfg.Roster.TeachersPath).LoadDirectory(ctx)
		if err != nil {
			return err
		}
		for _, code := range directory.Classes() {
			teacher, ok := directory.Resolve(code)
			if !ok {
				continue
			}
			if err := repo.UpsertTeacher(ctx, code, teacher); err != nil {
				return err
			}
		}
	}

	log.Info("roster seed completed", logger.Int("students", len(students)))
	return nil
}
