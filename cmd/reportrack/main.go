// reportrack is the property service alarm engine: it watches scheduled
// service windows, matches service records against them, and emails the
// responsible users when a visit is missed.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/firedock/reportrack-backend/internal/alarm"
	"github.com/firedock/reportrack-backend/internal/api"
	"github.com/firedock/reportrack-backend/internal/conf"
	"github.com/firedock/reportrack-backend/internal/datastore"
	"github.com/firedock/reportrack-backend/internal/datastore/repository"
	"github.com/firedock/reportrack-backend/internal/logger"
	"github.com/firedock/reportrack-backend/internal/notify"
	"github.com/firedock/reportrack-backend/internal/observability/metrics"
	"github.com/firedock/reportrack-backend/internal/scheduler"
)

var version = "dev"

func main() {
	var configPath string

	root := &cobra.Command{
		Use:   "reportrack",
		Short: "Property service alarm engine",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the alarm engine and HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(configPath)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Run one alarm batch and print the log trail",
		RunE: func(cmd *cobra.Command, args []string) error {
			return check(cmd.Context(), configPath)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(version)
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads settings, the logger, the datastore, and the wired
// alarm runner shared by serve and check.
func bootstrap(configPath string) (*conf.Settings, *zap.Logger, *datastore.Manager, *alarm.Runner, error) {
	// .env is optional, present in the legacy deployment layout.
	_ = godotenv.Load()

	settings, err := conf.Load(configPath)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to load settings: %w", err)
	}

	log, err := logger.New(settings.LogLevel)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	metrics.Init()

	ds, err := datastore.Open(settings.Database)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to open datastore: %w", err)
	}

	alarmRepo := repository.NewAlarmRepository(ds.DB())
	sender := notify.NewShoutrrrSender(settings.Mail.URL)
	dispatcher := alarm.NewDispatcher(
		repository.NewUserRepository(ds.DB()),
		repository.NewEmailLogRepository(ds.DB()),
		alarmRepo,
		sender,
		alarm.DispatcherOptions{
			From:        settings.Mail.From,
			SendEnabled: settings.Mail.Enabled,
			Log:         log,
		},
	)
	evaluator := alarm.NewEvaluator(alarm.NewMatcher(repository.NewServiceRecordRepository(ds.DB())), dispatcher, nil)
	runner := alarm.NewRunner(alarmRepo, repository.NewAlarmLogRepository(ds.DB()), evaluator, nil, log)
	return settings, log, ds, runner, nil
}

func serve(configPath string) error {
	settings, log, ds, runner, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	defer func() { _ = ds.Close() }()

	sched, err := scheduler.New(settings.Engine, runner, log)
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	alarmRepo := repository.NewAlarmRepository(ds.DB())
	alarmLogRepo := repository.NewAlarmLogRepository(ds.DB())
	controller := api.New(runner, alarmRepo, alarmLogRepo, settings.Engine.Enabled, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- controller.Start(settings.HTTP.Addr())
	}()
	log.Info("reportrack started",
		zap.String("version", version),
		zap.String("addr", settings.HTTP.Addr()),
		zap.Bool("engine_enabled", settings.Engine.Enabled),
		zap.Bool("mail_enabled", settings.Mail.Enabled))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case sig := <-quit:
		log.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := controller.Shutdown(ctx); err != nil {
			log.Error("http shutdown failed", zap.Error(err))
		}
	}
	return nil
}

// check runs a single batch pass and prints its log trail to stdout.
func check(ctx context.Context, configPath string) error {
	settings, log, ds, runner, err := bootstrap(configPath)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	defer func() { _ = ds.Close() }()

	runCtx, cancel := context.WithTimeout(ctx, settings.Engine.RunTimeout.Std())
	defer cancel()

	result, runErr := runner.Run(runCtx)
	for _, line := range result.Logs {
		fmt.Println(line)
	}
	return runErr
}
