package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/campus-complaints/internal"
	"github.com/frahmantamala/campus-complaints/internal/core/events"
	"github.com/frahmantamala/campus-complaints/internal/notification"
	profilePostgres "github.com/frahmantamala/campus-complaints/internal/profile/postgres"
	"github.com/frahmantamala/campus-complaints/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start worker pools for background services",
	Long:  `Start and manage worker pools for background services such as status-change notifications.`,
}

// Notification worker command
var notificationWorkerCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Start the notification dispatcher",
	Long:  `Start the notification worker pool and deliver status-change notifications published on the event bus`,
	Run: func(cmd *cobra.Command, args []string) {
		startNotificationWorker()
	},
}

// Event Bus worker command
var eventWorkerCmd = &cobra.Command{
	Use:   "events",
	Short: "Start event bus worker",
	Long:  `Start the event bus and log complaint events as they arrive`,
	Run: func(cmd *cobra.Command, args []string) {
		startEventWorker()
	},
}

var (
	maxWorkers  int
	queueSize   int
	endpointURL string
)

func notificationConfig(cfg internal.NotificationConfig) notification.Config {
	// command line flags win over config values
	return notification.Config{
		EndpointURL: getStringFlag(endpointURL, cfg.EndpointURL),
		Timeout:     cfg.Timeout,
		MaxWorkers:  getIntFlag(maxWorkers, cfg.MaxWorkers),
		QueueSize:   getIntFlag(queueSize, cfg.QueueSize),
	}
}

func startNotificationWorker() {
	config, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	gormDB, err := initGorm(db)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize gorm: %v\n", err)
		os.Exit(1)
	}

	dispatcherConfig := notificationConfig(config.Notification)
	lg.Info("starting notification worker",
		"max_workers", dispatcherConfig.MaxWorkers,
		"queue_size", dispatcherConfig.QueueSize,
		"endpoint_url", dispatcherConfig.EndpointURL)

	dispatcher := notification.NewDispatcher(dispatcherConfig, profilePostgres.NewProfileRepository(gormDB), lg)

	eventBus := events.NewEventBus(lg)
	eventBus.Subscribe(events.EventTypeComplaintStatusChanged, dispatcher.HandleStatusChanged)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("notification worker is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	lg.Info("received signal, shutting down notification worker", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	shutdownDone := make(chan struct{})
	go func() {
		eventBus.Wait()
		dispatcher.Shutdown()
		close(shutdownDone)
	}()

	select {
	case <-shutdownDone:
		lg.Info("notification worker pool shutdown complete")
	case <-ctx.Done():
		lg.Warn("shutdown timeout reached, forcing exit")
	}
}

func startEventWorker() {
	_, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)
	eventBus.Subscribe(events.EventTypeComplaintStatusChanged, logEvent(lg))

	lg.Info("event bus worker started. Waiting for events...")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	lg.Info("event bus is running. Press Ctrl+C to stop.")

	sig := <-sigChan
	lg.Info("received signal, shutting down event bus", "signal", sig)
	eventBus.Wait()
	lg.Info("event bus shutdown complete")
}

func logEvent(lg *slog.Logger) events.Handler {
	return func(ctx context.Context, event events.Event) error {
		lg.Info("received event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"payload", event.Payload())
		return nil
	}
}

func getStringFlag(flagValue, configValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return configValue
}

func getIntFlag(flagValue, configValue int) int {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	notificationWorkerCmd.Flags().IntVar(&maxWorkers, "max-workers", 0, "Maximum number of workers (overrides config)")
	notificationWorkerCmd.Flags().IntVar(&queueSize, "queue-size", 0, "Job queue buffer size (overrides config)")
	notificationWorkerCmd.Flags().StringVar(&endpointURL, "endpoint-url", "", "Notification endpoint URL (overrides config)")

	workerCmd.AddCommand(notificationWorkerCmd)
	workerCmd.AddCommand(eventWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
