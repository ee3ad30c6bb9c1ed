package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	complaintPostgres "github.com/frahmantamala/campus-complaints/internal/complaint/postgres"
	"github.com/frahmantamala/campus-complaints/internal/core/events"
	"github.com/frahmantamala/campus-complaints/internal/notification"
	profilePostgres "github.com/frahmantamala/campus-complaints/internal/profile/postgres"
	"github.com/frahmantamala/campus-complaints/pkg/logger"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Manage events: publish test events and replay complaint status changes`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event to the event bus for testing and debugging`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		publishTestEvent(args[0])
	},
}

var notifyEventCmd = &cobra.Command{
	Use:   "notify [complaint-id]",
	Short: "Send the status-change notification for a complaint",
	Long:  `Load a complaint and deliver its status-change notification to the configured endpoint`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return notifyStatusChange(cmd.Context(), args[0])
	},
}

var (
	eventData string
	oldStatus string
)

func publishTestEvent(eventType string) {
	lg := logger.LoggerWrapper()

	eventBus := events.NewEventBus(lg)
	eventBus.Subscribe(eventType, logEvent(lg))

	testEvent := events.BaseEvent{
		ID:        fmt.Sprintf("test-%d", time.Now().Unix()),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"message": eventData,
			"source":  "cli-command",
		},
	}

	lg.Info("publishing test event", "event_type", eventType, "event_id", testEvent.ID)

	ctx := context.Background()
	if err := eventBus.Publish(ctx, testEvent); err != nil {
		lg.Error("failed to publish event", "error", err)
		return
	}

	eventBus.Wait()
	lg.Info("test event published successfully")
}

func notifyStatusChange(ctx context.Context, complaintID string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	gormDB, err := initGorm(db)
	if err != nil {
		return err
	}

	row, err := complaintPostgres.NewComplaintRepository(gormDB).GetByID(ctx, complaintID)
	if err != nil {
		return fmt.Errorf("load complaint %s: %w", complaintID, err)
	}

	owner, err := profilePostgres.NewProfileRepository(gormDB).GetByUserID(ctx, row.UserID)
	if err != nil {
		return err
	}
	if owner == nil {
		fmt.Fprintf(os.Stderr, "complaint %s has no owner profile; nothing to send\n", complaintID)
		return nil
	}

	req := notification.Request{
		ComplaintID:    row.ID,
		OldStatus:      oldStatus,
		NewStatus:      row.Status,
		UserEmail:      owner.Email,
		ComplaintTitle: row.Title,
	}
	if row.Resolution != nil {
		req.Resolution = *row.Resolution
	}

	dispatcher := notification.NewDispatcher(notificationConfig(cfg.Notification), nil, lg)
	defer dispatcher.Shutdown()

	if err := dispatcher.Send(ctx, req); err != nil {
		return err
	}
	lg.Info("notification sent", "complaint_id", row.ID, "user_email", owner.Email)
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")
	notifyEventCmd.Flags().StringVar(&oldStatus, "old-status", "", "Status before the change")
	notifyEventCmd.Flags().StringVar(&endpointURL, "endpoint-url", "", "Notification endpoint URL (overrides config)")

	eventCmd.AddCommand(publishEventCmd)
	eventCmd.AddCommand(notifyEventCmd)

	rootCmd.AddCommand(eventCmd)
}
