package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"haul/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationSyncCompleted      NotificationType = "SYNC_COMPLETED"
	NotificationCorrectionsCreated NotificationType = "CORRECTIONS_CREATED"
	NotificationCorrectionsFailed  NotificationType = "CORRECTIONS_FAILED"
	NotificationQuarterLocked      NotificationType = "QUARTER_LOCKED"
	NotificationExportReady        NotificationType = "EXPORT_READY"
)

// Notification represents a notification to be sent.
type Notification struct {
	ID          string
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// NotificationService handles notification delivery.
type NotificationService struct {
	// In a real system, this would have:
	// - Push notification client (FCM, APNS)
	// - Email client (SendGrid)
	// - WebSocket connections for real-time
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyCorrectionsCreated notifies the user that corrective fuel-only
// records were synthesized.
func (s *NotificationService) NotifyCorrectionsCreated(ctx context.Context, userID string, quarter domain.Quarter, created, failed int) error {
	notification := Notification{
		Type:        NotificationCorrectionsCreated,
		RecipientID: userID,
		Title:       "IFTA Corrections Created",
		Message:     fmt.Sprintf("%d corrective fuel record(s) created for %s, %d failed", created, quarter, failed),
		Data: map[string]interface{}{
			"quarter": quarter.String(),
			"created": created,
			"failed":  failed,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyQuarterLocked notifies the user that a quarter was closed for filing.
func (s *NotificationService) NotifyQuarterLocked(ctx context.Context, userID string, quarter domain.Quarter) error {
	notification := Notification{
		Type:        NotificationQuarterLocked,
		RecipientID: userID,
		Title:       "Quarter Locked",
		Message:     fmt.Sprintf("Quarter %s is now closed for filing", quarter),
		Data: map[string]interface{}{
			"quarter": quarter.String(),
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// NotifyExportReady notifies the user that an export was generated.
func (s *NotificationService) NotifyExportReady(ctx context.Context, userID string, quarter domain.Quarter, filename string) error {
	notification := Notification{
		Type:        NotificationExportReady,
		RecipientID: userID,
		Title:       "IFTA Export Ready",
		Message:     fmt.Sprintf("Export %s for %s is ready to download", filename, quarter),
		Data: map[string]interface{}{
			"quarter":  quarter.String(),
			"filename": filename,
		},
		CreatedAt: time.Now(),
	}
	return s.send(ctx, notification)
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	// In a real implementation, this would:
	// 1. Store notification in database
	// 2. Send push notification via FCM/APNS
	// 3. Send email if enabled
	// 4. Broadcast via WebSocket for real-time updates

	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Title=%s, Message=%s",
		notification.Type, notification.RecipientID, notification.Title, notification.Message)

	return nil
}
