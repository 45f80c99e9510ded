package command

import (
	"context"
	"fmt"

	"github.com/lora213/buddyhub/internal/domain/notification"
	"github.com/lora213/buddyhub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// MARK NOTIFICATIONS COMMANDS
// ══════════════════════════════════════════════════════════════════════════════

// MarkNotificationReadCommand marks a single notification as read.
type MarkNotificationReadCommand struct {
	// NotificationID is the notification to mark.
	NotificationID string

	// UserID is the authenticated owner. Marking someone else's
	// notification is a not-found, never a hint that it exists.
	UserID string
}

// MarkAllNotificationsReadCommand marks all of a user's notifications as read.
type MarkAllNotificationsReadCommand struct {
	// UserID is the authenticated owner.
	UserID string
}

// MarkNotificationsResult contains the number of updated notifications.
type MarkNotificationsResult struct {
	Updated int
}

// MarkNotificationsHandler handles both mark-read commands.
type MarkNotificationsHandler struct {
	notificationRepo notification.Repository
}

// NewMarkNotificationsHandler creates a new MarkNotificationsHandler.
func NewMarkNotificationsHandler(notificationRepo notification.Repository) *MarkNotificationsHandler {
	return &MarkNotificationsHandler{notificationRepo: notificationRepo}
}

// HandleOne executes the single mark-read command.
func (h *MarkNotificationsHandler) HandleOne(ctx context.Context, cmd MarkNotificationReadCommand) (*MarkNotificationsResult, error) {
	if cmd.NotificationID == "" || cmd.UserID == "" {
		return nil, shared.NewDomainError("notification", "MarkRead", shared.ErrEmptyValue, "notification_id and user_id are required")
	}

	if err := h.notificationRepo.MarkRead(ctx, cmd.NotificationID, shared.UserID(cmd.UserID)); err != nil {
		return nil, fmt.Errorf("mark_notification: %w", err)
	}

	return &MarkNotificationsResult{Updated: 1}, nil
}

// HandleAll executes the mark-all-read command.
func (h *MarkNotificationsHandler) HandleAll(ctx context.Context, cmd MarkAllNotificationsReadCommand) (*MarkNotificationsResult, error) {
	if cmd.UserID == "" {
		return nil, shared.NewDomainError("notification", "MarkAllRead", shared.ErrEmptyValue, "user_id is required")
	}

	updated, err := h.notificationRepo.MarkAllRead(ctx, shared.UserID(cmd.UserID))
	if err != nil {
		return nil, fmt.Errorf("mark_notification: %w", err)
	}

	return &MarkNotificationsResult{Updated: updated}, nil
}
