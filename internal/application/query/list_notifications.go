package query

import (
	"context"
	"time"

	"github.com/lora213/buddyhub/internal/domain/notification"
	"github.com/lora213/buddyhub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST NOTIFICATIONS QUERY
// ══════════════════════════════════════════════════════════════════════════════

// ListNotificationsQuery содержит параметры выборки уведомлений.
type ListNotificationsQuery struct {
	// UserID - получатель уведомлений.
	UserID string

	// UnreadOnly - вернуть только непрочитанные.
	UnreadOnly bool

	// Pagination - окно выборки.
	Pagination shared.Pagination
}

// Validate проверяет корректность параметров.
func (q *ListNotificationsQuery) Validate() error {
	if q.UserID == "" {
		return shared.NewDomainError("notification", "List", shared.ErrEmptyValue, "user_id is required")
	}
	q.Pagination = q.Pagination.Normalize(20, 100)
	return nil
}

// NotificationDTO - уведомление в ответах API.
type NotificationDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	RelatedID string    `json:"related_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// ListNotificationsResult - результат выборки уведомлений.
type ListNotificationsResult struct {
	// Notifications - уведомления, новые первыми.
	Notifications []NotificationDTO `json:"notifications"`

	// UnreadCount - количество непрочитанных.
	UnreadCount int `json:"unread_count"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ListNotificationsHandler handles the ListNotificationsQuery.
type ListNotificationsHandler struct {
	notificationRepo notification.Repository
}

// NewListNotificationsHandler creates a new ListNotificationsHandler.
func NewListNotificationsHandler(notificationRepo notification.Repository) *ListNotificationsHandler {
	return &ListNotificationsHandler{notificationRepo: notificationRepo}
}

// Handle executes the list notifications query.
func (h *ListNotificationsHandler) Handle(ctx context.Context, q ListNotificationsQuery) (*ListNotificationsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	userID := shared.UserID(q.UserID)

	notifications, err := h.notificationRepo.ListForUser(ctx, userID, notification.ListOptions{
		UnreadOnly: q.UnreadOnly,
		Pagination: q.Pagination,
	})
	if err != nil {
		return nil, err
	}

	unread, err := h.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		dtos = append(dtos, NotificationDTO{
			ID:        n.ID,
			Type:      n.Type.String(),
			Title:     n.Title,
			Message:   n.Message,
			RelatedID: n.RelatedID,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}

	return &ListNotificationsResult{Notifications: dtos, UnreadCount: unread}, nil
}
