package notification

import (
	"context"

	"github.com/lora213/buddyhub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Реализация находится в infrastructure/persistence/postgres.
// ══════════════════════════════════════════════════════════════════════════════

// ListOptions - фильтры для выборки уведомлений.
type ListOptions struct {
	// UnreadOnly - вернуть только непрочитанные.
	UnreadOnly bool

	// Pagination - окно выборки.
	Pagination shared.Pagination
}

// Repository определяет операции над уведомлениями.
type Repository interface {
	// Create сохраняет уведомление.
	Create(ctx context.Context, n *Notification) error

	// GetByID возвращает уведомление по ID.
	// Возвращает ErrNotificationNotFound, если уведомление не найдено.
	GetByID(ctx context.Context, id string) (*Notification, error)

	// ListForUser возвращает уведомления пользователя, новые первыми.
	ListForUser(ctx context.Context, userID shared.UserID, opts ListOptions) ([]*Notification, error)

	// CountUnread возвращает количество непрочитанных уведомлений.
	CountUnread(ctx context.Context, userID shared.UserID) (int, error)

	// MarkRead отмечает уведомление прочитанным.
	// Возвращает ErrNotificationNotFound, если уведомление не найдено.
	MarkRead(ctx context.Context, id string, userID shared.UserID) error

	// MarkAllRead отмечает все уведомления пользователя прочитанными.
	// Возвращает количество обновлённых записей.
	MarkAllRead(ctx context.Context, userID shared.UserID) (int, error)
}
