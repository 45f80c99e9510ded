package postgres

import (
	"context"
	"fmt"

	"github.com/lora213/buddyhub/internal/domain/notification"
	"github.com/lora213/buddyhub/internal/domain/shared"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// NotificationRepository implements notification.Repository for PostgreSQL.
type NotificationRepository struct {
	conn *Connection
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(conn *Connection) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

// Create saves a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	query := `
		INSERT INTO notifications (
			id, user_id, type, title, message, related_id, is_read, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	var relatedID *string
	if n.RelatedID != "" {
		relatedID = &n.RelatedID
	}

	_, err := r.conn.Exec(ctx, query,
		n.ID,
		string(n.UserID),
		n.Type.String(),
		n.Title,
		n.Message,
		relatedID,
		n.IsRead,
		n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// GetByID returns a notification by ID.
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*notification.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, related_id, is_read, created_at
		FROM notifications
		WHERE id = $1
	`

	row := r.conn.QueryRow(ctx, query, id)
	return r.scanNotification(row)
}

// ListForUser returns a user's notifications, newest first.
func (r *NotificationRepository) ListForUser(ctx context.Context, userID shared.UserID, opts notification.ListOptions) ([]*notification.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, related_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1
	`

	if opts.UnreadOnly {
		query += " AND is_read = FALSE"
	}

	query += " ORDER BY created_at DESC LIMIT $2 OFFSET $3"

	rows, err := r.conn.Query(ctx, query, string(userID), opts.Pagination.Limit, opts.Pagination.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	notifications := make([]*notification.Notification, 0)
	for rows.Next() {
		n, err := scanNotificationRow(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// CountUnread returns the number of unread notifications of a user.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID shared.UserID) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx,
		"SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE",
		string(userID),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks a notification as read. The user filter makes marking
// someone else's notification indistinguishable from a missing one.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, userID shared.UserID) error {
	result, err := r.conn.Exec(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2",
		id, string(userID),
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	if result.RowsAffected() == 0 {
		return shared.ErrNotificationNotFound
	}

	return nil
}

// MarkAllRead marks all notifications of a user as read and returns
// the number of updated rows.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID shared.UserID) (int, error) {
	result, err := r.conn.Exec(ctx,
		"UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE",
		string(userID),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return int(result.RowsAffected()), nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan Helpers
// ─────────────────────────────────────────────────────────────────────────────

func (r *NotificationRepository) scanNotification(row pgx.Row) (*notification.Notification, error) {
	n, err := scanNotificationRow(row)
	if IsNoRows(err) {
		return nil, shared.ErrNotificationNotFound
	}
	return n, err
}

func scanNotificationRow(row pgx.Row) (*notification.Notification, error) {
	var n notification.Notification
	var userID, typ string
	var relatedID *string

	err := row.Scan(
		&n.ID,
		&userID,
		&typ,
		&n.Title,
		&n.Message,
		&relatedID,
		&n.IsRead,
		&n.CreatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan notification: %w", err)
	}

	n.UserID = shared.UserID(userID)
	n.Type = notification.Type(typ)
	if relatedID != nil {
		n.RelatedID = *relatedID
	}

	return &n, nil
}
