// Package notification содержит доменную модель уведомлений BuddyHub.
// Уведомления создаются как побочный эффект переходов запроса на матч.
// Философия: сбой доставки уведомления никогда не ломает основную
// операцию — единственная мутация после создания — отметка о прочтении.
package notification

import (
	"errors"
	"fmt"
	"time"

	"github.com/lora213/buddyhub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NOTIFICATION TYPE
// ══════════════════════════════════════════════════════════════════════════════

// Type определяет тип уведомления.
type Type string

const (
	// TypeMatchRequest - получен новый запрос на матч.
	// "🤝 Alex хочет стать твоим бадди!"
	TypeMatchRequest Type = "match_request"

	// TypeMatchConfirmed - запрос принят, связь создана.
	// "🎉 Вы с Alex теперь бадди!"
	TypeMatchConfirmed Type = "match_confirmed"

	// TypeMatchRejected - запрос отклонён.
	TypeMatchRejected Type = "match_rejected"
)

// IsValid проверяет корректность типа.
func (t Type) IsValid() bool {
	switch t {
	case TypeMatchRequest, TypeMatchConfirmed, TypeMatchRejected:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление типа.
func (t Type) String() string {
	return string(t)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY: NOTIFICATION
// ══════════════════════════════════════════════════════════════════════════════

// Notification - уведомление пользователя.
type Notification struct {
	// ID - уникальный идентификатор уведомления (UUID).
	ID string

	// UserID - получатель уведомления.
	UserID shared.UserID

	// Type - тип уведомления.
	Type Type

	// Title - заголовок.
	Title string

	// Message - текст уведомления.
	Message string

	// RelatedID - ID связанной сущности (запрос или связь).
	RelatedID string

	// IsRead - прочитано ли уведомление.
	IsRead bool

	// CreatedAt - когда уведомление создано.
	CreatedAt time.Time
}

// NewNotificationParams параметры для создания уведомления.
type NewNotificationParams struct {
	ID        string
	UserID    shared.UserID
	Type      Type
	Title     string
	Message   string
	RelatedID string
}

// NewNotification создаёт новое непрочитанное уведомление.
func NewNotification(params NewNotificationParams) (*Notification, error) {
	if params.ID == "" {
		return nil, errors.New("notification id is required")
	}

	if !params.UserID.IsValid() {
		return nil, shared.ErrInvalidID
	}

	if !params.Type.IsValid() {
		return nil, shared.ErrInvalidNotification
	}

	if params.Title == "" {
		return nil, errors.New("notification title is required")
	}

	return &Notification{
		ID:        params.ID,
		UserID:    params.UserID,
		Type:      params.Type,
		Title:     params.Title,
		Message:   params.Message,
		RelatedID: params.RelatedID,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// MarkRead отмечает уведомление прочитанным. Идемпотентно.
func (n *Notification) MarkRead() {
	n.IsRead = true
}

// String возвращает строковое представление для логирования.
func (n *Notification) String() string {
	return fmt.Sprintf("Notification{ID: %s, User: %s, Type: %s, Read: %t}", n.ID, n.UserID, n.Type, n.IsRead)
}

// ══════════════════════════════════════════════════════════════════════════════
// TEMPLATES
// Детерминированные тексты для переходов жизненного цикла матча.
// ══════════════════════════════════════════════════════════════════════════════

// ForMatchRequest строит уведомление получателю о новом запросе.
func ForMatchRequest(id string, receiverID shared.UserID, senderName, requestID string, score int) (*Notification, error) {
	return NewNotification(NewNotificationParams{
		ID:        id,
		UserID:    receiverID,
		Type:      TypeMatchRequest,
		Title:     "New match request",
		Message:   fmt.Sprintf("%s wants to connect with you (%d%% compatibility)", senderName, score),
		RelatedID: requestID,
	})
}

// ForMatchConfirmed строит уведомление участнику о созданной связи.
func ForMatchConfirmed(id string, userID shared.UserID, partnerName, connectionID string) (*Notification, error) {
	return NewNotification(NewNotificationParams{
		ID:        id,
		UserID:    userID,
		Type:      TypeMatchConfirmed,
		Title:     "Match confirmed",
		Message:   fmt.Sprintf("You and %s are now connected", partnerName),
		RelatedID: connectionID,
	})
}

// ForMatchRejected строит уведомление отправителю об отклонении.
func ForMatchRejected(id string, senderID shared.UserID, requestID string) (*Notification, error) {
	return NewNotification(NewNotificationParams{
		ID:        id,
		UserID:    senderID,
		Type:      TypeMatchRejected,
		Title:     "Match request declined",
		Message:   "Your match request was declined",
		RelatedID: requestID,
	})
}
