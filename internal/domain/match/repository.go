package match

import (
	"context"

	"github.com/lora213/buddyhub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACES
// Реализации находятся в infrastructure/persistence/postgres.
// ══════════════════════════════════════════════════════════════════════════════

// RequestListOptions - фильтры для выборки запросов.
type RequestListOptions struct {
	// Status - фильтр по статусу (пустой = все).
	Status RequestStatus

	// Pagination - окно выборки.
	Pagination shared.Pagination
}

// RequestRepository определяет операции над запросами на матч.
type RequestRepository interface {
	// CreateIfAbsent атомарно вставляет запрос, если для его канонической
	// пары ещё нет ни одного запроса. Возвращает created=false без ошибки,
	// если запрос для пары уже существует (в любом статусе и направлении):
	// вызывающая сторона загружает существующий через GetByPair и решает,
	// авто-принять его или вернуть конфликт. Атомарность закрывает гонку
	// двойной отправки: проверка и вставка не разделены.
	CreateIfAbsent(ctx context.Context, req *Request) (created bool, err error)

	// GetByID возвращает запрос по ID.
	// Возвращает ErrMatchRequestNotFound, если запрос не найден.
	GetByID(ctx context.Context, id string) (*Request, error)

	// GetByPair возвращает запрос для неупорядоченной пары пользователей.
	// Возвращает ErrMatchRequestNotFound, если запроса нет.
	GetByPair(ctx context.Context, pair shared.Pair) (*Request, error)

	// UpdateStatus сохраняет переход статуса запроса.
	// Возвращает ErrMatchRequestNotFound, если запрос не найден.
	UpdateStatus(ctx context.Context, req *Request) error

	// ListSent возвращает запросы, отправленные пользователем.
	ListSent(ctx context.Context, senderID shared.UserID, opts RequestListOptions) ([]*Request, error)

	// ListReceived возвращает запросы, полученные пользователем.
	ListReceived(ctx context.Context, receiverID shared.UserID, opts RequestListOptions) ([]*Request, error)

	// ListPartnerIDs возвращает ID всех пользователей, с которыми у данного
	// пользователя есть запрос в любом статусе. Используется пост-фильтром
	// поиска матчей для исключения уже задействованных пар.
	ListPartnerIDs(ctx context.Context, userID shared.UserID) ([]shared.UserID, error)
}

// ConnectionRepository определяет операции над связями.
type ConnectionRepository interface {
	// Create создаёт связь.
	// Возвращает ErrConnectionExists, если связь для пары уже есть.
	Create(ctx context.Context, conn *Connection) error

	// GetByID возвращает связь по ID.
	// Возвращает ErrConnectionNotFound, если связь не найдена.
	GetByID(ctx context.Context, id string) (*Connection, error)

	// GetByPair возвращает связь для неупорядоченной пары.
	// Возвращает ErrConnectionNotFound, если связи нет.
	GetByPair(ctx context.Context, pair shared.Pair) (*Connection, error)

	// ListForUser возвращает все связи пользователя.
	ListForUser(ctx context.Context, userID shared.UserID, pagination shared.Pagination) ([]*Connection, error)

	// ListPartnerIDs возвращает ID всех пользователей, соединённых с данным.
	ListPartnerIDs(ctx context.Context, userID shared.UserID) ([]shared.UserID, error)

	// CountForUser возвращает количество связей пользователя.
	CountForUser(ctx context.Context, userID shared.UserID) (int, error)
}
