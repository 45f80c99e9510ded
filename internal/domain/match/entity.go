// Package match содержит доменную модель жизненного цикла матчей BuddyHub.
// Запрос на матч — направленное предложение одного пользователя другому;
// принятый запрос порождает Connection — постоянную симметричную связь.
//
// Жизненный цикл: pending → accepted (терминальный, создаёт Connection)
// или pending → rejected (терминальный). Из терминальных статусов
// переходов нет.
package match

import (
	"errors"
	"fmt"
	"time"

	"github.com/lora213/buddyhub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// RequestStatus определяет статус запроса на матч.
type RequestStatus string

const (
	// RequestStatusPending - ожидает ответа получателя.
	RequestStatusPending RequestStatus = "pending"

	// RequestStatusAccepted - получатель принял (создана Connection).
	RequestStatusAccepted RequestStatus = "accepted"

	// RequestStatusRejected - получатель отклонил (окончательно).
	RequestStatusRejected RequestStatus = "rejected"
)

// IsValid проверяет корректность статуса.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusAccepted, RequestStatusRejected:
		return true
	default:
		return false
	}
}

// IsPending возвращает true, если запрос ожидает ответа.
func (s RequestStatus) IsPending() bool {
	return s == RequestStatusPending
}

// IsFinal возвращает true, если статус терминальный.
func (s RequestStatus) IsFinal() bool {
	return s == RequestStatusAccepted || s == RequestStatusRejected
}

// String возвращает строковое представление.
func (s RequestStatus) String() string {
	return string(s)
}

// Direction определяет направление существующего запроса
// относительно наблюдателя.
type Direction string

const (
	// DirectionSent - наблюдатель отправил запрос.
	DirectionSent Direction = "sent"

	// DirectionReceived - наблюдатель получил запрос.
	DirectionReceived Direction = "received"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFLICT ERROR
// Ошибка дубликата несёт статус и направление существующего запроса,
// чтобы вызывающая сторона могла показать "уже в ожидании" и т.п.
// ══════════════════════════════════════════════════════════════════════════════

// ConflictError - между парой пользователей уже существует запрос.
type ConflictError struct {
	// ExistingID - ID существующего запроса.
	ExistingID string

	// Status - статус существующего запроса.
	Status RequestStatus

	// Direction - направление относительно отправителя нового запроса.
	Direction Direction
}

// Error реализует интерфейс error.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("match request already exists between this pair (status: %s, direction: %s)", e.Status, e.Direction)
}

// Is сопоставляет ConflictError с базовой ошибкой дубликата.
func (e *ConflictError) Is(target error) bool {
	return errors.Is(shared.ErrAlreadyExists, target)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY: MATCH REQUEST
// ══════════════════════════════════════════════════════════════════════════════

// Request - направленный запрос на матч.
// Инвариант: для любой неупорядоченной пары {A,B} существует не более
// одного запроса — уникальность обеспечивается хранилищем по канонической
// паре (см. Repository.CreateIfAbsent), а не проверкой перед вставкой.
type Request struct {
	// ID - уникальный идентификатор запроса (UUID).
	ID string

	// SenderID - кто отправил запрос.
	SenderID shared.UserID

	// ReceiverID - кто получил запрос.
	ReceiverID shared.UserID

	// CompatibilityScore - оценка совместимости на момент отправки (0-100).
	CompatibilityScore int

	// MatchReason - сгенерированное объяснение подбора.
	MatchReason string

	// Status - текущий статус запроса.
	Status RequestStatus

	// CreatedAt - когда запрос создан.
	CreatedAt time.Time

	// UpdatedAt - когда запрос обновлён.
	UpdatedAt time.Time
}

// NewRequestParams параметры для создания запроса.
type NewRequestParams struct {
	ID                 string
	SenderID           shared.UserID
	ReceiverID         shared.UserID
	CompatibilityScore int
	MatchReason        string
}

// NewRequest создаёт новый запрос на матч в статусе pending.
func NewRequest(params NewRequestParams) (*Request, error) {
	if params.ID == "" {
		return nil, errors.New("match request id is required")
	}

	if !params.SenderID.IsValid() {
		return nil, shared.ErrInvalidID
	}

	if !params.ReceiverID.IsValid() {
		return nil, shared.ErrInvalidID
	}

	if params.SenderID == params.ReceiverID {
		return nil, shared.ErrSelfMatchRequest
	}

	if params.CompatibilityScore < 0 || params.CompatibilityScore > 100 {
		return nil, shared.ErrValueOutOfRange
	}

	now := time.Now().UTC()

	return &Request{
		ID:                 params.ID,
		SenderID:           params.SenderID,
		ReceiverID:         params.ReceiverID,
		CompatibilityScore: params.CompatibilityScore,
		MatchReason:        params.MatchReason,
		Status:             RequestStatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// Accept принимает запрос. Принять может только получатель,
// и только pending-запрос.
func (r *Request) Accept(actor shared.UserID) error {
	if actor != r.ReceiverID {
		return shared.ErrNotRequestReceiver
	}

	if !r.Status.IsPending() {
		return shared.ErrRequestNotPending
	}

	r.Status = RequestStatusAccepted
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Reject отклоняет запрос. Отклонить может только получатель,
// и только pending-запрос. Отклонение окончательно.
func (r *Request) Reject(actor shared.UserID) error {
	if actor != r.ReceiverID {
		return shared.ErrNotRequestReceiver
	}

	if !r.Status.IsPending() {
		return shared.ErrRequestNotPending
	}

	r.Status = RequestStatusRejected
	r.UpdatedAt = time.Now().UTC()
	return nil
}

// Pair возвращает каноническую пару участников.
func (r *Request) Pair() shared.Pair {
	return shared.NewPair(r.SenderID, r.ReceiverID)
}

// InvolvesUser проверяет, участвует ли пользователь в запросе.
func (r *Request) InvolvesUser(userID shared.UserID) bool {
	return r.SenderID == userID || r.ReceiverID == userID
}

// DirectionFor возвращает направление запроса относительно наблюдателя.
func (r *Request) DirectionFor(viewer shared.UserID) Direction {
	if r.SenderID == viewer {
		return DirectionSent
	}
	return DirectionReceived
}

// ConflictFor строит ConflictError для пользователя, пытающегося
// отправить новый запрос при существующем.
func (r *Request) ConflictFor(sender shared.UserID) *ConflictError {
	return &ConflictError{
		ExistingID: r.ID,
		Status:     r.Status,
		Direction:  r.DirectionFor(sender),
	}
}

// String возвращает строковое представление для логирования.
func (r *Request) String() string {
	return fmt.Sprintf("Request{ID: %s, %s -> %s, Status: %s}", r.ID, r.SenderID, r.ReceiverID, r.Status)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY: CONNECTION
// Постоянная симметричная связь. Неизменяема после создания.
// ══════════════════════════════════════════════════════════════════════════════

// Connection - сформированная связь между двумя пользователями.
// Создаётся ровно один раз на принятый запрос. MatchRequestID опционален:
// связь, синтезированная напрямую (без формального запроса), его не имеет.
type Connection struct {
	// ID - уникальный идентификатор связи (UUID).
	ID string

	// User1ID - первый участник (меньший ID канонической пары).
	User1ID shared.UserID

	// User2ID - второй участник (больший ID канонической пары).
	User2ID shared.UserID

	// MatchRequestID - запрос, породивший связь (nil для синтезированных).
	MatchRequestID *string

	// CompatibilityScore - оценка совместимости на момент создания (0-100).
	CompatibilityScore int

	// MatchDetails - снимок результата расчёта совместимости (JSON).
	// Хранится как сырой снимок: результат эфемерен и пересчитывается
	// при каждом подборе, здесь он фиксируется для истории.
	MatchDetails []byte

	// CreatedAt - когда связь создана.
	CreatedAt time.Time
}

// NewConnectionParams параметры для создания связи.
type NewConnectionParams struct {
	ID                 string
	User1ID            shared.UserID
	User2ID            shared.UserID
	MatchRequestID     *string
	CompatibilityScore int
	MatchDetails       []byte
}

// NewConnection создаёт новую связь. Участники нормализуются
// в канонический порядок пары.
func NewConnection(params NewConnectionParams) (*Connection, error) {
	if params.ID == "" {
		return nil, errors.New("connection id is required")
	}

	if !params.User1ID.IsValid() || !params.User2ID.IsValid() {
		return nil, shared.ErrInvalidID
	}

	if params.User1ID == params.User2ID {
		return nil, shared.ErrSelfMatchRequest
	}

	pair := shared.NewPair(params.User1ID, params.User2ID)

	return &Connection{
		ID:                 params.ID,
		User1ID:            pair.Low,
		User2ID:            pair.High,
		MatchRequestID:     params.MatchRequestID,
		CompatibilityScore: params.CompatibilityScore,
		MatchDetails:       params.MatchDetails,
		CreatedAt:          time.Now().UTC(),
	}, nil
}

// FromAcceptedRequest создаёт связь из принятого запроса.
func FromAcceptedRequest(id string, req *Request, details []byte) (*Connection, error) {
	if req.Status != RequestStatusAccepted {
		return nil, shared.ErrRequestNotPending
	}

	requestID := req.ID
	return NewConnection(NewConnectionParams{
		ID:                 id,
		User1ID:            req.SenderID,
		User2ID:            req.ReceiverID,
		MatchRequestID:     &requestID,
		CompatibilityScore: req.CompatibilityScore,
		MatchDetails:       details,
	})
}

// InvolvesUser проверяет, участвует ли пользователь в связи.
func (c *Connection) InvolvesUser(userID shared.UserID) bool {
	return c.User1ID == userID || c.User2ID == userID
}

// OtherUser возвращает ID другого участника связи.
func (c *Connection) OtherUser(userID shared.UserID) shared.UserID {
	if c.User1ID == userID {
		return c.User2ID
	}
	return c.User1ID
}

// Pair возвращает каноническую пару участников.
func (c *Connection) Pair() shared.Pair {
	return shared.Pair{Low: c.User1ID, High: c.User2ID}
}

// String возвращает строковое представление для логирования.
func (c *Connection) String() string {
	return fmt.Sprintf("Connection{ID: %s, %s <-> %s}", c.ID, c.User1ID, c.User2ID)
}
