package query

import (
	"context"
	"encoding/json"
	"time"

	"github.com/lora213/buddyhub/internal/domain/match"
	"github.com/lora213/buddyhub/internal/domain/matching"
	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST CONNECTIONS QUERY
// Возвращает сформированные связи пользователя с профилем напарника
// и снимком расчёта совместимости на момент создания связи.
// ══════════════════════════════════════════════════════════════════════════════

// ListConnectionsQuery содержит параметры выборки связей.
type ListConnectionsQuery struct {
	// UserID - пользователь, чьи связи выбираем.
	UserID string

	// Pagination - окно выборки.
	Pagination shared.Pagination
}

// Validate проверяет корректность параметров.
func (q *ListConnectionsQuery) Validate() error {
	if q.UserID == "" {
		return shared.NewDomainError("match", "ListConnections", shared.ErrEmptyValue, "user_id is required")
	}
	q.Pagination = q.Pagination.Normalize(20, 100)
	return nil
}

// ConnectionDTO - связь с профилем напарника.
type ConnectionDTO struct {
	// ID - идентификатор связи.
	ID string `json:"id"`

	// Partner - публичный профиль второго участника.
	Partner PublicProfileDTO `json:"partner"`

	// CompatibilityScore - оценка на момент создания связи.
	CompatibilityScore int `json:"compatibility_score"`

	// MatchDetails - снимок расчёта (если сохранился).
	MatchDetails *matching.Result `json:"match_details,omitempty"`

	// MatchRequestID - запрос, породивший связь (если был).
	MatchRequestID *string `json:"match_request_id,omitempty"`

	// CreatedAt - когда связь создана.
	CreatedAt time.Time `json:"created_at"`
}

// ListConnectionsResult - результат выборки связей.
type ListConnectionsResult struct {
	// Connections - связи, новые первыми.
	Connections []ConnectionDTO `json:"connections"`

	// Total - общее количество связей пользователя.
	Total int `json:"total"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ListConnectionsHandler handles the ListConnectionsQuery.
type ListConnectionsHandler struct {
	userRepo       user.Repository
	connectionRepo match.ConnectionRepository
}

// NewListConnectionsHandler creates a new ListConnectionsHandler.
func NewListConnectionsHandler(userRepo user.Repository, connectionRepo match.ConnectionRepository) *ListConnectionsHandler {
	return &ListConnectionsHandler{
		userRepo:       userRepo,
		connectionRepo: connectionRepo,
	}
}

// Handle executes the list connections query.
func (h *ListConnectionsHandler) Handle(ctx context.Context, q ListConnectionsQuery) (*ListConnectionsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	userID := shared.UserID(q.UserID)

	connections, err := h.connectionRepo.ListForUser(ctx, userID, q.Pagination)
	if err != nil {
		return nil, err
	}

	total, err := h.connectionRepo.CountForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	partnerIDs := make([]shared.UserID, 0, len(connections))
	for _, conn := range connections {
		partnerIDs = append(partnerIDs, conn.OtherUser(userID))
	}

	profiles, err := h.userRepo.GetPublicProfiles(ctx, partnerIDs)
	if err != nil {
		return nil, err
	}

	dtos := make([]ConnectionDTO, 0, len(connections))
	for _, conn := range connections {
		dto := ConnectionDTO{
			ID:                 conn.ID,
			Partner:            toProfileDTO(profiles[conn.OtherUser(userID)]),
			CompatibilityScore: conn.CompatibilityScore,
			MatchRequestID:     conn.MatchRequestID,
			CreatedAt:          conn.CreatedAt,
		}

		// Снимок может отсутствовать или быть нечитаемым у старых связей.
		if len(conn.MatchDetails) > 0 {
			var details matching.Result
			if err := json.Unmarshal(conn.MatchDetails, &details); err == nil {
				dto.MatchDetails = &details
			}
		}

		dtos = append(dtos, dto)
	}

	return &ListConnectionsResult{Connections: dtos, Total: total}, nil
}
