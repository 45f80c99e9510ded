package query

import (
	"context"
	"time"

	"github.com/lora213/buddyhub/internal/domain/match"
	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST MATCH REQUESTS QUERY
// Возвращает входящие и исходящие запросы пользователя с публичными
// профилями второй стороны.
// ══════════════════════════════════════════════════════════════════════════════

// ListMatchRequestsQuery содержит параметры выборки запросов.
type ListMatchRequestsQuery struct {
	// UserID - пользователь, чьи запросы выбираем.
	UserID string

	// Direction - "sent", "received" или пустая строка (обе стороны).
	Direction match.Direction

	// Status - фильтр по статусу (пустой = все).
	Status match.RequestStatus

	// Pagination - окно выборки.
	Pagination shared.Pagination
}

// Validate проверяет корректность параметров.
func (q *ListMatchRequestsQuery) Validate() error {
	if q.UserID == "" {
		return shared.NewDomainError("match", "ListRequests", shared.ErrEmptyValue, "user_id is required")
	}
	if q.Status != "" && !q.Status.IsValid() {
		return shared.NewDomainError("match", "ListRequests", shared.ErrInvalidInput, "invalid status filter")
	}
	q.Pagination = q.Pagination.Normalize(20, 100)
	return nil
}

// MatchRequestDTO - запрос на матч с профилем второй стороны.
type MatchRequestDTO struct {
	// ID - идентификатор запроса.
	ID string `json:"id"`

	// Direction - направление относительно запрашивающего.
	Direction match.Direction `json:"direction"`

	// OtherUser - публичный профиль второй стороны.
	OtherUser PublicProfileDTO `json:"other_user"`

	// CompatibilityScore - оценка на момент отправки.
	CompatibilityScore int `json:"compatibility_score"`

	// MatchReason - объяснение подбора.
	MatchReason string `json:"match_reason"`

	// Status - текущий статус.
	Status match.RequestStatus `json:"status"`

	// CreatedAt - когда отправлен.
	CreatedAt time.Time `json:"created_at"`
}

// PublicProfileDTO - публичный профиль пользователя в ответах API.
type PublicProfileDTO struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	GitHubUsername string `json:"github_username,omitempty"`
	Bio            string `json:"bio,omitempty"`
}

// ListMatchRequestsResult - результат выборки запросов.
type ListMatchRequestsResult struct {
	// Requests - запросы, новые первыми.
	Requests []MatchRequestDTO `json:"requests"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ListMatchRequestsHandler handles the ListMatchRequestsQuery.
type ListMatchRequestsHandler struct {
	userRepo    user.Repository
	requestRepo match.RequestRepository
}

// NewListMatchRequestsHandler creates a new ListMatchRequestsHandler.
func NewListMatchRequestsHandler(userRepo user.Repository, requestRepo match.RequestRepository) *ListMatchRequestsHandler {
	return &ListMatchRequestsHandler{
		userRepo:    userRepo,
		requestRepo: requestRepo,
	}
}

// Handle executes the list match requests query.
func (h *ListMatchRequestsHandler) Handle(ctx context.Context, q ListMatchRequestsQuery) (*ListMatchRequestsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	userID := shared.UserID(q.UserID)
	opts := match.RequestListOptions{Status: q.Status, Pagination: q.Pagination}

	var requests []*match.Request

	if q.Direction == "" || q.Direction == match.DirectionSent {
		sent, err := h.requestRepo.ListSent(ctx, userID, opts)
		if err != nil {
			return nil, err
		}
		requests = append(requests, sent...)
	}

	if q.Direction == "" || q.Direction == match.DirectionReceived {
		received, err := h.requestRepo.ListReceived(ctx, userID, opts)
		if err != nil {
			return nil, err
		}
		requests = append(requests, received...)
	}

	otherIDs := make([]shared.UserID, 0, len(requests))
	for _, req := range requests {
		if req.SenderID == userID {
			otherIDs = append(otherIDs, req.ReceiverID)
		} else {
			otherIDs = append(otherIDs, req.SenderID)
		}
	}

	profiles, err := h.userRepo.GetPublicProfiles(ctx, otherIDs)
	if err != nil {
		return nil, err
	}

	dtos := make([]MatchRequestDTO, 0, len(requests))
	for _, req := range requests {
		otherID := req.ReceiverID
		if req.ReceiverID == userID {
			otherID = req.SenderID
		}

		dtos = append(dtos, MatchRequestDTO{
			ID:                 req.ID,
			Direction:          req.DirectionFor(userID),
			OtherUser:          toProfileDTO(profiles[otherID]),
			CompatibilityScore: req.CompatibilityScore,
			MatchReason:        req.MatchReason,
			Status:             req.Status,
			CreatedAt:          req.CreatedAt,
		})
	}

	return &ListMatchRequestsResult{Requests: dtos}, nil
}

func toProfileDTO(p user.PublicProfile) PublicProfileDTO {
	return PublicProfileDTO{
		ID:             string(p.ID),
		FullName:       p.FullName,
		Email:          string(p.Email),
		GitHubUsername: p.GitHubUsername,
		Bio:            p.Bio,
	}
}
