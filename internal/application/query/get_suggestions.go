package query

import (
	"context"
	"sort"
	"time"

	"github.com/lora213/buddyhub/internal/domain/match"
	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET SUGGESTIONS QUERY
// Производное представление "мои матчи": исходящие pending-запросы плюс
// сформированные связи. Отдельной таблицы матчей нет - представление
// каждый раз собирается из двух источников.
// ══════════════════════════════════════════════════════════════════════════════

// SuggestionState - состояние элемента представления.
type SuggestionState string

const (
	// SuggestionStatePending - запрос отправлен, ответа нет.
	SuggestionStatePending SuggestionState = "pending"

	// SuggestionStateConnected - связь сформирована.
	SuggestionStateConnected SuggestionState = "connected"
)

// GetSuggestionsQuery содержит параметры выборки представления.
type GetSuggestionsQuery struct {
	// UserID - пользователь, чьё представление собираем.
	UserID string

	// Pagination - окно выборки.
	Pagination shared.Pagination
}

// Validate проверяет корректность параметров.
func (q *GetSuggestionsQuery) Validate() error {
	if q.UserID == "" {
		return shared.NewDomainError("match", "GetSuggestions", shared.ErrEmptyValue, "user_id is required")
	}
	q.Pagination = q.Pagination.Normalize(20, 100)
	return nil
}

// SuggestionDTO - один элемент представления.
type SuggestionDTO struct {
	// State - pending или connected.
	State SuggestionState `json:"state"`

	// Partner - публичный профиль второй стороны.
	Partner PublicProfileDTO `json:"partner"`

	// CompatibilityScore - оценка совместимости.
	CompatibilityScore int `json:"compatibility_score"`

	// MatchReason - объяснение подбора (только для pending).
	MatchReason string `json:"match_reason,omitempty"`

	// RequestID - идентификатор запроса (для pending).
	RequestID string `json:"request_id,omitempty"`

	// ConnectionID - идентификатор связи (для connected).
	ConnectionID string `json:"connection_id,omitempty"`

	// CreatedAt - когда запрос отправлен или связь создана.
	CreatedAt time.Time `json:"created_at"`
}

// GetSuggestionsResult - результат сборки представления.
type GetSuggestionsResult struct {
	// Suggestions - элементы, новые первыми.
	Suggestions []SuggestionDTO `json:"suggestions"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetSuggestionsHandler handles the GetSuggestionsQuery.
type GetSuggestionsHandler struct {
	userRepo       user.Repository
	requestRepo    match.RequestRepository
	connectionRepo match.ConnectionRepository
}

// NewGetSuggestionsHandler creates a new GetSuggestionsHandler.
func NewGetSuggestionsHandler(
	userRepo user.Repository,
	requestRepo match.RequestRepository,
	connectionRepo match.ConnectionRepository,
) *GetSuggestionsHandler {
	return &GetSuggestionsHandler{
		userRepo:       userRepo,
		requestRepo:    requestRepo,
		connectionRepo: connectionRepo,
	}
}

// Handle executes the get suggestions query.
func (h *GetSuggestionsHandler) Handle(ctx context.Context, q GetSuggestionsQuery) (*GetSuggestionsResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	userID := shared.UserID(q.UserID)

	// Окно применяется к объединённому списку после слияния, поэтому из
	// каждого источника читается offset+limit элементов: в худшем случае
	// всё окно приходит из одного источника.
	window := shared.Pagination{Limit: q.Pagination.Offset + q.Pagination.Limit}

	pending, err := h.requestRepo.ListSent(ctx, userID, match.RequestListOptions{
		Status:     match.RequestStatusPending,
		Pagination: window,
	})
	if err != nil {
		return nil, err
	}

	connections, err := h.connectionRepo.ListForUser(ctx, userID, window)
	if err != nil {
		return nil, err
	}

	suggestions := make([]SuggestionDTO, 0, len(pending)+len(connections))
	partnerIDs := make([]shared.UserID, 0, len(pending)+len(connections))

	for _, req := range pending {
		partnerIDs = append(partnerIDs, req.ReceiverID)
		suggestions = append(suggestions, SuggestionDTO{
			State:              SuggestionStatePending,
			CompatibilityScore: req.CompatibilityScore,
			MatchReason:        req.MatchReason,
			RequestID:          req.ID,
			CreatedAt:          req.CreatedAt,
		})
	}

	for _, conn := range connections {
		partnerIDs = append(partnerIDs, conn.OtherUser(userID))
		suggestions = append(suggestions, SuggestionDTO{
			State:              SuggestionStateConnected,
			CompatibilityScore: conn.CompatibilityScore,
			ConnectionID:       conn.ID,
			CreatedAt:          conn.CreatedAt,
		})
	}

	profiles, err := h.userRepo.GetPublicProfiles(ctx, partnerIDs)
	if err != nil {
		return nil, err
	}
	for i := range suggestions {
		suggestions[i].Partner = toProfileDTO(profiles[partnerIDs[i]])
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].CreatedAt.After(suggestions[j].CreatedAt)
	})

	offset := q.Pagination.Offset
	if offset > len(suggestions) {
		offset = len(suggestions)
	}
	end := offset + q.Pagination.Limit
	if end > len(suggestions) {
		end = len(suggestions)
	}

	return &GetSuggestionsResult{Suggestions: suggestions[offset:end]}, nil
}
