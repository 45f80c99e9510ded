package query

import (
	"context"
	"time"

	"github.com/lora213/buddyhub/internal/domain/rubric"
	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROFILE QUERY
// Возвращает полный профиль пользователя вместе с готовностью к подбору:
// без единой оценки рубрики подбор не запускается.
// ══════════════════════════════════════════════════════════════════════════════

// GetProfileQuery содержит параметры выборки профиля.
type GetProfileQuery struct {
	// UserID - пользователь, чей профиль выбираем.
	UserID string
}

// Validate проверяет корректность параметров.
func (q *GetProfileQuery) Validate() error {
	if q.UserID == "" {
		return shared.NewDomainError("user", "GetProfile", shared.ErrEmptyValue, "user_id is required")
	}
	return nil
}

// ProfileDTO - профиль пользователя в ответах API.
// Хеш пароля наружу не отдаётся никогда.
type ProfileDTO struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FullName       string    `json:"full_name"`
	GitHubUsername string    `json:"github_username,omitempty"`
	LinkedInURL    string    `json:"linkedin_url,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GetProfileResult - результат выборки профиля.
type GetProfileResult struct {
	// Profile - профиль пользователя.
	Profile ProfileDTO `json:"profile"`

	// ScoreCount - количество оценок рубрики.
	ScoreCount int `json:"score_count"`

	// ReadyForMatching - есть ли хоть одна оценка для подбора.
	ReadyForMatching bool `json:"ready_for_matching"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetProfileHandler handles the GetProfileQuery.
type GetProfileHandler struct {
	userRepo   user.Repository
	rubricRepo rubric.Repository
}

// NewGetProfileHandler creates a new GetProfileHandler.
func NewGetProfileHandler(userRepo user.Repository, rubricRepo rubric.Repository) *GetProfileHandler {
	return &GetProfileHandler{
		userRepo:   userRepo,
		rubricRepo: rubricRepo,
	}
}

// Handle executes the get profile query.
func (h *GetProfileHandler) Handle(ctx context.Context, q GetProfileQuery) (*GetProfileResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	userID := shared.UserID(q.UserID)

	u, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	count, err := h.rubricRepo.CountByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &GetProfileResult{
		Profile: ProfileDTO{
			ID:             string(u.ID),
			Email:          u.Email.String(),
			FullName:       u.FullName,
			GitHubUsername: u.GitHubUsername.String(),
			LinkedInURL:    u.LinkedInURL,
			Bio:            u.Bio,
			Status:         string(u.Status),
			CreatedAt:      u.CreatedAt,
			UpdatedAt:      u.UpdatedAt,
		},
		ScoreCount:       count,
		ReadyForMatching: count > 0,
	}, nil
}
