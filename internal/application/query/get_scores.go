package query

import (
	"context"
	"time"

	"github.com/lora213/buddyhub/internal/domain/rubric"
	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET SCORES QUERY
// Возвращает оценки рубрики пользователя, сгруппированные по категориям.
// ══════════════════════════════════════════════════════════════════════════════

// GetScoresQuery содержит параметры выборки оценок.
type GetScoresQuery struct {
	// UserID - владелец оценок.
	UserID string

	// Category - фильтр по категории (пустой = все).
	Category rubric.Category
}

// Validate проверяет корректность параметров.
func (q *GetScoresQuery) Validate() error {
	if q.UserID == "" {
		return shared.NewDomainError("rubric", "GetScores", shared.ErrEmptyValue, "user_id is required")
	}
	if q.Category != "" && !q.Category.IsValid() {
		return shared.ErrInvalidCategory
	}
	return nil
}

// ScoreDTO - одна оценка рубрики в ответах API.
type ScoreDTO struct {
	// Subcategory - ключ подкатегории.
	Subcategory string `json:"subcategory"`

	// Score - балл 1-5.
	Score int `json:"score"`

	// Metadata - метаданные подкатегории (если есть).
	Metadata map[string]string `json:"metadata,omitempty"`

	// CreatedAt - когда оценка записана.
	CreatedAt time.Time `json:"created_at"`
}

// GetScoresResult - оценки, сгруппированные по категориям.
type GetScoresResult struct {
	// Categories - категория → оценки, в порядке подкатегорий.
	Categories map[string][]ScoreDTO `json:"categories"`

	// Total - общее количество оценок.
	Total int `json:"total"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetScoresHandler handles the GetScoresQuery.
type GetScoresHandler struct {
	userRepo   user.Repository
	rubricRepo rubric.Repository
}

// NewGetScoresHandler creates a new GetScoresHandler.
func NewGetScoresHandler(userRepo user.Repository, rubricRepo rubric.Repository) *GetScoresHandler {
	return &GetScoresHandler{
		userRepo:   userRepo,
		rubricRepo: rubricRepo,
	}
}

// Handle executes the get scores query.
func (h *GetScoresHandler) Handle(ctx context.Context, q GetScoresQuery) (*GetScoresResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	userID := shared.UserID(q.UserID)

	if _, err := h.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	scores, err := h.rubricRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &GetScoresResult{Categories: make(map[string][]ScoreDTO)}

	for _, s := range scores {
		if q.Category != "" && s.Category != q.Category {
			continue
		}

		dto := ScoreDTO{
			Subcategory: s.Subcategory,
			Score:       s.Score.Int(),
			Metadata:    s.Metadata.Bag,
			CreatedAt:   s.CreatedAt,
		}
		result.Categories[s.Category.String()] = append(result.Categories[s.Category.String()], dto)
		result.Total++
	}

	return result, nil
}
