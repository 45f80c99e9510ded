// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"time"

	"github.com/lora213/buddyhub/internal/domain/match"
	"github.com/lora213/buddyhub/internal/domain/matching"
	"github.com/lora213/buddyhub/internal/domain/rubric"
	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/internal/domain/user"
	"github.com/lora213/buddyhub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// FIND MATCHES QUERY
// Находит лучших кандидатов в бадди для пользователя.
// Это КЛЮЧЕВОЙ запрос проекта, реализующий философию:
// "Похожий уровень, дополняющие роли".
//
// Результаты эфемерны: кандидат становится персистентным только когда
// пользователь отправляет ему запрос на матч.
// ══════════════════════════════════════════════════════════════════════════════

const (
	defaultMatchLimit = 10
	maxMatchLimit     = 50
)

// NeedsAnalysisMessage показывается пользователю без единой оценки.
const NeedsAnalysisMessage = "Complete your profile analysis to get matched with buddies"

// FindMatchesQuery содержит параметры поиска кандидатов.
type FindMatchesQuery struct {
	// UserID - пользователь, для которого ищем кандидатов.
	UserID string

	// Limit - максимальное количество результатов (по умолчанию 10).
	Limit int

	// Refresh - пересчитать список, минуя кеш.
	Refresh bool
}

// Validate проверяет корректность параметров.
func (q *FindMatchesQuery) Validate() error {
	if q.UserID == "" {
		return shared.NewDomainError("matching", "FindMatches", shared.ErrEmptyValue, "user_id is required")
	}
	if q.Limit <= 0 {
		q.Limit = defaultMatchLimit
	}
	if q.Limit > maxMatchLimit {
		q.Limit = maxMatchLimit
	}
	return nil
}

// FindMatchesResult - результат поиска кандидатов.
type FindMatchesResult struct {
	// Matches - ранжированный список кандидатов (лучшие первыми).
	Matches matching.CandidateList `json:"matches"`

	// TotalEvaluated - сколько кандидатов было рассмотрено.
	TotalEvaluated int `json:"total_evaluated"`

	// NeedsAnalysis - у пользователя нет оценок, подбор невозможен.
	NeedsAnalysis bool `json:"needs_analysis,omitempty"`

	// Message - пояснение для пустого результата.
	Message string `json:"message,omitempty"`

	// FromCache - результат взят из кеша.
	FromCache bool `json:"-"`
}

// MatchCache кеширует ранжированный список кандидатов пользователя.
// Список кешируется ДО пост-фильтра исключений: исключения меняются
// при каждом отправленном запросе, а ранжирование — только при
// изменении оценок.
type MatchCache interface {
	// GetSuggestions возвращает кешированный список и признак попадания.
	GetSuggestions(ctx context.Context, userID shared.UserID) (matching.CandidateList, bool, error)

	// SetSuggestions сохраняет список в кеш.
	SetSuggestions(ctx context.Context, userID shared.UserID, list matching.CandidateList) error
}

// NopMatchCache - кеш, который ничего не кеширует.
type NopMatchCache struct{}

// GetSuggestions implements MatchCache.
func (NopMatchCache) GetSuggestions(context.Context, shared.UserID) (matching.CandidateList, bool, error) {
	return nil, false, nil
}

// SetSuggestions implements MatchCache.
func (NopMatchCache) SetSuggestions(context.Context, shared.UserID, matching.CandidateList) error {
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// FindMatchesHandler handles the FindMatchesQuery.
type FindMatchesHandler struct {
	userRepo       user.Repository
	rubricRepo     rubric.Repository
	requestRepo    match.RequestRepository
	connectionRepo match.ConnectionRepository
	engine         *matching.Engine
	cache          MatchCache
	log            *logger.Logger
}

// NewFindMatchesHandler creates a new FindMatchesHandler.
func NewFindMatchesHandler(
	userRepo user.Repository,
	rubricRepo rubric.Repository,
	requestRepo match.RequestRepository,
	connectionRepo match.ConnectionRepository,
	engine *matching.Engine,
	cache MatchCache,
	log *logger.Logger,
) *FindMatchesHandler {
	return &FindMatchesHandler{
		userRepo:       userRepo,
		rubricRepo:     rubricRepo,
		requestRepo:    requestRepo,
		connectionRepo: connectionRepo,
		engine:         engine,
		cache:          cache,
		log:            log,
	}
}

// Handle executes the find matches query.
func (h *FindMatchesHandler) Handle(ctx context.Context, q FindMatchesQuery) (*FindMatchesResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	userID := shared.UserID(q.UserID)

	if _, err := h.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	viewerScores, err := h.rubricRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Без единой оценки подбор не имеет смысла: пустой результат
	// с подсказкой, не ошибка.
	if viewerScores.IsEmpty() {
		return &FindMatchesResult{
			Matches:       matching.CandidateList{},
			NeedsAnalysis: true,
			Message:       NeedsAnalysisMessage,
		}, nil
	}

	excluded, err := h.excludedPartners(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Кеш хранит полный ранжированный список; исключения применяются
	// на каждом чтении заново.
	if !q.Refresh {
		if cached, hit, err := h.cache.GetSuggestions(ctx, userID); err != nil {
			h.log.Warn("match cache read failed", logger.String("user_id", q.UserID), logger.Err(err))
		} else if hit {
			return &FindMatchesResult{
				Matches:        cached.Exclude(excluded).TopN(q.Limit),
				TotalEvaluated: len(cached),
				FromCache:      true,
			}, nil
		}
	}

	ranked, evaluated, err := h.rank(ctx, userID, viewerScores)
	if err != nil {
		return nil, err
	}

	if err := h.cache.SetSuggestions(ctx, userID, ranked); err != nil {
		h.log.Warn("match cache write failed", logger.String("user_id", q.UserID), logger.Err(err))
	}

	return &FindMatchesResult{
		Matches:        ranked.Exclude(excluded).TopN(q.Limit),
		TotalEvaluated: evaluated,
	}, nil
}

// rank вычисляет совместимость со всеми подходящими кандидатами
// и возвращает полный ранжированный список.
func (h *FindMatchesHandler) rank(
	ctx context.Context,
	userID shared.UserID,
	viewerScores rubric.ScoreSet,
) (matching.CandidateList, int, error) {
	candidateIDs, err := h.userRepo.ListMatchable(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	profiles, err := h.userRepo.GetPublicProfiles(ctx, candidateIDs)
	if err != nil {
		return nil, 0, err
	}

	now := time.Now().UTC()
	ranked := make(matching.CandidateList, 0, len(candidateIDs))

	for _, candidateID := range candidateIDs {
		// Сбой одного кандидата не валит весь подбор.
		candidateScores, err := h.rubricRepo.GetByUserID(ctx, candidateID)
		if err != nil {
			h.log.Warn("skipping candidate: failed to load scores",
				logger.String("candidate_id", string(candidateID)),
				logger.Err(err))
			continue
		}

		// Кандидаты без оценок пропускаются: сравнивать не с чем.
		if candidateScores.IsEmpty() {
			continue
		}

		result := h.engine.Compare(viewerScores, candidateScores)

		ranked = append(ranked, matching.Candidate{
			MatchID:            candidateID,
			MatchedUser:        buildCandidateProfile(profiles[candidateID], candidateScores),
			CompatibilityScore: result.Overall,
			MatchDetails:       result,
			MatchReason:        matching.GenerateReason(result),
			Status:             "pending",
			ComputedAt:         now,
		})
	}

	ranked.Sort()
	return ranked, len(candidateIDs), nil
}

// excludedPartners собирает пользователей, с которыми у данного уже есть
// запрос (в любом статусе) или связь.
func (h *FindMatchesHandler) excludedPartners(ctx context.Context, userID shared.UserID) (map[shared.UserID]bool, error) {
	requested, err := h.requestRepo.ListPartnerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	connected, err := h.connectionRepo.ListPartnerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	excluded := make(map[shared.UserID]bool, len(requested)+len(connected))
	for _, id := range requested {
		excluded[id] = true
	}
	for _, id := range connected {
		excluded[id] = true
	}
	return excluded, nil
}

// buildCandidateProfile денормализует публичный профиль кандидата,
// добавляя личные атрибуты из его рубричных оценок.
func buildCandidateProfile(profile user.PublicProfile, scores rubric.ScoreSet) matching.PublicProfile {
	out := matching.PublicProfile{
		ID:       string(profile.ID),
		FullName: profile.FullName,
		Email:    string(profile.Email),
	}

	if score, ok := scores.Find(rubric.CategoryPersonalAttributes, rubric.SubcategoryLearningStyle); ok {
		out.LearningStyle = score.Metadata.Value
	}
	if score, ok := scores.Find(rubric.CategoryPersonalAttributes, rubric.SubcategoryCollaborationPreference); ok {
		out.CollaborationPreference = score.Score.Int()
	}
	if score, ok := scores.Find(rubric.CategoryPersonalAttributes, rubric.SubcategoryMentorshipType); ok {
		out.MentorshipType = score.Metadata.Value
	}

	return out
}
