package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lora213/buddyhub/internal/domain/rubric"
	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/internal/domain/user"
	"github.com/lora213/buddyhub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPLACE SCORES COMMAND
// Replaces all rubric scores of a user within one category. Re-analysis
// always rewrites the whole category: there is no per-subcategory upsert.
// ══════════════════════════════════════════════════════════════════════════════

// MatchCacheInvalidator drops cached match suggestions for a user.
// Implemented by the redis match cache; a nil-safe nop is fine in tests.
type MatchCacheInvalidator interface {
	InvalidateMatches(ctx context.Context, userID shared.UserID) error
}

// NopInvalidator is a MatchCacheInvalidator that does nothing.
type NopInvalidator struct{}

// InvalidateMatches implements MatchCacheInvalidator.
func (NopInvalidator) InvalidateMatches(context.Context, shared.UserID) error { return nil }

// ScoreInput is one score entry in the replacement set.
type ScoreInput struct {
	// Subcategory is the subcategory key.
	Subcategory string

	// Score is the 1-5 value.
	Score int

	// Metadata is the optional typed metadata for the subcategory.
	Metadata rubric.Metadata
}

// ReplaceScoresCommand contains the data to replace category scores.
type ReplaceScoresCommand struct {
	// UserID is the owner of the scores.
	UserID string

	// Category is the category being replaced.
	Category rubric.Category

	// Scores is the full replacement set for the category.
	Scores []ScoreInput

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c ReplaceScoresCommand) Validate() error {
	if c.UserID == "" {
		return shared.NewDomainError("rubric", "Replace", shared.ErrEmptyValue, "user_id is required")
	}
	if !c.Category.IsValid() {
		return shared.ErrInvalidCategory
	}
	if len(c.Scores) == 0 {
		return shared.NewDomainError("rubric", "Replace", shared.ErrInvalidInput, "at least one score is required")
	}
	return nil
}

// ReplaceScoresResult contains the result of replacing scores.
type ReplaceScoresResult struct {
	// Replaced is the number of scores now stored for the category.
	Replaced int

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ReplaceScoresHandler handles the ReplaceScoresCommand.
type ReplaceScoresHandler struct {
	userRepo       user.Repository
	rubricRepo     rubric.Repository
	matchCache     MatchCacheInvalidator
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewReplaceScoresHandler creates a new ReplaceScoresHandler.
func NewReplaceScoresHandler(
	userRepo user.Repository,
	rubricRepo rubric.Repository,
	matchCache MatchCacheInvalidator,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *ReplaceScoresHandler {
	return &ReplaceScoresHandler{
		userRepo:       userRepo,
		rubricRepo:     rubricRepo,
		matchCache:     matchCache,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// Handle executes the replace scores command.
func (h *ReplaceScoresHandler) Handle(ctx context.Context, cmd ReplaceScoresCommand) (*ReplaceScoresResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	userID := shared.UserID(cmd.UserID)

	if _, err := h.userRepo.GetByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("replace_scores: user not found: %w", err)
	}

	scores := make([]rubric.RubricScore, 0, len(cmd.Scores))
	seen := make(map[string]bool, len(cmd.Scores))

	for _, input := range cmd.Scores {
		if seen[input.Subcategory] {
			return nil, shared.WrapError("rubric", "Replace", shared.ErrInvalidInput,
				fmt.Sprintf("duplicate subcategory %q", input.Subcategory), nil)
		}
		seen[input.Subcategory] = true

		metadata := input.Metadata
		if metadata.Kind == "" {
			metadata = rubric.NoMetadata()
		}

		score, err := rubric.NewRubricScore(rubric.NewRubricScoreParams{
			ID:          uuid.NewString(),
			UserID:      userID,
			Category:    cmd.Category,
			Subcategory: input.Subcategory,
			Score:       rubric.ScoreValue(input.Score),
			Metadata:    metadata,
		})
		if err != nil {
			return nil, fmt.Errorf("replace_scores: invalid score %q: %w", input.Subcategory, err)
		}
		scores = append(scores, *score)
	}

	if err := h.rubricRepo.ReplaceCategory(ctx, userID, cmd.Category, scores); err != nil {
		return nil, fmt.Errorf("replace_scores: failed to save: %w", err)
	}

	// Stale suggestions are worse than a cache miss.
	if err := h.matchCache.InvalidateMatches(ctx, userID); err != nil {
		h.log.Warn("failed to invalidate match cache",
			logger.String("user_id", cmd.UserID),
			logger.Err(err))
	}

	result := &ReplaceScoresResult{
		Replaced: len(scores),
		Events:   make([]shared.Event, 0, 1),
	}

	event := shared.NewScoresReplacedEvent(cmd.UserID, cmd.Category.String(), len(scores))
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)
	_ = h.eventPublisher.Publish(event)

	return result, nil
}
