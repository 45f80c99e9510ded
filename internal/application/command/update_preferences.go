package command

import (
	"context"
	"fmt"

	"github.com/lora213/buddyhub/internal/domain/rubric"
	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE PREFERENCES COMMAND
// Updates the personal_attributes category from user-declared preferences.
// Unlike technical and social scores these are never derived from analysis:
// the user states them directly.
// ══════════════════════════════════════════════════════════════════════════════

// neutralScore is stored for attributes whose score value carries no
// meaning (the engine reads their metadata instead).
const neutralScore = 3

// UpdatePreferencesCommand contains the data to update preferences.
// nil fields mean "keep the current value".
type UpdatePreferencesCommand struct {
	// UserID is the owner of the preferences.
	UserID string

	// LearningStyle is the declared learning style (visual, hands_on...).
	LearningStyle *string

	// CollaborationPreference is the 1-5 appetite for pair work.
	CollaborationPreference *int

	// MentorshipType is the declared mentorship role.
	MentorshipType *string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c UpdatePreferencesCommand) Validate() error {
	if c.UserID == "" {
		return shared.NewDomainError("user", "UpdatePreferences", shared.ErrEmptyValue, "user_id is required")
	}
	if c.LearningStyle == nil && c.CollaborationPreference == nil && c.MentorshipType == nil {
		return shared.WrapError("user", "UpdatePreferences", shared.ErrInvalidInput,
			"at least one preference must be provided", nil)
	}
	if c.LearningStyle != nil && *c.LearningStyle == "" {
		return shared.WrapError("user", "UpdatePreferences", shared.ErrEmptyValue,
			"learning_style cannot be empty", nil)
	}
	if c.CollaborationPreference != nil && !rubric.ScoreValue(*c.CollaborationPreference).IsValid() {
		return shared.ErrInvalidScoreValue
	}
	if c.MentorshipType != nil && !rubric.MentorshipType(*c.MentorshipType).IsValid() {
		return shared.WrapError("user", "UpdatePreferences", shared.ErrInvalidInput,
			fmt.Sprintf("unknown mentorship type %q", *c.MentorshipType), nil)
	}
	return nil
}

// UpdatePreferencesResult contains the result of updating preferences.
type UpdatePreferencesResult struct {
	// Stored is the number of personal attributes now stored.
	Stored int

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// UpdatePreferencesHandler handles the UpdatePreferencesCommand.
// The write is delegated to ReplaceScoresHandler: the category rewrite,
// cache invalidation, and events stay on one path with profile analysis.
type UpdatePreferencesHandler struct {
	rubricRepo rubric.Repository
	scores     *ReplaceScoresHandler
	log        *logger.Logger
}

// NewUpdatePreferencesHandler creates a new UpdatePreferencesHandler.
func NewUpdatePreferencesHandler(
	rubricRepo rubric.Repository,
	scores *ReplaceScoresHandler,
	log *logger.Logger,
) *UpdatePreferencesHandler {
	return &UpdatePreferencesHandler{
		rubricRepo: rubricRepo,
		scores:     scores,
		log:        log,
	}
}

// Handle executes the update preferences command.
func (h *UpdatePreferencesHandler) Handle(ctx context.Context, cmd UpdatePreferencesCommand) (*UpdatePreferencesResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	userID := shared.UserID(cmd.UserID)

	existing, err := h.rubricRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("update_preferences: load scores: %w", err)
	}

	// The replacement set starts from what is already stored: a partial
	// update must not drop the attributes it does not mention.
	inputs := make(map[string]ScoreInput)
	for _, s := range existing {
		if s.Category != rubric.CategoryPersonalAttributes {
			continue
		}
		inputs[s.Subcategory] = ScoreInput{
			Subcategory: s.Subcategory,
			Score:       s.Score.Int(),
			Metadata:    s.Metadata,
		}
	}

	if cmd.LearningStyle != nil {
		inputs[rubric.SubcategoryLearningStyle] = ScoreInput{
			Subcategory: rubric.SubcategoryLearningStyle,
			Score:       neutralScore,
			Metadata:    rubric.TextMetadata(*cmd.LearningStyle),
		}
	}
	if cmd.CollaborationPreference != nil {
		inputs[rubric.SubcategoryCollaborationPreference] = ScoreInput{
			Subcategory: rubric.SubcategoryCollaborationPreference,
			Score:       *cmd.CollaborationPreference,
		}
	}
	if cmd.MentorshipType != nil {
		inputs[rubric.SubcategoryMentorshipType] = ScoreInput{
			Subcategory: rubric.SubcategoryMentorshipType,
			Score:       neutralScore,
			Metadata:    rubric.MentorshipMetadata(rubric.MentorshipType(*cmd.MentorshipType)),
		}
	}

	replacement := make([]ScoreInput, 0, len(inputs))
	for _, input := range inputs {
		replacement = append(replacement, input)
	}

	replaced, err := h.scores.Handle(ctx, ReplaceScoresCommand{
		UserID:        cmd.UserID,
		Category:      rubric.CategoryPersonalAttributes,
		Scores:        replacement,
		CorrelationID: cmd.CorrelationID,
	})
	if err != nil {
		return nil, fmt.Errorf("update_preferences: %w", err)
	}

	h.log.Info("preferences updated",
		logger.String("user_id", cmd.UserID),
		logger.Int("stored", replaced.Replaced),
	)

	return &UpdatePreferencesResult{
		Stored: replaced.Replaced,
		Events: replaced.Events,
	}, nil
}
