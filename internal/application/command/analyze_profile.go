package command

import (
	"context"
	"fmt"

	"github.com/lora213/buddyhub/internal/domain/rubric"
	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/internal/domain/user"
	"github.com/lora213/buddyhub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ANALYZE PROFILE COMMAND
// Fetches the user's connected GitHub profile and rewrites the
// technical_skills and social_blueprint categories from it. The rubric
// store is the single input of the compatibility engine, so analysis is
// the only way scores appear.
// ══════════════════════════════════════════════════════════════════════════════

// ProfileAnalysis is the outcome of analyzing an external profile:
// full replacement sets for the analyzed categories.
type ProfileAnalysis struct {
	// Technical is the technical_skills replacement set.
	Technical []ScoreInput

	// Social is the social_blueprint replacement set.
	Social []ScoreInput
}

// ProfileAnalyzer converts an external profile into rubric score inputs.
// Implemented by the infrastructure profile analyzer on top of the
// GitHub client.
type ProfileAnalyzer interface {
	AnalyzeGitHub(ctx context.Context, login string) (*ProfileAnalysis, error)
}

// AnalyzeProfileCommand contains the data to run profile analysis.
type AnalyzeProfileCommand struct {
	// UserID is the user to analyze.
	UserID string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c AnalyzeProfileCommand) Validate() error {
	if c.UserID == "" {
		return fmt.Errorf("analyze_profile: %w: user_id is required", shared.ErrValidation)
	}
	return nil
}

// AnalyzeProfileResult contains the result of profile analysis.
type AnalyzeProfileResult struct {
	// TechnicalScores is the number of technical_skills scores stored.
	TechnicalScores int

	// SocialScores is the number of social_blueprint scores stored.
	SocialScores int

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// AnalyzeProfileHandler handles the AnalyzeProfileCommand.
// The category rewrite is delegated to ReplaceScoresHandler so analysis
// and manual preference updates share the same write path.
type AnalyzeProfileHandler struct {
	userRepo user.Repository
	analyzer ProfileAnalyzer
	scores   *ReplaceScoresHandler
	log      *logger.Logger
}

// NewAnalyzeProfileHandler creates a new AnalyzeProfileHandler.
func NewAnalyzeProfileHandler(
	userRepo user.Repository,
	analyzer ProfileAnalyzer,
	scores *ReplaceScoresHandler,
	log *logger.Logger,
) *AnalyzeProfileHandler {
	return &AnalyzeProfileHandler{
		userRepo: userRepo,
		analyzer: analyzer,
		scores:   scores,
		log:      log,
	}
}

// Handle executes the analyze profile command.
func (h *AnalyzeProfileHandler) Handle(ctx context.Context, cmd AnalyzeProfileCommand) (*AnalyzeProfileResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	u, err := h.userRepo.GetByID(ctx, shared.UserID(cmd.UserID))
	if err != nil {
		return nil, fmt.Errorf("analyze_profile: load user: %w", err)
	}

	if !u.GitHubUsername.IsSet() {
		return nil, shared.WrapError("user", "Analyze", shared.ErrInvalidInput,
			"no github profile connected", nil)
	}

	analysis, err := h.analyzer.AnalyzeGitHub(ctx, u.GitHubUsername.String())
	if err != nil {
		return nil, fmt.Errorf("analyze_profile: %w", err)
	}

	result := &AnalyzeProfileResult{}

	categories := []struct {
		category rubric.Category
		inputs   []ScoreInput
		count    *int
	}{
		{rubric.CategoryTechnicalSkills, analysis.Technical, &result.TechnicalScores},
		{rubric.CategorySocialBlueprint, analysis.Social, &result.SocialScores},
	}

	for _, c := range categories {
		if len(c.inputs) == 0 {
			continue
		}

		replaced, err := h.scores.Handle(ctx, ReplaceScoresCommand{
			UserID:        cmd.UserID,
			Category:      c.category,
			Scores:        c.inputs,
			CorrelationID: cmd.CorrelationID,
		})
		if err != nil {
			return nil, fmt.Errorf("analyze_profile: replace %s: %w", c.category, err)
		}

		*c.count = replaced.Replaced
		result.Events = append(result.Events, replaced.Events...)
	}

	h.log.Info("profile analyzed",
		logger.String("user_id", cmd.UserID),
		logger.String("github_username", u.GitHubUsername.String()),
		logger.Int("technical_scores", result.TechnicalScores),
		logger.Int("social_scores", result.SocialScores),
	)

	return result, nil
}
