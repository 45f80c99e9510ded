package query

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lora213/buddyhub/internal/domain/rubric"
	"github.com/lora213/buddyhub/internal/domain/shared"
)

func seedScore(t *testing.T, repo *fakeRubricRepo, userID shared.UserID, category rubric.Category, subcategory string, value int) {
	t.Helper()
	score, err := rubric.NewRubricScore(rubric.NewRubricScoreParams{
		ID:          uuid.NewString(),
		UserID:      userID,
		Category:    category,
		Subcategory: subcategory,
		Score:       rubric.ScoreValue(value),
		Metadata:    rubric.NoMetadata(),
	})
	require.NoError(t, err)

	existing, err := repo.GetByUserID(context.Background(), userID)
	require.NoError(t, err)

	kept := make([]rubric.RubricScore, 0, len(existing)+1)
	for _, s := range existing {
		if s.Category == category {
			kept = append(kept, s)
		}
	}
	require.NoError(t, repo.ReplaceCategory(context.Background(), userID, category, append(kept, *score)))
}

func TestGetProfile(t *testing.T) {
	users := newFakeUserRepo()
	rubrics := newFakeRubricRepo()
	handler := NewGetProfileHandler(users, rubrics)
	ctx := context.Background()

	alice := listUser(t, users, "alice@example.com", "Alice")

	result, err := handler.Handle(ctx, GetProfileQuery{UserID: string(alice.ID)})

	require.NoError(t, err)
	assert.Equal(t, string(alice.ID), result.Profile.ID)
	assert.Equal(t, "alice@example.com", result.Profile.Email)
	assert.Equal(t, "Alice", result.Profile.FullName)
	assert.False(t, result.ReadyForMatching)

	seedScore(t, rubrics, alice.ID, rubric.CategoryTechnicalSkills, rubric.SubcategoryProgrammingLanguages, 4)

	result, err = handler.Handle(ctx, GetProfileQuery{UserID: string(alice.ID)})
	require.NoError(t, err)
	assert.Equal(t, 1, result.ScoreCount)
	assert.True(t, result.ReadyForMatching)
}

func TestGetProfile_NotFound(t *testing.T) {
	handler := NewGetProfileHandler(newFakeUserRepo(), newFakeRubricRepo())

	_, err := handler.Handle(context.Background(), GetProfileQuery{UserID: uuid.NewString()})

	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestGetScores(t *testing.T) {
	users := newFakeUserRepo()
	rubrics := newFakeRubricRepo()
	handler := NewGetScoresHandler(users, rubrics)
	ctx := context.Background()

	alice := listUser(t, users, "alice@example.com", "Alice")
	seedScore(t, rubrics, alice.ID, rubric.CategoryTechnicalSkills, rubric.SubcategoryProgrammingLanguages, 4)
	seedScore(t, rubrics, alice.ID, rubric.CategoryTechnicalSkills, rubric.SubcategoryFrameworks, 3)
	seedScore(t, rubrics, alice.ID, rubric.CategorySocialBlueprint, rubric.SubcategoryGitHubProfile, 2)

	result, err := handler.Handle(ctx, GetScoresQuery{UserID: string(alice.ID)})

	require.NoError(t, err)
	assert.Equal(t, 3, result.Total)
	assert.Len(t, result.Categories[rubric.CategoryTechnicalSkills.String()], 2)
	assert.Len(t, result.Categories[rubric.CategorySocialBlueprint.String()], 1)

	// Фильтр по категории сужает и список, и счётчик.
	filtered, err := handler.Handle(ctx, GetScoresQuery{
		UserID:   string(alice.ID),
		Category: rubric.CategorySocialBlueprint,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, filtered.Total)
	assert.NotContains(t, filtered.Categories, rubric.CategoryTechnicalSkills.String())
}

func TestGetScores_InvalidCategory(t *testing.T) {
	handler := NewGetScoresHandler(newFakeUserRepo(), newFakeRubricRepo())

	_, err := handler.Handle(context.Background(), GetScoresQuery{
		UserID:   uuid.NewString(),
		Category: rubric.Category("astrology"),
	})

	assert.ErrorIs(t, err, shared.ErrInvalidCategory)
}
