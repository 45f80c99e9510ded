package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lora213/buddyhub/internal/domain/rubric"
	"github.com/lora213/buddyhub/internal/domain/shared"
)

func newPreferencesHandler(users *fakeUserRepo) (*UpdatePreferencesHandler, *fakeRubricRepo, *recordingInvalidator) {
	rubrics := newFakeRubricRepo()
	cache := &recordingInvalidator{}
	scores := NewReplaceScoresHandler(users, rubrics, cache, shared.NopPublisher{}, testLogger())
	return NewUpdatePreferencesHandler(rubrics, scores, testLogger()), rubrics, cache
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestUpdatePreferences(t *testing.T) {
	alice := newTestUser(t, "alice@example.com", "Alice")
	handler, rubrics, cache := newPreferencesHandler(newFakeUserRepo(alice))

	result, err := handler.Handle(context.Background(), UpdatePreferencesCommand{
		UserID:                  string(alice.ID),
		LearningStyle:           strPtr("hands_on"),
		CollaborationPreference: intPtr(4),
		MentorshipType:          strPtr("peer"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Stored)

	byKey := make(map[string]rubric.RubricScore)
	for _, s := range rubrics.scores[alice.ID] {
		assert.Equal(t, rubric.CategoryPersonalAttributes, s.Category)
		byKey[s.Subcategory] = s
	}
	require.Len(t, byKey, 3)

	assert.Equal(t, "hands_on", byKey[rubric.SubcategoryLearningStyle].Metadata.Value)
	assert.Equal(t, 4, byKey[rubric.SubcategoryCollaborationPreference].Score.Int())

	mentorship, ok := byKey[rubric.SubcategoryMentorshipType].Metadata.Mentorship()
	require.True(t, ok)
	assert.Equal(t, rubric.MentorshipPeer, mentorship)

	// Пересчёт предпочтений должен сбрасывать кешированные подборки.
	assert.Equal(t, []shared.UserID{alice.ID}, cache.invalidated)
}

func TestUpdatePreferences_PartialKeepsExisting(t *testing.T) {
	alice := newTestUser(t, "alice@example.com", "Alice")
	handler, rubrics, _ := newPreferencesHandler(newFakeUserRepo(alice))

	_, err := handler.Handle(context.Background(), UpdatePreferencesCommand{
		UserID:                  string(alice.ID),
		LearningStyle:           strPtr("visual"),
		CollaborationPreference: intPtr(2),
	})
	require.NoError(t, err)

	// Обновление одного поля не должно стирать остальные.
	result, err := handler.Handle(context.Background(), UpdatePreferencesCommand{
		UserID:         string(alice.ID),
		MentorshipType: strPtr("seeking"),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Stored)

	byKey := make(map[string]rubric.RubricScore)
	for _, s := range rubrics.scores[alice.ID] {
		byKey[s.Subcategory] = s
	}
	assert.Equal(t, "visual", byKey[rubric.SubcategoryLearningStyle].Metadata.Value)
	assert.Equal(t, 2, byKey[rubric.SubcategoryCollaborationPreference].Score.Int())

	mentorship, ok := byKey[rubric.SubcategoryMentorshipType].Metadata.Mentorship()
	require.True(t, ok)
	assert.Equal(t, rubric.MentorshipSeeking, mentorship)
}

func TestUpdatePreferences_DoesNotTouchOtherCategories(t *testing.T) {
	alice := newTestUser(t, "alice@example.com", "Alice")
	handler, rubrics, _ := newPreferencesHandler(newFakeUserRepo(alice))
	seedTechnicalScores(t, rubrics, alice.ID, 4)

	_, err := handler.Handle(context.Background(), UpdatePreferencesCommand{
		UserID:        string(alice.ID),
		LearningStyle: strPtr("reading"),
	})
	require.NoError(t, err)

	categories := make(map[rubric.Category]int)
	for _, s := range rubrics.scores[alice.ID] {
		categories[s.Category]++
	}
	assert.Equal(t, 1, categories[rubric.CategoryTechnicalSkills])
	assert.Equal(t, 1, categories[rubric.CategoryPersonalAttributes])
}

func TestUpdatePreferences_UserNotFound(t *testing.T) {
	handler, _, _ := newPreferencesHandler(newFakeUserRepo())

	_, err := handler.Handle(context.Background(), UpdatePreferencesCommand{
		UserID:        "ghost",
		LearningStyle: strPtr("visual"),
	})
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestUpdatePreferences_Validation(t *testing.T) {
	alice := newTestUser(t, "alice@example.com", "Alice")
	handler, _, _ := newPreferencesHandler(newFakeUserRepo(alice))

	tests := []struct {
		name string
		cmd  UpdatePreferencesCommand
	}{
		{
			name: "no preferences",
			cmd:  UpdatePreferencesCommand{UserID: string(alice.ID)},
		},
		{
			name: "empty learning style",
			cmd: UpdatePreferencesCommand{
				UserID:        string(alice.ID),
				LearningStyle: strPtr(""),
			},
		},
		{
			name: "collaboration out of range",
			cmd: UpdatePreferencesCommand{
				UserID:                  string(alice.ID),
				CollaborationPreference: intPtr(6),
			},
		},
		{
			name: "unknown mentorship type",
			cmd: UpdatePreferencesCommand{
				UserID:         string(alice.ID),
				MentorshipType: strPtr("guru"),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), tt.cmd)
			assert.Error(t, err)
		})
	}
}
