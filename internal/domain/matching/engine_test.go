package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lora213/buddyhub/internal/domain/rubric"
	"github.com/lora213/buddyhub/internal/domain/shared"
)

// techScores строит набор технических оценок из карты подкатегория → балл.
func techScores(userID string, scores map[string]int) rubric.ScoreSet {
	set := make(rubric.ScoreSet, 0, len(scores))
	for sub, val := range scores {
		set = append(set, rubric.RubricScore{
			ID:          userID + "-" + sub,
			UserID:      shared.UserID(userID),
			Category:    rubric.CategoryTechnicalSkills,
			Subcategory: sub,
			Score:       rubric.ScoreValue(val),
			Metadata:    rubric.NoMetadata(),
		})
	}
	return set
}

// socialScores строит набор социальных оценок.
func socialScores(userID string, scores map[string]int) rubric.ScoreSet {
	set := make(rubric.ScoreSet, 0, len(scores))
	for sub, val := range scores {
		set = append(set, rubric.RubricScore{
			ID:          userID + "-" + sub,
			UserID:      shared.UserID(userID),
			Category:    rubric.CategorySocialBlueprint,
			Subcategory: sub,
			Score:       rubric.ScoreValue(val),
			Metadata:    rubric.NoMetadata(),
		})
	}
	return set
}

// mentorshipScore строит одну оценку mentorship_type.
func mentorshipScore(userID string, t rubric.MentorshipType) rubric.RubricScore {
	return rubric.RubricScore{
		ID:          userID + "-mentorship",
		UserID:      shared.UserID(userID),
		Category:    rubric.CategoryPersonalAttributes,
		Subcategory: rubric.SubcategoryMentorshipType,
		Score:       3,
		Metadata:    rubric.MentorshipMetadata(t),
	}
}

// learningStyleScore строит одну оценку learning_style.
func learningStyleScore(userID, style string) rubric.RubricScore {
	return rubric.RubricScore{
		ID:          userID + "-learning",
		UserID:      shared.UserID(userID),
		Category:    rubric.CategoryPersonalAttributes,
		Subcategory: rubric.SubcategoryLearningStyle,
		Score:       3,
		Metadata:    rubric.TextMetadata(style),
	}
}

// collaborationScore строит одну оценку collaboration_preference.
func collaborationScore(userID string, val int) rubric.RubricScore {
	return rubric.RubricScore{
		ID:          userID + "-collab",
		UserID:      shared.UserID(userID),
		Category:    rubric.CategoryPersonalAttributes,
		Subcategory: rubric.SubcategoryCollaborationPreference,
		Score:       rubric.ScoreValue(val),
		Metadata:    rubric.NoMetadata(),
	}
}

func TestEngine_TechnicalExample(t *testing.T) {
	// Канонический пример: оба по 4 в programming_languages →
	// близость 100%, суммарная сила 80% → 100*0.4 + 80*0.6 = 88.
	engine := NewDefaultEngine()

	a := techScores("user-a", map[string]int{"programming_languages": 4})
	b := techScores("user-b", map[string]int{"programming_languages": 4})

	result := engine.Compare(a, b)

	assert.Equal(t, 88, result.Technical.Score)
	assert.Equal(t, 100, result.Technical.Similarity)
	assert.Equal(t, 80, result.Technical.Complementarity)

	detail, ok := result.Technical.Details["programming_languages"]
	require.True(t, ok)
	assert.Equal(t, 4, detail.User1Score)
	assert.Equal(t, 4, detail.User2Score)
	assert.Equal(t, 100, detail.Similarity)
	assert.Equal(t, 80, detail.Complementarity)
}

func TestEngine_IdenticalMaxScores(t *testing.T) {
	// Два пользователя с идентичными максимальными баллами:
	// близость 100, суммарная сила 100 → технический компонент 100.
	engine := NewDefaultEngine()

	scores := map[string]int{"programming_languages": 5, "frameworks": 5}
	a := techScores("user-a", scores)
	b := techScores("user-b", scores)

	result := engine.Compare(a, b)

	assert.Equal(t, 100, result.Technical.Score)
	assert.Equal(t, 100, result.Technical.Similarity)
	assert.Equal(t, 100, result.Technical.Complementarity)
}

func TestEngine_InsufficientTechnicalData(t *testing.T) {
	engine := NewDefaultEngine()

	tests := []struct {
		name string
		a    rubric.ScoreSet
		b    rubric.ScoreSet
	}{
		{
			name: "both empty",
			a:    rubric.ScoreSet{},
			b:    rubric.ScoreSet{},
		},
		{
			name: "first empty",
			a:    rubric.ScoreSet{},
			b:    techScores("user-b", map[string]int{"programming_languages": 5}),
		},
		{
			name: "second empty",
			a:    techScores("user-a", map[string]int{"programming_languages": 5}),
			b:    rubric.ScoreSet{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Compare(tt.a, tt.b)
			assert.Equal(t, 50, result.Technical.Score)
			assert.Equal(t, NoteInsufficientData, result.Technical.Note)
		})
	}
}

func TestEngine_NoTechnicalOverlap(t *testing.T) {
	engine := NewDefaultEngine()

	a := techScores("user-a", map[string]int{"programming_languages": 5})
	b := techScores("user-b", map[string]int{"frameworks": 4})

	result := engine.Compare(a, b)

	assert.Equal(t, 40, result.Technical.Score)
	assert.Equal(t, NoteNoOverlap, result.Technical.Note)
}

func TestEngine_SocialComponent(t *testing.T) {
	engine := NewDefaultEngine()

	t.Run("similarity only", func(t *testing.T) {
		a := socialScores("user-a", map[string]int{"github_profile": 5})
		b := socialScores("user-b", map[string]int{"github_profile": 3})

		result := engine.Compare(a, b)

		// 1 - |5-3|/5 = 0.6 → 60
		assert.Equal(t, 60, result.Social.Score)
		assert.Equal(t, 0, result.Social.Complementarity)
	})

	t.Run("no overlap", func(t *testing.T) {
		a := socialScores("user-a", map[string]int{"github_profile": 5})
		b := socialScores("user-b", map[string]int{"linkedin_profile": 5})

		result := engine.Compare(a, b)

		assert.Equal(t, 30, result.Social.Score)
		assert.Equal(t, NoteNoOverlap, result.Social.Note)
	})

	t.Run("insufficient data", func(t *testing.T) {
		a := socialScores("user-a", map[string]int{"github_profile": 5})

		result := engine.Compare(a, rubric.ScoreSet{})

		assert.Equal(t, 50, result.Social.Score)
		assert.Equal(t, NoteInsufficientData, result.Social.Note)
	})
}

func TestEngine_MentorshipComplementarity(t *testing.T) {
	engine := NewDefaultEngine()

	tests := []struct {
		name string
		t1   rubric.MentorshipType
		t2   rubric.MentorshipType
		want int
	}{
		{"seeking + offering", rubric.MentorshipSeeking, rubric.MentorshipOffering, 100},
		{"offering + seeking", rubric.MentorshipOffering, rubric.MentorshipSeeking, 100},
		{"peer + peer", rubric.MentorshipPeer, rubric.MentorshipPeer, 90},
		{"mixed + seeking", rubric.MentorshipMixed, rubric.MentorshipSeeking, 70},
		{"offering + mixed", rubric.MentorshipOffering, rubric.MentorshipMixed, 70},
		{"seeking + seeking", rubric.MentorshipSeeking, rubric.MentorshipSeeking, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := rubric.ScoreSet{mentorshipScore("user-a", tt.t1)}
			b := rubric.ScoreSet{mentorshipScore("user-b", tt.t2)}

			result := engine.Compare(a, b)

			assert.Equal(t, tt.want, result.Personal.Score)
		})
	}
}

func TestEngine_LearningStyle(t *testing.T) {
	engine := NewDefaultEngine()

	tests := []struct {
		name   string
		style1 string
		style2 string
		want   int
	}{
		{"exact match", "visual", "visual", 100},
		{"different styles", "visual", "hands_on", 60},
		{"first value missing", "", "visual", 50},
		{"second value missing", "visual", "", 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := rubric.ScoreSet{learningStyleScore("user-a", tt.style1)}
			b := rubric.ScoreSet{learningStyleScore("user-b", tt.style2)}

			result := engine.Compare(a, b)

			assert.Equal(t, tt.want, result.Personal.Score)
		})
	}
}

func TestEngine_CollaborationPreference(t *testing.T) {
	engine := NewDefaultEngine()

	a := rubric.ScoreSet{collaborationScore("user-a", 5)}
	b := rubric.ScoreSet{collaborationScore("user-b", 2)}

	result := engine.Compare(a, b)

	// (1 - 3/5) * 100 = 40
	assert.Equal(t, 40, result.Personal.Score)
}

func TestEngine_PersonalAveragesPresentAttributes(t *testing.T) {
	engine := NewDefaultEngine()

	// learning_style совпадает (100), менторство дополняющее (100),
	// collaboration_preference есть только у одного — не учитывается.
	a := rubric.ScoreSet{
		learningStyleScore("user-a", "visual"),
		mentorshipScore("user-a", rubric.MentorshipSeeking),
		collaborationScore("user-a", 4),
	}
	b := rubric.ScoreSet{
		learningStyleScore("user-b", "visual"),
		mentorshipScore("user-b", rubric.MentorshipOffering),
	}

	result := engine.Compare(a, b)

	assert.Equal(t, 100, result.Personal.Score)
	assert.Len(t, result.Personal.Details, 2)
}

func TestEngine_PersonalNoAttributes(t *testing.T) {
	engine := NewDefaultEngine()

	result := engine.Compare(rubric.ScoreSet{}, rubric.ScoreSet{})

	assert.Equal(t, 50, result.Personal.Score)
	assert.Equal(t, NoteInsufficientData, result.Personal.Note)
}

func TestEngine_OverallWeighting(t *testing.T) {
	engine := NewDefaultEngine()

	// Технический 88, социальный 50 (нет данных), личный 50 (нет атрибутов):
	// round(88*0.4 + 50*0.4 + 50*0.2) = round(65.2) = 65.
	a := techScores("user-a", map[string]int{"programming_languages": 4})
	b := techScores("user-b", map[string]int{"programming_languages": 4})

	result := engine.Compare(a, b)

	assert.Equal(t, 65, result.Overall)
}

func TestEngine_Deterministic(t *testing.T) {
	engine := NewDefaultEngine()

	a := append(
		techScores("user-a", map[string]int{"programming_languages": 4, "frameworks": 2, "project_complexity": 5}),
		learningStyleScore("user-a", "visual"),
		mentorshipScore("user-a", rubric.MentorshipSeeking),
	)
	b := append(
		techScores("user-b", map[string]int{"programming_languages": 3, "frameworks": 5}),
		learningStyleScore("user-b", "hands_on"),
		mentorshipScore("user-b", rubric.MentorshipOffering),
	)

	first := engine.Compare(a, b)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, engine.Compare(a, b))
	}
}

func TestEngine_OverallSymmetric(t *testing.T) {
	engine := NewDefaultEngine()

	a := append(
		techScores("user-a", map[string]int{"programming_languages": 4, "frameworks": 1}),
		socialScores("user-a", map[string]int{"github_profile": 5})...,
	)
	a = append(a, learningStyleScore("user-a", "visual"), collaborationScore("user-a", 2))

	b := append(
		techScores("user-b", map[string]int{"programming_languages": 2, "project_complexity": 3}),
		socialScores("user-b", map[string]int{"github_profile": 2, "linkedin_profile": 4})...,
	)
	b = append(b, learningStyleScore("user-b", "reading"), collaborationScore("user-b", 5))

	forward := engine.Compare(a, b)
	backward := engine.Compare(b, a)

	assert.Equal(t, forward.Overall, backward.Overall)
	assert.Equal(t, forward.Technical.Score, backward.Technical.Score)
	assert.Equal(t, forward.Social.Score, backward.Social.Score)
	assert.Equal(t, forward.Personal.Score, backward.Personal.Score)

	// Несимметричны только user1/user2 внутри деталей.
	fd := forward.Technical.Details["programming_languages"]
	bd := backward.Technical.Details["programming_languages"]
	assert.Equal(t, fd.User1Score, bd.User2Score)
	assert.Equal(t, fd.User2Score, bd.User1Score)
}

func TestEngine_ScoresAlwaysInRange(t *testing.T) {
	engine := NewDefaultEngine()

	sets := []rubric.ScoreSet{
		{},
		techScores("u1", map[string]int{"programming_languages": 1}),
		techScores("u2", map[string]int{"programming_languages": 5, "frameworks": 1}),
		append(socialScores("u3", map[string]int{"github_profile": 3}), mentorshipScore("u3", rubric.MentorshipMixed)),
		append(techScores("u4", map[string]int{"frameworks": 4}), learningStyleScore("u4", "visual")),
	}

	for _, a := range sets {
		for _, b := range sets {
			result := engine.Compare(a, b)

			assert.GreaterOrEqual(t, result.Overall, 0)
			assert.LessOrEqual(t, result.Overall, 100)
			assert.GreaterOrEqual(t, result.Technical.Score, 0)
			assert.LessOrEqual(t, result.Technical.Score, 100)
			assert.GreaterOrEqual(t, result.Social.Score, 0)
			assert.LessOrEqual(t, result.Social.Score, 100)
			assert.GreaterOrEqual(t, result.Personal.Score, 0)
			assert.LessOrEqual(t, result.Personal.Score, 100)
		}
	}
}
