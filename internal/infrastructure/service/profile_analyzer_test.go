package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lora213/buddyhub/internal/application/command"
	"github.com/lora213/buddyhub/internal/domain/rubric"
	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/internal/infrastructure/external/github"
	"github.com/lora213/buddyhub/pkg/circuitbreaker"
	"github.com/lora213/buddyhub/pkg/logger"
)

type fakeGitHubSource struct {
	user    *github.UserDTO
	repos   []github.RepoDTO
	userErr error
	repoErr error
}

func (s *fakeGitHubSource) GetUser(_ context.Context, _ string) (*github.UserDTO, error) {
	return s.user, s.userErr
}

func (s *fakeGitHubSource) ListRepos(_ context.Context, _ string) ([]github.RepoDTO, error) {
	return s.repos, s.repoErr
}

func newAnalyzer(source *fakeGitHubSource) *ProfileAnalyzer {
	return NewProfileAnalyzer(source, logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError}))
}

func findInput(t *testing.T, inputs []command.ScoreInput, subcategory string) command.ScoreInput {
	t.Helper()
	for _, in := range inputs {
		if in.Subcategory == subcategory {
			return in
		}
	}
	t.Fatalf("no score input for %q", subcategory)
	return command.ScoreInput{}
}

func TestAnalyzeGitHub(t *testing.T) {
	source := &fakeGitHubSource{
		user: &github.UserDTO{Login: "octocat", Followers: 12, PublicRepos: 6},
		repos: []github.RepoDTO{
			{Name: "api", Language: "Go", StargazersCount: 20, Topics: []string{"http", "grpc"}},
			{Name: "web", Language: "TypeScript", StargazersCount: 5, Topics: []string{"react"}},
			{Name: "tools", Language: "Go", StargazersCount: 8},
			{Name: "forked", Fork: true, Language: "Rust", StargazersCount: 900, Topics: []string{"os"}},
		},
	}

	analysis, err := newAnalyzer(source).AnalyzeGitHub(context.Background(), "octocat")

	require.NoError(t, err)
	require.Len(t, analysis.Technical, 3)
	require.Len(t, analysis.Social, 1)

	// Форки не считаются: звёзды и язык Rust игнорируются.
	langs := findInput(t, analysis.Technical, rubric.SubcategoryProgrammingLanguages)
	assert.Equal(t, 3, langs.Score) // 2 languages
	assert.Equal(t, map[string]string{"Go": "2", "TypeScript": "1"}, langs.Metadata.Bag)

	frameworks := findInput(t, analysis.Technical, rubric.SubcategoryFrameworks)
	assert.Equal(t, 3, frameworks.Score) // 3 topics

	complexity := findInput(t, analysis.Technical, rubric.SubcategoryProjectComplexity)
	assert.Equal(t, 4, complexity.Score) // 33 stars

	social := findInput(t, analysis.Social, rubric.SubcategoryGitHubProfile)
	assert.Equal(t, 3, social.Score) // 12 followers + 3 own repos
	assert.Equal(t, "12", social.Metadata.Bag["followers"])
	assert.Equal(t, "6", social.Metadata.Bag["public_repos"])
}

func TestAnalyzeGitHub_EmptyProfile(t *testing.T) {
	source := &fakeGitHubSource{user: &github.UserDTO{Login: "newbie"}}

	analysis, err := newAnalyzer(source).AnalyzeGitHub(context.Background(), "newbie")

	require.NoError(t, err)
	for _, in := range append(analysis.Technical, analysis.Social...) {
		assert.Equal(t, 1, in.Score, "subcategory %s", in.Subcategory)
	}
}

func TestBucket(t *testing.T) {
	tests := []struct {
		n        int
		expected int
	}{
		{0, 1},
		{1, 2},
		{2, 3},
		{3, 3},
		{4, 4},
		{6, 5},
		{100, 5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, bucket(tt.n, 1, 2, 4, 6), "n=%d", tt.n)
	}
}

func TestLanguageBag_KeepsTopFive(t *testing.T) {
	bag := languageBag(map[string]int{
		"Go": 9, "Python": 7, "Rust": 5, "C": 3, "Zig": 2, "Lua": 1, "Perl": 1,
	})

	require.Len(t, bag, 5)
	assert.Equal(t, "9", bag["Go"])
	assert.Equal(t, "2", bag["Zig"])
	assert.NotContains(t, bag, "Lua")
	assert.NotContains(t, bag, "Perl")
}

func TestMapGitHubError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{"profile not found", github.ErrProfileNotFound, shared.ErrGitHubUserNotFound},
		{"circuit open", circuitbreaker.ErrCircuitOpen, shared.ErrGitHubAPIUnavailable},
		{"rate limited", &github.RateLimitError{ResetAt: time.Now()}, shared.ErrGitHubAPIRateLimited},
		{"anything else", errors.New("connection reset"), shared.ErrGitHubAPIUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &fakeGitHubSource{userErr: tt.err}

			_, err := newAnalyzer(source).AnalyzeGitHub(context.Background(), "octocat")

			assert.ErrorIs(t, err, tt.expected)
		})
	}
}
