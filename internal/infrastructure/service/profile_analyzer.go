// Package service contains infrastructure-side services bridging external
// collaborators into application-layer interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/lora213/buddyhub/internal/application/command"
	"github.com/lora213/buddyhub/internal/domain/rubric"
	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/internal/infrastructure/external/github"
	"github.com/lora213/buddyhub/pkg/circuitbreaker"
	"github.com/lora213/buddyhub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE ANALYZER
// Converts a fetched GitHub profile into rubric score inputs. The buckets
// are deliberately coarse: scores are 1-5 and feed a similarity metric,
// so fine-grained precision buys nothing.
// ══════════════════════════════════════════════════════════════════════════════

// GitHubSource is the subset of the GitHub client the analyzer needs.
type GitHubSource interface {
	GetUser(ctx context.Context, login string) (*github.UserDTO, error)
	ListRepos(ctx context.Context, login string) ([]github.RepoDTO, error)
}

// ProfileAnalyzer implements command.ProfileAnalyzer on top of the
// GitHub client.
type ProfileAnalyzer struct {
	source GitHubSource
	log    *logger.Logger
}

// NewProfileAnalyzer creates a new ProfileAnalyzer.
func NewProfileAnalyzer(source GitHubSource, log *logger.Logger) *ProfileAnalyzer {
	return &ProfileAnalyzer{source: source, log: log}
}

// AnalyzeGitHub fetches a GitHub profile and derives the technical_skills
// and social_blueprint replacement sets.
func (a *ProfileAnalyzer) AnalyzeGitHub(ctx context.Context, login string) (*command.ProfileAnalysis, error) {
	user, err := a.source.GetUser(ctx, login)
	if err != nil {
		return nil, mapGitHubError(err)
	}

	repos, err := a.source.ListRepos(ctx, login)
	if err != nil {
		return nil, mapGitHubError(err)
	}

	stats := collectRepoStats(repos)

	a.log.Debug("github profile fetched",
		logger.String("login", login),
		logger.Int("repos", len(repos)),
		logger.Int("languages", len(stats.languages)),
		logger.Int("followers", user.Followers),
	)

	return &command.ProfileAnalysis{
		Technical: technicalScores(stats),
		Social:    socialScores(user, stats),
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Repo Statistics
// ─────────────────────────────────────────────────────────────────────────────

type repoStats struct {
	// ownRepos is the number of non-fork repositories.
	ownRepos int

	// languages maps language name to repo count, non-fork repos only.
	languages map[string]int

	// topics is the set of distinct repository topics.
	topics map[string]struct{}

	// totalStars is the star count over non-fork repos.
	totalStars int
}

func collectRepoStats(repos []github.RepoDTO) repoStats {
	stats := repoStats{
		languages: make(map[string]int),
		topics:    make(map[string]struct{}),
	}

	for _, repo := range repos {
		if repo.Fork {
			continue
		}

		stats.ownRepos++
		stats.totalStars += repo.StargazersCount

		if repo.Language != "" {
			stats.languages[repo.Language]++
		}
		for _, topic := range repo.Topics {
			stats.topics[topic] = struct{}{}
		}
	}

	return stats
}

// ─────────────────────────────────────────────────────────────────────────────
// Scoring Heuristics
// ─────────────────────────────────────────────────────────────────────────────

func technicalScores(stats repoStats) []command.ScoreInput {
	return []command.ScoreInput{
		{
			Subcategory: rubric.SubcategoryProgrammingLanguages,
			Score:       bucket(len(stats.languages), 1, 2, 4, 6),
			Metadata:    rubric.BagMetadata(languageBag(stats.languages)),
		},
		{
			Subcategory: rubric.SubcategoryFrameworks,
			Score:       bucket(len(stats.topics), 1, 3, 6, 10),
		},
		{
			Subcategory: rubric.SubcategoryProjectComplexity,
			Score:       bucket(stats.totalStars, 1, 10, 30, 100),
		},
	}
}

func socialScores(user *github.UserDTO, stats repoStats) []command.ScoreInput {
	return []command.ScoreInput{
		{
			Subcategory: rubric.SubcategoryGitHubProfile,
			Score:       bucket(user.Followers+stats.ownRepos, 1, 5, 20, 60),
			Metadata: rubric.BagMetadata(map[string]string{
				"followers":    strconv.Itoa(user.Followers),
				"public_repos": strconv.Itoa(user.PublicRepos),
			}),
		},
	}
}

// bucket maps a count onto the 1-5 scale using ascending thresholds:
// below t2 → 1, below t3 → 2, below t4 → 3, below t5 → 4, else 5.
func bucket(n, t2, t3, t4, t5 int) int {
	switch {
	case n >= t5:
		return 5
	case n >= t4:
		return 4
	case n >= t3:
		return 3
	case n >= t2:
		return 2
	default:
		return 1
	}
}

// languageBag keeps the top languages as metadata, repo counts as values.
func languageBag(languages map[string]int) map[string]string {
	const keep = 5

	names := make([]string, 0, len(languages))
	for name := range languages {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if languages[names[i]] != languages[names[j]] {
			return languages[names[i]] > languages[names[j]]
		}
		return names[i] < names[j]
	})

	if len(names) > keep {
		names = names[:keep]
	}

	bag := make(map[string]string, len(names))
	for _, name := range names {
		bag[name] = strconv.Itoa(languages[name])
	}
	return bag
}

// mapGitHubError translates client errors into domain errors.
func mapGitHubError(err error) error {
	switch {
	case errors.Is(err, github.ErrProfileNotFound):
		return shared.ErrGitHubUserNotFound

	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		return shared.ErrGitHubAPIUnavailable
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return shared.ErrGitHubAPIRateLimited
	}

	return fmt.Errorf("%w: %v", shared.ErrGitHubAPIUnavailable, err)
}
