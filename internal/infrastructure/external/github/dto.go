// Package github implements a minimal GitHub REST API client.
// This package handles the external profile fetching used by profile
// analysis: the authenticated user's public profile and repositories.
package github

import (
	"fmt"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROFILE DTOs
// ══════════════════════════════════════════════════════════════════════════════

// UserDTO represents a user as returned by the GitHub API.
// This is the external representation that the profile analyzer
// converts into rubric scores.
type UserDTO struct {
	// Login is the GitHub username.
	Login string `json:"login"`

	// Name is the display name (may be empty).
	Name string `json:"name,omitempty"`

	// Bio is the profile bio.
	Bio string `json:"bio,omitempty"`

	// Company is the company field.
	Company string `json:"company,omitempty"`

	// Blog is the website URL.
	Blog string `json:"blog,omitempty"`

	// PublicRepos is the number of public repositories.
	PublicRepos int `json:"public_repos"`

	// PublicGists is the number of public gists.
	PublicGists int `json:"public_gists"`

	// Followers is the follower count.
	Followers int `json:"followers"`

	// Following is the following count.
	Following int `json:"following"`

	// CreatedAt is when the account was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the profile was last updated.
	UpdatedAt time.Time `json:"updated_at"`
}

// RepoDTO represents a repository as returned by the GitHub API.
type RepoDTO struct {
	// Name is the repository name.
	Name string `json:"name"`

	// FullName is "owner/name".
	FullName string `json:"full_name"`

	// Fork reports whether the repository is a fork.
	Fork bool `json:"fork"`

	// Language is the dominant language (may be empty).
	Language string `json:"language,omitempty"`

	// StargazersCount is the star count.
	StargazersCount int `json:"stargazers_count"`

	// ForksCount is the fork count.
	ForksCount int `json:"forks_count"`

	// Size is the repository size in KB.
	Size int `json:"size"`

	// Topics are the repository topics.
	Topics []string `json:"topics,omitempty"`

	// PushedAt is the time of the last push.
	PushedAt time.Time `json:"pushed_at"`

	// CreatedAt is when the repository was created.
	CreatedAt time.Time `json:"created_at"`
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR DTOs
// ══════════════════════════════════════════════════════════════════════════════

// APIErrorDTO represents an error response from the GitHub API.
type APIErrorDTO struct {
	// Message is the error message.
	Message string `json:"message"`

	// DocumentationURL points to the relevant API docs.
	DocumentationURL string `json:"documentation_url,omitempty"`

	// StatusCode is the HTTP status code (set by the client).
	StatusCode int `json:"-"`
}

// Error implements the error interface.
func (e *APIErrorDTO) Error() string {
	return fmt.Sprintf("github api error (status %d): %s", e.StatusCode, e.Message)
}

// RateLimitError indicates the GitHub rate limit is exhausted.
type RateLimitError struct {
	// ResetAt is when the rate limit window resets.
	ResetAt time.Time
}

// Error implements the error interface.
func (e *RateLimitError) Error() string {
	return fmt.Sprintf("github rate limit exceeded, resets at %s", e.ResetAt.Format(time.RFC3339))
}
