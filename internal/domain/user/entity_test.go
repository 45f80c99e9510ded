package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lora213/buddyhub/internal/domain/shared"
)

const testUserID = shared.UserID("6f1c1a2b-0d3e-4b5f-8a9c-112233445566")

func validParams() NewUserParams {
	return NewUserParams{
		ID:             testUserID,
		Email:          "Alex@Example.COM",
		PasswordHash:   "$2a$10$abcdefghijklmnopqrstuv",
		FullName:       "  Alex Kim  ",
		GitHubUsername: "alexkim",
	}
}

func TestNewUser(t *testing.T) {
	u, err := NewUser(validParams())

	require.NoError(t, err)
	assert.Equal(t, shared.Email("alex@example.com"), u.Email)
	assert.Equal(t, "Alex Kim", u.FullName)
	assert.Equal(t, StatusActive, u.Status)
}

func TestNewUser_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*NewUserParams)
	}{
		{"invalid id", func(p *NewUserParams) { p.ID = "nope" }},
		{"invalid email", func(p *NewUserParams) { p.Email = "not-an-email" }},
		{"missing hash", func(p *NewUserParams) { p.PasswordHash = "" }},
		{"blank name", func(p *NewUserParams) { p.FullName = "   " }},
		{"bad github login", func(p *NewUserParams) { p.GitHubUsername = "has space" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)
			_, err := NewUser(params)
			assert.Error(t, err)
		})
	}
}

func TestGitHubUsername_EmptyIsValid(t *testing.T) {
	assert.True(t, GitHubUsername("").IsValid())
	assert.False(t, GitHubUsername("").IsSet())
}

func TestUser_UpdateProfile(t *testing.T) {
	u, err := NewUser(validParams())
	require.NoError(t, err)

	name := "Alex K."
	gh := GitHubUsername("alex-k")
	require.NoError(t, u.UpdateProfile(UpdateProfileParams{FullName: &name, GitHubUsername: &gh}))

	assert.Equal(t, "Alex K.", u.FullName)
	assert.Equal(t, gh, u.GitHubUsername)

	blank := " "
	assert.Error(t, u.UpdateProfile(UpdateProfileParams{FullName: &blank}))
}

func TestUser_PublicProfileHidesCredentials(t *testing.T) {
	u, err := NewUser(validParams())
	require.NoError(t, err)

	profile := u.PublicProfile()

	assert.Equal(t, testUserID, profile.ID)
	assert.Equal(t, "Alex Kim", profile.FullName)
	assert.NotContains(t, u.String(), "alex@example.com")
	assert.NotContains(t, u.String(), u.PasswordHash)
}

func TestUser_Deactivate(t *testing.T) {
	u, err := NewUser(validParams())
	require.NoError(t, err)

	u.Deactivate()

	assert.Equal(t, StatusDeactivated, u.Status)
	assert.False(t, u.Status.IsMatchable())
}
