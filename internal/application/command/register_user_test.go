package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lora213/buddyhub/internal/domain/shared"
)

func TestRegisterUser(t *testing.T) {
	users := newFakeUserRepo()
	handler := NewRegisterUserHandler(users, shared.NopPublisher{}, testLogger())

	result, err := handler.Handle(context.Background(), RegisterUserCommand{
		Email:          "Alice@Example.com",
		Password:       "correct-horse",
		FullName:       "Alice",
		GitHubUsername: "alice-gh",
	})

	require.NoError(t, err)

	saved, err := users.GetByID(context.Background(), result.UserID)
	require.NoError(t, err)
	assert.Equal(t, shared.Email("alice@example.com"), saved.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("correct-horse")))
	assert.NotEqual(t, "correct-horse", saved.PasswordHash)

	require.Len(t, result.Events, 1)
	assert.Equal(t, shared.EventUserRegistered, result.Events[0].EventType())
}

func TestRegisterUser_WeakPassword(t *testing.T) {
	handler := NewRegisterUserHandler(newFakeUserRepo(), shared.NopPublisher{}, testLogger())

	_, err := handler.Handle(context.Background(), RegisterUserCommand{
		Email:    "alice@example.com",
		Password: "short",
		FullName: "Alice",
	})

	assert.ErrorIs(t, err, shared.ErrWeakPassword)
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	handler := NewRegisterUserHandler(users, shared.NopPublisher{}, testLogger())
	ctx := context.Background()

	_, err := handler.Handle(ctx, RegisterUserCommand{
		Email: "alice@example.com", Password: "correct-horse", FullName: "Alice",
	})
	require.NoError(t, err)

	_, err = handler.Handle(ctx, RegisterUserCommand{
		Email: "ALICE@example.com", Password: "correct-horse", FullName: "Other Alice",
	})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}
