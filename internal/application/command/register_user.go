package command

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/lora213/buddyhub/internal/domain/shared"
	"github.com/lora213/buddyhub/internal/domain/user"
	"github.com/lora213/buddyhub/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER USER COMMAND
// ══════════════════════════════════════════════════════════════════════════════

const minPasswordLength = 8

// RegisterUserCommand contains the data to register a new user.
type RegisterUserCommand struct {
	// Email is the user's email address.
	Email string

	// Password is the plaintext password. Hashed here, never stored.
	Password string

	// FullName is the display name.
	FullName string

	// GitHubUsername is the optional GitHub login.
	GitHubUsername string

	// LinkedInURL is the optional LinkedIn profile URL.
	LinkedInURL string

	// Bio is an optional short description.
	Bio string

	// CorrelationID for tracing.
	CorrelationID string
}

// Validate validates the command.
func (c RegisterUserCommand) Validate() error {
	if c.Email == "" {
		return shared.NewDomainError("user", "Register", shared.ErrEmptyValue, "email is required")
	}
	if utf8.RuneCountInString(c.Password) < minPasswordLength {
		return shared.ErrWeakPassword
	}
	if c.FullName == "" {
		return shared.NewDomainError("user", "Register", shared.ErrEmptyValue, "full_name is required")
	}
	return nil
}

// RegisterUserResult contains the result of registering a user.
type RegisterUserResult struct {
	// UserID is the ID of the created user.
	UserID shared.UserID

	// Events contains domain events generated.
	Events []shared.Event
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RegisterUserHandler handles the RegisterUserCommand.
type RegisterUserHandler struct {
	userRepo       user.Repository
	eventPublisher shared.EventPublisher
	log            *logger.Logger
}

// NewRegisterUserHandler creates a new RegisterUserHandler.
func NewRegisterUserHandler(
	userRepo user.Repository,
	eventPublisher shared.EventPublisher,
	log *logger.Logger,
) *RegisterUserHandler {
	return &RegisterUserHandler{
		userRepo:       userRepo,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

// Handle executes the register user command.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*RegisterUserResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register_user: failed to hash password: %w", err)
	}

	u, err := user.NewUser(user.NewUserParams{
		ID:             shared.UserID(uuid.NewString()),
		Email:          cmd.Email,
		PasswordHash:   string(hash),
		FullName:       cmd.FullName,
		GitHubUsername: user.GitHubUsername(cmd.GitHubUsername),
		LinkedInURL:    cmd.LinkedInURL,
		Bio:            cmd.Bio,
	})
	if err != nil {
		return nil, fmt.Errorf("register_user: %w", err)
	}

	if err := h.userRepo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("register_user: failed to save: %w", err)
	}

	h.log.Info("user registered",
		logger.String("user_id", string(u.ID)),
		logger.Bool("has_github", u.GitHubUsername.IsSet()))

	result := &RegisterUserResult{
		UserID: u.ID,
		Events: make([]shared.Event, 0, 1),
	}

	event := shared.NewUserRegisteredEvent(string(u.ID), string(u.Email), u.FullName)
	if cmd.CorrelationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
	}
	result.Events = append(result.Events, event)
	_ = h.eventPublisher.Publish(event)

	return result, nil
}
