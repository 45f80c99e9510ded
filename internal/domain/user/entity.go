// Package user содержит доменную модель пользователя BuddyHub.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package user

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lora213/buddyhub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// GitHubUsername представляет логин пользователя на GitHub.
type GitHubUsername string

// IsValid проверяет корректность логина GitHub.
// Пустое значение допустимо: профиль GitHub опционален.
func (g GitHubUsername) IsValid() bool {
	s := string(g)
	if s == "" {
		return true
	}
	return len(s) <= 39 && !strings.ContainsAny(s, " \t\n\r@/")
}

// IsSet возвращает true, если логин указан.
func (g GitHubUsername) IsSet() bool {
	return len(g) > 0
}

// String возвращает строковое представление логина.
func (g GitHubUsername) String() string {
	return string(g)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// Status определяет текущий статус пользователя на платформе.
type Status string

const (
	// StatusActive - пользователь активен и участвует в подборе.
	StatusActive Status = "active"
	// StatusInactive - пользователь давно не заходил.
	StatusInactive Status = "inactive"
	// StatusDeactivated - аккаунт деактивирован.
	StatusDeactivated Status = "deactivated"
)

// IsValid проверяет, что статус корректен.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeactivated:
		return true
	default:
		return false
	}
}

// IsMatchable возвращает true, если пользователь участвует в подборе бадди.
func (s Status) IsMatchable() bool {
	return s == StatusActive || s == StatusInactive
}

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: USER
// ══════════════════════════════════════════════════════════════════════════════

// User - центральная сущность системы, представляющая участника BuddyHub.
type User struct {
	// ID - внутренний уникальный идентификатор (UUID в строковом формате).
	ID shared.UserID

	// Email - адрес электронной почты (нормализованный, уникальный).
	Email shared.Email

	// PasswordHash - bcrypt-хеш пароля. Никогда не сериализуется наружу.
	PasswordHash string

	// FullName - отображаемое имя.
	FullName string

	// GitHubUsername - логин на GitHub (опционально, источник анализа профиля).
	GitHubUsername GitHubUsername

	// LinkedInURL - ссылка на профиль LinkedIn (опционально).
	LinkedInURL string

	// Bio - короткое описание о себе.
	Bio string

	// Status - текущий статус на платформе.
	Status Status

	// LastSeenAt - время последней активности.
	LastSeenAt time.Time

	// CreatedAt - время регистрации.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time
}

// NewUserParams параметры для создания пользователя.
type NewUserParams struct {
	ID             shared.UserID
	Email          string
	PasswordHash   string
	FullName       string
	GitHubUsername GitHubUsername
	LinkedInURL    string
	Bio            string
}

// NewUser создаёт нового активного пользователя.
// Email нормализуется, хеш пароля принимается готовым:
// хеширование — забота application-слоя.
func NewUser(params NewUserParams) (*User, error) {
	if !params.ID.IsValid() {
		return nil, shared.ErrInvalidID
	}

	email, err := shared.NewEmail(params.Email)
	if err != nil {
		return nil, err
	}

	if params.PasswordHash == "" {
		return nil, errors.New("password hash is required")
	}

	if strings.TrimSpace(params.FullName) == "" {
		return nil, shared.ErrEmptyValue
	}

	if !params.GitHubUsername.IsValid() {
		return nil, shared.WrapError("user", "Create", shared.ErrInvalidFormat, "invalid github username", nil)
	}

	now := time.Now().UTC()

	return &User{
		ID:             params.ID,
		Email:          email,
		PasswordHash:   params.PasswordHash,
		FullName:       strings.TrimSpace(params.FullName),
		GitHubUsername: params.GitHubUsername,
		LinkedInURL:    params.LinkedInURL,
		Bio:            params.Bio,
		Status:         StatusActive,
		LastSeenAt:     now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// Touch обновляет время последней активности.
func (u *User) Touch() {
	now := time.Now().UTC()
	u.LastSeenAt = now
	u.UpdatedAt = now
	if u.Status == StatusInactive {
		u.Status = StatusActive
	}
}

// Deactivate деактивирует аккаунт. Деактивированные пользователи
// не участвуют в подборе.
func (u *User) Deactivate() {
	u.Status = StatusDeactivated
	u.UpdatedAt = time.Now().UTC()
}

// UpdateProfileParams параметры обновления профиля.
// Nil-поле означает "не менять".
type UpdateProfileParams struct {
	FullName       *string
	GitHubUsername *GitHubUsername
	LinkedInURL    *string
	Bio            *string
}

// UpdateProfile применяет частичное обновление профиля.
func (u *User) UpdateProfile(params UpdateProfileParams) error {
	if params.FullName != nil {
		name := strings.TrimSpace(*params.FullName)
		if name == "" {
			return shared.ErrEmptyValue
		}
		u.FullName = name
	}

	if params.GitHubUsername != nil {
		if !params.GitHubUsername.IsValid() {
			return shared.WrapError("user", "UpdateProfile", shared.ErrInvalidFormat, "invalid github username", nil)
		}
		u.GitHubUsername = *params.GitHubUsername
	}

	if params.LinkedInURL != nil {
		u.LinkedInURL = *params.LinkedInURL
	}

	if params.Bio != nil {
		u.Bio = *params.Bio
	}

	u.UpdatedAt = time.Now().UTC()
	return nil
}

// PublicProfile возвращает проекцию пользователя, безопасную
// для показа другим участникам.
func (u *User) PublicProfile() PublicProfile {
	return PublicProfile{
		ID:             u.ID,
		Email:          u.Email,
		FullName:       u.FullName,
		GitHubUsername: u.GitHubUsername.String(),
		Bio:            u.Bio,
	}
}

// String возвращает строковое представление для логирования.
// Email и хеш пароля намеренно не включаются.
func (u *User) String() string {
	return fmt.Sprintf("User{ID: %s, Name: %s, Status: %s}", u.ID, u.FullName, u.Status)
}

// PublicProfile - публичная проекция пользователя.
// Email участников виден внутри платформы: это канал связи после матча.
type PublicProfile struct {
	ID             shared.UserID
	Email          shared.Email
	FullName       string
	GitHubUsername string
	Bio            string
}
