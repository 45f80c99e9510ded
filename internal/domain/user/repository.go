package user

import (
	"context"

	"github.com/lora213/buddyhub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Реализация находится в infrastructure/persistence/postgres.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции над пользователями.
type Repository interface {
	// Create сохраняет нового пользователя.
	// Возвращает ErrUserAlreadyExists при конфликте по email.
	Create(ctx context.Context, u *User) error

	// GetByID возвращает пользователя по ID.
	// Возвращает ErrUserNotFound, если пользователь не найден.
	GetByID(ctx context.Context, id shared.UserID) (*User, error)

	// GetByEmail возвращает пользователя по нормализованному email.
	// Возвращает ErrUserNotFound, если пользователь не найден.
	GetByEmail(ctx context.Context, email shared.Email) (*User, error)

	// Update сохраняет изменения профиля пользователя.
	Update(ctx context.Context, u *User) error

	// ListMatchable возвращает ID всех пользователей, участвующих
	// в подборе, кроме указанного. Это пул кандидатов поиска матчей.
	ListMatchable(ctx context.Context, exclude shared.UserID) ([]shared.UserID, error)

	// GetPublicProfiles возвращает публичные профили для набора ID.
	// Отсутствующие ID молча пропускаются.
	GetPublicProfiles(ctx context.Context, ids []shared.UserID) (map[shared.UserID]PublicProfile, error)
}
