package rubric

import (
	"context"

	"github.com/lora213/buddyhub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Контракт хранилища рубричных оценок (Score Store).
// Реализация находится в infrastructure/persistence/postgres.
// ══════════════════════════════════════════════════════════════════════════════

// Repository определяет операции над рубричными оценками.
type Repository interface {
	// GetByUserID возвращает все оценки пользователя.
	// Пустой набор — не ошибка: пользователь просто ещё не анализировался.
	GetByUserID(ctx context.Context, userID shared.UserID) (ScoreSet, error)

	// ReplaceCategory атомарно заменяет все оценки пользователя в категории:
	// delete-then-insert в одной транзакции. Инкрементального upsert по
	// подкатегориям нет — повторный анализ всегда перезаписывает категорию целиком.
	ReplaceCategory(ctx context.Context, userID shared.UserID, category Category, scores []RubricScore) error

	// CountByUserID возвращает количество оценок пользователя.
	CountByUserID(ctx context.Context, userID shared.UserID) (int, error)
}
