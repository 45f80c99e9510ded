// Package rubric содержит доменную модель рубричных оценок BuddyHub.
// Рубричная оценка — это один балл 1–5 для пары (категория, подкатегория),
// описывающий грань профиля пользователя. Оценки создаются анализом
// подключённых профилей (GitHub, LinkedIn) и настройками предпочтений,
// и служат единственным входом движка совместимости.
package rubric

import (
	"errors"
	"fmt"
	"time"

	"github.com/lora213/buddyhub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Category определяет категорию рубричной оценки.
type Category string

const (
	// CategoryTechnicalSkills - технические навыки (языки, фреймворки, инструменты).
	CategoryTechnicalSkills Category = "technical_skills"

	// CategorySocialBlueprint - социальный профиль (GitHub, LinkedIn и т.д.).
	CategorySocialBlueprint Category = "social_blueprint"

	// CategoryPersonalAttributes - личные предпочтения (стиль обучения и т.д.).
	CategoryPersonalAttributes Category = "personal_attributes"
)

// IsValid проверяет корректность категории.
func (c Category) IsValid() bool {
	switch c {
	case CategoryTechnicalSkills, CategorySocialBlueprint, CategoryPersonalAttributes:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление.
func (c Category) String() string {
	return string(c)
}

// AllCategories возвращает все известные категории.
func AllCategories() []Category {
	return []Category{CategoryTechnicalSkills, CategorySocialBlueprint, CategoryPersonalAttributes}
}

// Известные подкатегории. Подкатегории сопоставляются по соглашению:
// движок совместимости сравнивает пользователей по одинаковым ключам.
const (
	// SubcategoryProgrammingLanguages - владение языками программирования.
	SubcategoryProgrammingLanguages = "programming_languages"

	// SubcategoryFrameworks - владение фреймворками.
	SubcategoryFrameworks = "frameworks"

	// SubcategoryProjectComplexity - сложность публичных проектов.
	SubcategoryProjectComplexity = "project_complexity"

	// SubcategoryGitHubProfile - сила GitHub-профиля.
	SubcategoryGitHubProfile = "github_profile"

	// SubcategoryLinkedInProfile - сила LinkedIn-профиля.
	SubcategoryLinkedInProfile = "linkedin_profile"

	// SubcategoryLearningStyle - стиль обучения (visual, hands_on, reading...).
	SubcategoryLearningStyle = "learning_style"

	// SubcategoryCollaborationPreference - предпочтение по совместной работе (1-5).
	SubcategoryCollaborationPreference = "collaboration_preference"

	// SubcategoryMentorshipType - роль в менторстве (seeking/offering/peer/mixed).
	SubcategoryMentorshipType = "mentorship_type"
)

// ScoreValue представляет балл рубрики (1-5).
type ScoreValue int

// IsValid проверяет, что балл в допустимом диапазоне.
func (s ScoreValue) IsValid() bool {
	return s >= 1 && s <= 5
}

// Int возвращает числовое значение.
func (s ScoreValue) Int() int {
	return int(s)
}

// MentorshipType определяет роль пользователя в менторстве.
type MentorshipType string

const (
	// MentorshipSeeking - ищет ментора.
	MentorshipSeeking MentorshipType = "seeking"

	// MentorshipOffering - готов быть ментором.
	MentorshipOffering MentorshipType = "offering"

	// MentorshipPeer - ищет равного напарника.
	MentorshipPeer MentorshipType = "peer"

	// MentorshipMixed - открыт к любой роли.
	MentorshipMixed MentorshipType = "mixed"
)

// IsValid проверяет корректность типа менторства.
func (m MentorshipType) IsValid() bool {
	switch m {
	case MentorshipSeeking, MentorshipOffering, MentorshipPeer, MentorshipMixed:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление.
func (m MentorshipType) String() string {
	return string(m)
}

// ══════════════════════════════════════════════════════════════════════════════
// METADATA
// Типизированный вариант вместо свободного мешка ключ/значение: движок
// совместимости разбирает метаданные по-разному для каждой подкатегории,
// поэтому вид метаданных фиксируется явным дискриминантом.
// ══════════════════════════════════════════════════════════════════════════════

// MetadataKind определяет вид метаданных оценки.
type MetadataKind string

const (
	// MetadataNone - метаданных нет (балл самодостаточен).
	MetadataNone MetadataKind = "none"

	// MetadataText - строковое значение (например, learning_style).
	MetadataText MetadataKind = "text"

	// MetadataMentorship - категориальное значение типа менторства.
	MetadataMentorship MetadataKind = "mentorship"

	// MetadataBag - свободные пары ключ/значение (детали анализа профиля).
	MetadataBag MetadataKind = "bag"
)

// IsValid проверяет корректность вида метаданных.
func (k MetadataKind) IsValid() bool {
	switch k {
	case MetadataNone, MetadataText, MetadataMentorship, MetadataBag:
		return true
	default:
		return false
	}
}

// Metadata - типизированные метаданные рубричной оценки.
type Metadata struct {
	// Kind - дискриминант варианта.
	Kind MetadataKind

	// Value - значение для Text и Mentorship.
	Value string

	// Bag - свободные пары для Kind == MetadataBag.
	Bag map[string]string
}

// NoMetadata возвращает пустые метаданные.
func NoMetadata() Metadata {
	return Metadata{Kind: MetadataNone}
}

// TextMetadata возвращает строковые метаданные.
func TextMetadata(value string) Metadata {
	return Metadata{Kind: MetadataText, Value: value}
}

// MentorshipMetadata возвращает метаданные типа менторства.
func MentorshipMetadata(t MentorshipType) Metadata {
	return Metadata{Kind: MetadataMentorship, Value: string(t)}
}

// BagMetadata возвращает метаданные-мешок.
func BagMetadata(bag map[string]string) Metadata {
	return Metadata{Kind: MetadataBag, Bag: bag}
}

// HasValue возвращает true, если метаданные несут непустое значение.
func (m Metadata) HasValue() bool {
	return (m.Kind == MetadataText || m.Kind == MetadataMentorship) && m.Value != ""
}

// Mentorship возвращает тип менторства из метаданных.
func (m Metadata) Mentorship() (MentorshipType, bool) {
	if m.Kind != MetadataMentorship {
		return "", false
	}
	t := MentorshipType(m.Value)
	if !t.IsValid() {
		return "", false
	}
	return t, true
}

// Validate проверяет согласованность метаданных.
func (m Metadata) Validate() error {
	if !m.Kind.IsValid() {
		return shared.ErrInvalidMetadata
	}
	if m.Kind == MetadataMentorship {
		if _, ok := m.Mentorship(); !ok {
			return shared.ErrInvalidMetadata
		}
	}
	return nil
}

// ExpectedMetadataKind возвращает вид метаданных, ожидаемый для подкатегории.
// Неизвестные подкатегории допускают любой вид (мешок по умолчанию).
func ExpectedMetadataKind(subcategory string) (MetadataKind, bool) {
	switch subcategory {
	case SubcategoryLearningStyle:
		return MetadataText, true
	case SubcategoryMentorshipType:
		return MetadataMentorship, true
	case SubcategoryCollaborationPreference:
		return MetadataNone, true
	default:
		return MetadataBag, false
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITY: RUBRIC SCORE
// ══════════════════════════════════════════════════════════════════════════════

// RubricScore - одна рубричная оценка пользователя.
// Пара (категория, подкатегория) трактуется как уникальная в рамках
// пользователя: при повторном анализе весь набор категории заменяется целиком.
type RubricScore struct {
	// ID - уникальный идентификатор оценки (UUID).
	ID string

	// UserID - владелец оценки.
	UserID shared.UserID

	// Category - категория оценки.
	Category Category

	// Subcategory - ключ подкатегории (свободная строка по соглашению).
	Subcategory string

	// Score - балл 1-5.
	Score ScoreValue

	// Metadata - типизированные метаданные.
	Metadata Metadata

	// CreatedAt - когда оценка создана.
	CreatedAt time.Time
}

// NewRubricScoreParams параметры для создания оценки.
type NewRubricScoreParams struct {
	ID          string
	UserID      shared.UserID
	Category    Category
	Subcategory string
	Score       ScoreValue
	Metadata    Metadata
}

// NewRubricScore создаёт новую рубричную оценку.
func NewRubricScore(params NewRubricScoreParams) (*RubricScore, error) {
	if params.ID == "" {
		return nil, errors.New("rubric score id is required")
	}

	if !params.UserID.IsValid() {
		return nil, shared.ErrInvalidID
	}

	if !params.Category.IsValid() {
		return nil, shared.ErrInvalidCategory
	}

	if params.Subcategory == "" {
		return nil, shared.ErrEmptySubcategory
	}

	if !params.Score.IsValid() {
		return nil, shared.ErrInvalidScoreValue
	}

	if err := params.Metadata.Validate(); err != nil {
		return nil, err
	}

	if expected, strict := ExpectedMetadataKind(params.Subcategory); strict &&
		params.Metadata.Kind != expected && params.Metadata.Kind != MetadataNone {
		return nil, shared.ErrMetadataKindMismatch
	}

	return &RubricScore{
		ID:          params.ID,
		UserID:      params.UserID,
		Category:    params.Category,
		Subcategory: params.Subcategory,
		Score:       params.Score,
		Metadata:    params.Metadata,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// String возвращает строковое представление для логирования.
func (r *RubricScore) String() string {
	return fmt.Sprintf("RubricScore{User: %s, %s/%s = %d}", r.UserID, r.Category, r.Subcategory, r.Score)
}

// ══════════════════════════════════════════════════════════════════════════════
// SCORE SET
// Полный набор оценок пользователя с методами доступа для движка.
// ══════════════════════════════════════════════════════════════════════════════

// ScoreSet - набор рубричных оценок одного пользователя.
// Порядок элементов не имеет значения.
type ScoreSet []RubricScore

// IsEmpty возвращает true, если оценок нет.
func (s ScoreSet) IsEmpty() bool {
	return len(s) == 0
}

// Category возвращает подмножество оценок категории.
func (s ScoreSet) Category(cat Category) ScoreSet {
	subset := make(ScoreSet, 0, len(s))
	for _, score := range s {
		if score.Category == cat {
			subset = append(subset, score)
		}
	}
	return subset
}

// SubcategoryScores строит карту подкатегория → балл для категории.
// Последняя оценка побеждает, если хранилище содержит дубликаты:
// уникальность пары (категория, подкатегория) — соглашение, не констрейнт.
func (s ScoreSet) SubcategoryScores(cat Category) map[string]int {
	scores := make(map[string]int)
	for _, score := range s {
		if score.Category == cat {
			scores[score.Subcategory] = score.Score.Int()
		}
	}
	return scores
}

// Find возвращает оценку по категории и подкатегории.
func (s ScoreSet) Find(cat Category, subcategory string) (*RubricScore, bool) {
	for i := range s {
		if s[i].Category == cat && s[i].Subcategory == subcategory {
			return &s[i], true
		}
	}
	return nil, false
}
