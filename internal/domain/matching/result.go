// Package matching содержит движок совместимости BuddyHub.
//
// Философия подбора: "Похожий уровень, дополняющие роли"
//
// При подборе напарника мы приоритизируем:
// 1. Пересечение технических навыков (похожий стек = общий язык)
// 2. Суммарную силу навыков (два сильных профиля тянут друг друга вверх)
// 3. Дополняющие роли менторства (seeking + offering = идеальная пара)
//
// НЕ приоритизируем:
// - Чистую величину балла одного пользователя (важна пара, не индивид)
// - Популярность профиля саму по себе
//
// Все функции пакета чистые и детерминированные: одинаковые наборы
// оценок всегда дают одинаковый результат.
package matching

import (
	"sort"
	"time"

	"github.com/lora213/buddyhub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Score представляет оценку совместимости (0-100).
type Score int

// IsValid проверяет корректность оценки.
func (s Score) IsValid() bool {
	return s >= 0 && s <= 100
}

// Int возвращает числовое значение.
func (s Score) Int() int {
	return int(s)
}

// Quality возвращает качественную оценку совместимости.
func (s Score) Quality() Quality {
	switch {
	case s >= 80:
		return QualityExcellent
	case s >= 60:
		return QualityGood
	case s >= 40:
		return QualityModerate
	default:
		return QualityLow
	}
}

// Quality определяет качество подбора.
type Quality string

const (
	// QualityExcellent - отличная совместимость (80-100).
	QualityExcellent Quality = "excellent"

	// QualityGood - хорошая совместимость (60-79).
	QualityGood Quality = "good"

	// QualityModerate - умеренная совместимость (40-59).
	QualityModerate Quality = "moderate"

	// QualityLow - низкая совместимость (0-39).
	QualityLow Quality = "low"
)

// Note помечает компоненты, посчитанные не по основной формуле.
type Note string

const (
	// NoteInsufficientData - у одной из сторон нет оценок в категории.
	NoteInsufficientData Note = "insufficient_data"

	// NoteNoOverlap - оценки есть, но общих подкатегорий нет.
	NoteNoOverlap Note = "no_overlap"
)

// ══════════════════════════════════════════════════════════════════════════════
// COMPATIBILITY RESULT
// Эфемерный результат: живёт только в рамках одного расчёта подбора
// и сохраняется лишь как снимок внутри принятого запроса/соединения.
// ══════════════════════════════════════════════════════════════════════════════

// Detail - подетальное сравнение одной подкатегории.
type Detail struct {
	// User1Score - балл первого пользователя (1-5).
	User1Score int `json:"user1_score"`

	// User2Score - балл второго пользователя (1-5).
	User2Score int `json:"user2_score"`

	// Similarity - близость баллов (0-100).
	Similarity int `json:"similarity"`

	// Complementarity - суммарная сила пары (0-100, только для технических).
	Complementarity int `json:"complementarity,omitempty"`
}

// AttributeDetail - сравнение одного личного атрибута.
type AttributeDetail struct {
	// User1Value - значение атрибута первого пользователя.
	User1Value string `json:"user1_value"`

	// User2Value - значение атрибута второго пользователя.
	User2Value string `json:"user2_value"`

	// Score - оценка совпадения атрибута (0-100).
	Score int `json:"score"`
}

// Component - результат сравнения одной категории.
type Component struct {
	// Score - итоговая оценка компонента (0-100).
	Score int `json:"score"`

	// Similarity - средняя близость по пересёкшимся подкатегориям (0-100).
	Similarity int `json:"similarity,omitempty"`

	// Complementarity - средняя суммарная сила (0-100, только для технических).
	Complementarity int `json:"complementarity,omitempty"`

	// Note - причина отклонения от основной формулы (если есть).
	Note Note `json:"note,omitempty"`

	// Details - сравнение по подкатегориям.
	Details map[string]Detail `json:"details,omitempty"`
}

// PersonalComponent - результат сравнения личных атрибутов.
type PersonalComponent struct {
	// Score - итоговая оценка компонента (0-100).
	Score int `json:"score"`

	// Note - причина отклонения от основной формулы (если есть).
	Note Note `json:"note,omitempty"`

	// Details - сравнение по атрибутам.
	Details map[string]AttributeDetail `json:"details,omitempty"`
}

// Result - полный результат расчёта совместимости двух пользователей.
// Инварианты: Overall и все оценки компонентов — целые в [0,100];
// Overall симметричен относительно перестановки аргументов.
type Result struct {
	// Overall - общая оценка совместимости (0-100).
	Overall int `json:"overall"`

	// Technical - технический компонент (вес 0.4).
	Technical Component `json:"technical"`

	// Social - социальный компонент (вес 0.4).
	Social Component `json:"social"`

	// Personal - личный компонент (вес 0.2).
	Personal PersonalComponent `json:"personal"`
}

// Quality возвращает качество совместимости.
func (r Result) Quality() Quality {
	return Score(r.Overall).Quality()
}

// ══════════════════════════════════════════════════════════════════════════════
// MATCH CANDIDATE
// Транзиентный кандидат подбора: становится персистентным только когда
// пользователь отправляет запрос на матч.
// ══════════════════════════════════════════════════════════════════════════════

// PublicProfile - публичные поля профиля кандидата, денормализованные в ответ.
type PublicProfile struct {
	ID                      string `json:"id"`
	FullName                string `json:"full_name"`
	Email                   string `json:"email"`
	LearningStyle           string `json:"learning_style,omitempty"`
	CollaborationPreference int    `json:"collaboration_preference,omitempty"`
	MentorshipType          string `json:"mentorship_type,omitempty"`
}

// Candidate представляет кандидата в результатах подбора.
type Candidate struct {
	// MatchID - ID пользователя-кандидата.
	MatchID shared.UserID `json:"match_id"`

	// MatchedUser - публичный профиль кандидата.
	MatchedUser PublicProfile `json:"matched_user"`

	// CompatibilityScore - общая оценка совместимости (0-100).
	CompatibilityScore int `json:"compatibility_score"`

	// MatchDetails - снимок полного результата расчёта.
	MatchDetails Result `json:"match_details"`

	// MatchReason - сгенерированное текстовое объяснение.
	MatchReason string `json:"match_reason"`

	// Status - всегда "pending" для ещё не отправленных предложений.
	Status string `json:"status"`

	// ComputedAt - когда кандидат был посчитан.
	ComputedAt time.Time `json:"-"`
}

// CandidateList - список кандидатов с методами ранжирования.
type CandidateList []Candidate

// Len возвращает длину списка.
func (c CandidateList) Len() int {
	return len(c)
}

// Less сравнивает по оценке совместимости (по убыванию); при равенстве —
// по ID кандидата, чтобы порядок был детерминированным.
func (c CandidateList) Less(i, j int) bool {
	if c[i].CompatibilityScore != c[j].CompatibilityScore {
		return c[i].CompatibilityScore > c[j].CompatibilityScore
	}
	return c[i].MatchID < c[j].MatchID
}

// Swap меняет элементы местами.
func (c CandidateList) Swap(i, j int) {
	c[i], c[j] = c[j], c[i]
}

// Sort сортирует по убыванию совместимости.
func (c CandidateList) Sort() {
	sort.Sort(c)
}

// TopN возвращает топ N кандидатов.
func (c CandidateList) TopN(n int) CandidateList {
	if n >= len(c) {
		return c
	}
	return c[:n]
}

// Exclude возвращает список без кандидатов из набора исключений.
// Пост-фильтр вызывающей стороны: сюда попадают уже соединённые пользователи
// и пары с существующим запросом на матч.
func (c CandidateList) Exclude(excluded map[shared.UserID]bool) CandidateList {
	if len(excluded) == 0 {
		return c
	}
	filtered := make(CandidateList, 0, len(c))
	for _, candidate := range c {
		if !excluded[candidate.MatchID] {
			filtered = append(filtered, candidate)
		}
	}
	return filtered
}
