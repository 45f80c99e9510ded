package matching

import (
	"strings"
)

// ══════════════════════════════════════════════════════════════════════════════
// MATCH REASON
// Детерминированный текст-объяснение подбора. Чистая функция от Result:
// пороги (80/60/40 по общей оценке, 70 по компонентам) — продуктовая
// политика, сохранённая без изменений.
// ══════════════════════════════════════════════════════════════════════════════

// Порог, начиная с которого компонент считается сильной стороной пары.
const strongComponentThreshold = 70

// GenerateReason возвращает текстовое объяснение результата подбора.
// Одинаковый Result всегда даёт одинаковую строку.
func GenerateReason(result Result) string {
	strengths := strongComponents(result)

	switch {
	case result.Overall >= 80:
		return composeReason("You two are an excellent match", strengths,
			"your profiles align strongly across the board")
	case result.Overall >= 60:
		return composeReason("You two are a good match", strengths,
			"your profiles have solid common ground")
	case result.Overall >= 40:
		return composeReason("You two are a moderate match", strengths,
			"there is some common ground to build on")
	default:
		return "Your profiles could be interesting to explore together."
	}
}

// strongComponents возвращает клаузы для компонентов с оценкой >= 70,
// в фиксированном порядке technical, social, personal.
func strongComponents(result Result) []string {
	var strengths []string
	if result.Technical.Score >= strongComponentThreshold {
		strengths = append(strengths, "your technical skills complement each other")
	}
	if result.Social.Score >= strongComponentThreshold {
		strengths = append(strengths, "your public profiles are similarly strong")
	}
	if result.Personal.Score >= strongComponentThreshold {
		strengths = append(strengths, "your learning preferences fit well together")
	}
	return strengths
}

// composeReason склеивает базовую фразу с сильными сторонами.
func composeReason(base string, strengths []string, fallback string) string {
	if len(strengths) == 0 {
		return base + ": " + fallback + "."
	}
	return base + ": " + strings.Join(strengths, ", and ") + "."
}
