package matching

import (
	"math"
	"sort"
	"strconv"

	"github.com/lora213/buddyhub/internal/domain/rubric"
)

// ══════════════════════════════════════════════════════════════════════════════
// WEIGHT CONFIGURATION
// Пороговые значения и веса — эвристика, перенесённая без изменений
// из продуктовой политики. Это выбор политики, а не выведенная формула.
// ══════════════════════════════════════════════════════════════════════════════

// Weights - веса и запасные оценки движка совместимости.
type Weights struct {
	// Technical - вес технического компонента в общей оценке.
	Technical float64

	// Social - вес социального компонента в общей оценке.
	Social float64

	// Personal - вес личного компонента в общей оценке.
	Personal float64

	// Similarity - вес близости внутри технического компонента.
	Similarity float64

	// Complementarity - вес суммарной силы внутри технического компонента.
	Complementarity float64

	// InsufficientData - оценка компонента при отсутствии данных с одной стороны.
	InsufficientData int

	// NoTechnicalOverlap - оценка при отсутствии общих технических подкатегорий.
	NoTechnicalOverlap int

	// NoSocialOverlap - оценка при отсутствии общих социальных платформ.
	NoSocialOverlap int
}

// DefaultWeights возвращает веса по умолчанию.
func DefaultWeights() Weights {
	return Weights{
		Technical:          0.4,
		Social:             0.4,
		Personal:           0.2,
		Similarity:         0.4,
		Complementarity:    0.6,
		InsufficientData:   50,
		NoTechnicalOverlap: 40,
		NoSocialOverlap:    30,
	}
}

// Оценки совпадения личных атрибутов.
const (
	learningStyleExact   = 100
	learningStyleDiffer  = 60
	learningStyleNoValue = 50
	mentorshipComplement = 100 // seeking + offering
	mentorshipPeerPair   = 90  // peer + peer
	mentorshipMixedParty = 70  // хотя бы одна сторона mixed
	mentorshipFallback   = 50
	personalNoAttributes = 50
)

// ══════════════════════════════════════════════════════════════════════════════
// ENGINE
// Чистая функция: никаких побочных эффектов, никакого доступа к хранилищу.
// ══════════════════════════════════════════════════════════════════════════════

// Engine вычисляет совместимость двух пользователей по их рубричным оценкам.
type Engine struct {
	weights Weights
}

// NewEngine создаёт движок с заданными весами.
func NewEngine(weights Weights) *Engine {
	return &Engine{weights: weights}
}

// NewDefaultEngine создаёт движок с весами по умолчанию.
func NewDefaultEngine() *Engine {
	return NewEngine(DefaultWeights())
}

// Compare вычисляет совместимость пользователей A и B.
// Порядок элементов внутри наборов не имеет значения; отсутствующие
// категории допустимы. Overall симметричен относительно перестановки
// аргументов (меняются местами только user1/user2 внутри деталей).
func (e *Engine) Compare(a, b rubric.ScoreSet) Result {
	technical := e.technicalComponent(a, b)
	social := e.socialComponent(a, b)
	personal := e.personalComponent(a, b)

	overall := roundInt(
		float64(technical.Score)*e.weights.Technical +
			float64(social.Score)*e.weights.Social +
			float64(personal.Score)*e.weights.Personal,
	)

	return Result{
		Overall:   overall,
		Technical: technical,
		Social:    social,
		Personal:  personal,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Technical component
// ─────────────────────────────────────────────────────────────────────────────

// technicalComponent сравнивает технические навыки: по каждой общей
// подкатегории считаются близость (1 - |s1-s2|/5) и суммарная сила
// ((s1+s2)/10), средние комбинируются с весами Similarity/Complementarity.
func (e *Engine) technicalComponent(a, b rubric.ScoreSet) Component {
	aScores := a.SubcategoryScores(rubric.CategoryTechnicalSkills)
	bScores := b.SubcategoryScores(rubric.CategoryTechnicalSkills)

	if len(aScores) == 0 || len(bScores) == 0 {
		return Component{Score: e.weights.InsufficientData, Note: NoteInsufficientData}
	}

	details := make(map[string]Detail)
	var simTotal, compTotal float64
	matched := 0

	for _, sub := range unionKeys(aScores, bScores) {
		s1, ok1 := aScores[sub]
		s2, ok2 := bScores[sub]
		if !ok1 || !ok2 || s1 == 0 || s2 == 0 {
			continue
		}

		similarity := 1 - math.Abs(float64(s1-s2))/5
		complementarity := float64(s1+s2) / 10

		simTotal += similarity * 100
		compTotal += complementarity * 100
		matched++

		details[sub] = Detail{
			User1Score:      s1,
			User2Score:      s2,
			Similarity:      roundInt(similarity * 100),
			Complementarity: roundInt(complementarity * 100),
		}
	}

	if matched == 0 {
		return Component{Score: e.weights.NoTechnicalOverlap, Note: NoteNoOverlap}
	}

	avgSim := simTotal / float64(matched)
	avgComp := compTotal / float64(matched)
	final := avgSim*e.weights.Similarity + avgComp*e.weights.Complementarity

	return Component{
		Score:           roundInt(final),
		Similarity:      roundInt(avgSim),
		Complementarity: roundInt(avgComp),
		Details:         details,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Social component
// ─────────────────────────────────────────────────────────────────────────────

// socialComponent сравнивает социальный профиль по платформам.
// Только близость, без суммарной силы: сильный LinkedIn одного не
// компенсирует пустой LinkedIn другого.
func (e *Engine) socialComponent(a, b rubric.ScoreSet) Component {
	aScores := a.SubcategoryScores(rubric.CategorySocialBlueprint)
	bScores := b.SubcategoryScores(rubric.CategorySocialBlueprint)

	if len(aScores) == 0 || len(bScores) == 0 {
		return Component{Score: e.weights.InsufficientData, Note: NoteInsufficientData}
	}

	details := make(map[string]Detail)
	var simTotal float64
	matched := 0

	for _, platform := range unionKeys(aScores, bScores) {
		s1, ok1 := aScores[platform]
		s2, ok2 := bScores[platform]
		if !ok1 || !ok2 || s1 == 0 || s2 == 0 {
			continue
		}

		similarity := 1 - math.Abs(float64(s1-s2))/5
		simTotal += similarity * 100
		matched++

		details[platform] = Detail{
			User1Score: s1,
			User2Score: s2,
			Similarity: roundInt(similarity * 100),
		}
	}

	if matched == 0 {
		return Component{Score: e.weights.NoSocialOverlap, Note: NoteNoOverlap}
	}

	avg := simTotal / float64(matched)
	return Component{
		Score:      roundInt(avg),
		Similarity: roundInt(avg),
		Details:    details,
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Personal component
// ─────────────────────────────────────────────────────────────────────────────

// personalComponent сравнивает личные атрибуты. У каждого атрибута своя
// семантика сравнения; усредняются только атрибуты, присутствующие у обоих.
func (e *Engine) personalComponent(a, b rubric.ScoreSet) PersonalComponent {
	details := make(map[string]AttributeDetail)
	var total int
	counted := 0

	if d, ok := compareLearningStyle(a, b); ok {
		details[rubric.SubcategoryLearningStyle] = d
		total += d.Score
		counted++
	}

	if d, ok := compareCollaborationPreference(a, b); ok {
		details[rubric.SubcategoryCollaborationPreference] = d
		total += d.Score
		counted++
	}

	if d, ok := compareMentorshipType(a, b); ok {
		details[rubric.SubcategoryMentorshipType] = d
		total += d.Score
		counted++
	}

	if counted == 0 {
		return PersonalComponent{Score: personalNoAttributes, Note: NoteInsufficientData}
	}

	return PersonalComponent{
		Score:   roundInt(float64(total) / float64(counted)),
		Details: details,
	}
}

// compareLearningStyle сравнивает стили обучения по строковым значениям
// метаданных: точное совпадение - 100, разные - 60, значение отсутствует - 50.
func compareLearningStyle(a, b rubric.ScoreSet) (AttributeDetail, bool) {
	rowA, okA := a.Find(rubric.CategoryPersonalAttributes, rubric.SubcategoryLearningStyle)
	rowB, okB := b.Find(rubric.CategoryPersonalAttributes, rubric.SubcategoryLearningStyle)
	if !okA || !okB {
		return AttributeDetail{}, false
	}

	v1 := rowA.Metadata.Value
	v2 := rowB.Metadata.Value

	score := learningStyleNoValue
	switch {
	case v1 == "" || v2 == "":
		score = learningStyleNoValue
	case v1 == v2:
		score = learningStyleExact
	default:
		score = learningStyleDiffer
	}

	return AttributeDetail{User1Value: v1, User2Value: v2, Score: score}, true
}

// compareCollaborationPreference сравнивает числовые предпочтения 1-5.
func compareCollaborationPreference(a, b rubric.ScoreSet) (AttributeDetail, bool) {
	rowA, okA := a.Find(rubric.CategoryPersonalAttributes, rubric.SubcategoryCollaborationPreference)
	rowB, okB := b.Find(rubric.CategoryPersonalAttributes, rubric.SubcategoryCollaborationPreference)
	if !okA || !okB {
		return AttributeDetail{}, false
	}

	s1 := rowA.Score.Int()
	s2 := rowB.Score.Int()
	similarity := (1 - math.Abs(float64(s1-s2))/5) * 100

	return AttributeDetail{
		User1Value: strconv.Itoa(s1),
		User2Value: strconv.Itoa(s2),
		Score:      roundInt(similarity),
	}, true
}

// compareMentorshipType сравнивает роли менторства по таблице
// дополняемости: противоположные роли ценнее одинаковых.
func compareMentorshipType(a, b rubric.ScoreSet) (AttributeDetail, bool) {
	rowA, okA := a.Find(rubric.CategoryPersonalAttributes, rubric.SubcategoryMentorshipType)
	rowB, okB := b.Find(rubric.CategoryPersonalAttributes, rubric.SubcategoryMentorshipType)
	if !okA || !okB {
		return AttributeDetail{}, false
	}

	t1, ok1 := rowA.Metadata.Mentorship()
	t2, ok2 := rowB.Metadata.Mentorship()

	score := mentorshipFallback
	switch {
	case !ok1 || !ok2:
		score = mentorshipFallback
	case (t1 == rubric.MentorshipSeeking && t2 == rubric.MentorshipOffering) ||
		(t1 == rubric.MentorshipOffering && t2 == rubric.MentorshipSeeking):
		score = mentorshipComplement
	case t1 == rubric.MentorshipPeer && t2 == rubric.MentorshipPeer:
		score = mentorshipPeerPair
	case t1 == rubric.MentorshipMixed || t2 == rubric.MentorshipMixed:
		score = mentorshipMixedParty
	}

	return AttributeDetail{
		User1Value: rowA.Metadata.Value,
		User2Value: rowB.Metadata.Value,
		Score:      score,
	}, true
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// unionKeys возвращает объединение ключей двух карт в отсортированном
// порядке. Сортировка гарантирует детерминированный порядок накопления
// плавающих сумм.
func unionKeys(a, b map[string]int) []string {
	seen := make(map[string]bool, len(a)+len(b))
	keys := make([]string, 0, len(a)+len(b))
	for k := range a {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range b {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// roundInt округляет к ближайшему целому.
func roundInt(v float64) int {
	return int(math.Round(v))
}
