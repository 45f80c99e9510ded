package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lora213/buddyhub/internal/domain/shared"
)

func candidate(id string, score int) Candidate {
	return Candidate{
		MatchID:            shared.UserID(id),
		CompatibilityScore: score,
		Status:             "pending",
	}
}

func TestCandidateList_SortDescending(t *testing.T) {
	list := CandidateList{
		candidate("u1", 40),
		candidate("u2", 95),
		candidate("u3", 72),
	}

	list.Sort()

	assert.Equal(t, shared.UserID("u2"), list[0].MatchID)
	assert.Equal(t, shared.UserID("u3"), list[1].MatchID)
	assert.Equal(t, shared.UserID("u1"), list[2].MatchID)
}

func TestCandidateList_SortStableOnTies(t *testing.T) {
	list := CandidateList{
		candidate("ccc", 70),
		candidate("aaa", 70),
		candidate("bbb", 70),
	}

	list.Sort()

	// При равных оценках порядок фиксируется по ID.
	assert.Equal(t, shared.UserID("aaa"), list[0].MatchID)
	assert.Equal(t, shared.UserID("bbb"), list[1].MatchID)
	assert.Equal(t, shared.UserID("ccc"), list[2].MatchID)
}

func TestCandidateList_TopN(t *testing.T) {
	list := make(CandidateList, 0, 50)
	for i := 0; i < 50; i++ {
		list = append(list, candidate(string(rune('a'+i%26))+string(rune('a'+i/26)), i))
	}

	assert.Len(t, list.TopN(10), 10)
	assert.Len(t, list.TopN(100), 50)
	assert.Len(t, CandidateList{}.TopN(10), 0)
}

func TestCandidateList_Exclude(t *testing.T) {
	list := CandidateList{
		candidate("u1", 90),
		candidate("u2", 80),
		candidate("u3", 70),
	}

	filtered := list.Exclude(map[shared.UserID]bool{"u2": true})

	assert.Len(t, filtered, 2)
	assert.Equal(t, shared.UserID("u1"), filtered[0].MatchID)
	assert.Equal(t, shared.UserID("u3"), filtered[1].MatchID)

	// Пустой набор исключений возвращает список без изменений.
	assert.Len(t, list.Exclude(nil), 3)
}
