package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateReason_Thresholds(t *testing.T) {
	tests := []struct {
		name   string
		result Result
		want   string
	}{
		{
			name: "excellent with strong technical",
			result: Result{
				Overall:   85,
				Technical: Component{Score: 90},
				Social:    Component{Score: 65},
				Personal:  PersonalComponent{Score: 60},
			},
			want: "You two are an excellent match: your technical skills complement each other.",
		},
		{
			name: "excellent without strong component",
			result: Result{
				Overall:   80,
				Technical: Component{Score: 69},
				Social:    Component{Score: 69},
				Personal:  PersonalComponent{Score: 69},
			},
			want: "You two are an excellent match: your profiles align strongly across the board.",
		},
		{
			name: "good with two strengths",
			result: Result{
				Overall:   65,
				Technical: Component{Score: 75},
				Social:    Component{Score: 40},
				Personal:  PersonalComponent{Score: 70},
			},
			want: "You two are a good match: your technical skills complement each other, and your learning preferences fit well together.",
		},
		{
			name: "moderate with strong social",
			result: Result{
				Overall:   45,
				Technical: Component{Score: 40},
				Social:    Component{Score: 72},
				Personal:  PersonalComponent{Score: 30},
			},
			want: "You two are a moderate match: your public profiles are similarly strong.",
		},
		{
			name: "moderate generic",
			result: Result{
				Overall:   40,
				Technical: Component{Score: 40},
				Social:    Component{Score: 40},
				Personal:  PersonalComponent{Score: 40},
			},
			want: "You two are a moderate match: there is some common ground to build on.",
		},
		{
			name: "below moderate",
			result: Result{
				Overall:   39,
				Technical: Component{Score: 39},
				Social:    Component{Score: 39},
				Personal:  PersonalComponent{Score: 39},
			},
			want: "Your profiles could be interesting to explore together.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateReason(tt.result))
		})
	}
}

func TestGenerateReason_Deterministic(t *testing.T) {
	result := Result{
		Overall:   72,
		Technical: Component{Score: 80},
		Social:    Component{Score: 71},
		Personal:  PersonalComponent{Score: 90},
	}

	first := GenerateReason(result)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, GenerateReason(result))
	}
}

func TestScore_Quality(t *testing.T) {
	assert.Equal(t, QualityExcellent, Score(80).Quality())
	assert.Equal(t, QualityGood, Score(79).Quality())
	assert.Equal(t, QualityGood, Score(60).Quality())
	assert.Equal(t, QualityModerate, Score(59).Quality())
	assert.Equal(t, QualityModerate, Score(40).Quality())
	assert.Equal(t, QualityLow, Score(39).Quality())
}
