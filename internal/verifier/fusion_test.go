package verifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
)

func TestFuse(t *testing.T) {
	tests := []struct {
		name       string
		prior      float64
		sentiment  float64
		recommend  string
		wantScore  float64
		wantPassed bool
	}{
		{"blend without veto", 80, 8, model.RecommendYes, 80.0, true},
		{"veto halves after blend", 80, 8, model.RecommendNo, 40.0, false},
		{"gate boundary inclusive", 60, 5.0, model.RecommendHold, 57.0, true},
		{"just under boundary", 60, 4.99, model.RecommendHold, 56.97, false},
		{"high sentiment no overrides gate", 90, 9.0, model.RecommendNo, 45.0, false},
		{"rounded to two decimals", 70.555, 6.2, model.RecommendYes, 67.99, true},
		{"neutral fallback record", 60, 5.0, model.RecommendHold, 57.0, true},
		{"zero everything", 0, 0, model.RecommendHold, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cand := model.Candidate{Code: "005930", FinalScore: tt.prior}
			rec := model.AnalysisRecord{Sentiment: tt.sentiment, Recommend: tt.recommend}

			fused, passed := Fuse(cand, rec)

			assert.InDelta(t, tt.wantScore, fused, 0.001)
			assert.Equal(t, tt.wantPassed, passed)
		})
	}
}

func TestFuse_Deterministic(t *testing.T) {
	cand := model.Candidate{Code: "000660", FinalScore: 77.77}
	rec := model.AnalysisRecord{Sentiment: 6.3, Recommend: model.RecommendYes}

	first, _ := Fuse(cand, rec)
	for i := 0; i < 10; i++ {
		again, _ := Fuse(cand, rec)
		assert.Equal(t, first, again)
	}
}

func TestFuse_NonEnumRecommendNotVetoed(t *testing.T) {
	// Only the exact "No" string triggers the veto; anything else keeps
	// the plain blend.
	cand := model.Candidate{Code: "005930", FinalScore: 80}
	rec := model.AnalysisRecord{Sentiment: 8, Recommend: "Strong Buy"}

	fused, passed := Fuse(cand, rec)
	assert.InDelta(t, 80.0, fused, 0.001)
	assert.True(t, passed)
}
