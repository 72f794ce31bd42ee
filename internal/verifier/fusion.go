package verifier

import (
	"math"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
)

// Fusion and gating constants.
const (
	// priorWeight and aiWeight blend the upstream score with the AI
	// sentiment rescaled to 0-100.
	priorWeight = 0.7
	aiWeight    = 0.3

	// vetoMultiplier halves the blended score on an explicit "No". Applied
	// after the blend so a vetoed strong candidate still ranks above noise
	// instead of vanishing.
	vetoMultiplier = 0.5

	// minSentiment is the inclusive gate threshold.
	minSentiment = 5.0
)

// Fuse combines a candidate's prior score with its analysis record into the
// final ranking score and the pass/fail gate.
func Fuse(c model.Candidate, rec model.AnalysisRecord) (fused float64, passed bool) {
	fused = c.FinalScore*priorWeight + rec.Sentiment*10*aiWeight
	if rec.Recommend == model.RecommendNo {
		fused *= vetoMultiplier
	}
	fused = math.Round(fused*100) / 100

	passed = rec.Sentiment >= minSentiment && rec.Recommend != model.RecommendNo
	return fused, passed
}
