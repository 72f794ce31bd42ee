package verifier

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/evidence"
	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
)

// Verifier orchestrates a verification run: evidence collection, batch
// analysis, score fusion, and the ranked result set. Every input candidate
// yields exactly one VerifiedCandidate.
type Verifier struct {
	gatherer  *evidence.Gatherer
	scheduler *Scheduler
	analyzer  *Analyzer
}

// New creates a Verifier. gatherer may be nil, in which case every
// candidate is analyzed against empty evidence.
func New(gatherer *evidence.Gatherer, scheduler *Scheduler, analyzer *Analyzer) *Verifier {
	return &Verifier{gatherer: gatherer, scheduler: scheduler, analyzer: analyzer}
}

// Verify runs the full pipeline over the candidate set. Collaborator and
// analysis failures degrade per candidate; the returned slice always has
// one entry per input, in input order.
func (v *Verifier) Verify(ctx context.Context, candidates []model.Candidate) []model.VerifiedCandidate {
	if len(candidates) == 0 {
		zap.L().Warn("verify: no candidates to verify")
		return nil
	}

	start := time.Now()
	log := zap.L().With(zap.Int("candidates", len(candidates)))
	log.Info("verify: run started")

	// Collecting.
	log.Info("verify: collecting evidence")
	bundles := map[string]model.EvidenceBundle{}
	if v.gatherer != nil {
		bundles = v.gatherer.Gather(ctx, candidates)
	}

	// Analyzing.
	log.Info("verify: analyzing")
	results := v.scheduler.Analyze(ctx, candidates, bundles)

	// Fusing.
	log.Info("verify: fusing scores")
	verified := make([]model.VerifiedCandidate, 0, len(candidates))
	for _, cand := range candidates {
		rec := v.recordFor(cand.Code, results)
		fused, passed := Fuse(cand, rec)
		verified = append(verified, model.VerifiedCandidate{
			Candidate:  cand,
			Analysis:   rec,
			FusedScore: fused,
			Passed:     passed,
		})

		if passed {
			log.Info("verify: candidate passed",
				zap.String("code", cand.Code),
				zap.String("name", cand.Name),
				zap.Float64("sentiment", rec.Sentiment),
				zap.String("recommend", rec.Recommend),
				zap.Float64("fused_score", fused),
			)
		} else {
			log.Info("verify: candidate gated out",
				zap.String("code", cand.Code),
				zap.String("name", cand.Name),
				zap.Float64("sentiment", rec.Sentiment),
				zap.String("recommend", rec.Recommend),
			)
		}
	}

	log.Info("verify: run finished",
		zap.Int("passed", len(Passed(verified))),
		zap.Duration("elapsed", time.Since(start)),
	)
	return verified
}

// VerifyOne runs the single-candidate path end to end.
func (v *Verifier) VerifyOne(ctx context.Context, cand model.Candidate) (model.VerifiedCandidate, error) {
	bundle := model.EvidenceBundle{Code: cand.Code}
	if v.gatherer != nil {
		bundles := v.gatherer.Gather(ctx, []model.Candidate{cand})
		bundle = bundles[cand.Code]
	}

	rec, err := v.analyzer.Analyze(ctx, cand, bundle)
	if err != nil {
		zap.L().Warn("verify: analysis failed, falling back to neutral",
			zap.String("code", cand.Code),
			zap.Error(err),
		)
		rec = v.analyzer.Neutral(cand.Code, "AI 분석 실패")
	}

	fused, passed := Fuse(cand, rec)
	return model.VerifiedCandidate{
		Candidate:  cand,
		Analysis:   rec,
		FusedScore: fused,
		Passed:     passed,
	}, nil
}

// recordFor resolves a candidate's analysis, falling back to the neutral
// record when the batch produced no usable result for it.
func (v *Verifier) recordFor(code string, results map[string]Result) model.AnalysisRecord {
	if r, ok := results[code]; ok && r.Err == nil {
		return r.Record
	}
	return v.analyzer.Neutral(code, "AI 분석 실패")
}

// Passed returns the passed candidates sorted by fused score descending.
// The sort is stable, so ties keep their input order.
func Passed(verified []model.VerifiedCandidate) []model.VerifiedCandidate {
	var passed []model.VerifiedCandidate
	for _, vc := range verified {
		if vc.Passed {
			passed = append(passed, vc)
		}
	}
	sort.SliceStable(passed, func(i, j int) bool {
		return passed[i].FusedScore > passed[j].FusedScore
	})
	return passed
}

// Failed returns the candidates that did not pass the gate, in input order.
func Failed(verified []model.VerifiedCandidate) []model.VerifiedCandidate {
	var failed []model.VerifiedCandidate
	for _, vc := range verified {
		if !vc.Passed {
			failed = append(failed, vc)
		}
	}
	return failed
}
