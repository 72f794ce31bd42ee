package verifier

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/evidence"
	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
)

// DefaultConcurrentLimit caps simultaneous scoring-service calls when no
// limit is configured.
const DefaultConcurrentLimit = 5

// Result is the per-candidate outcome of a batch analysis. Failures stay
// queryable by key instead of being inferred from position.
type Result struct {
	Record model.AnalysisRecord
	Err    error
}

// Scheduler runs the analyzer over a candidate set under a counting
// admission gate. One candidate's failure never aborts the batch.
type Scheduler struct {
	analyzer *Analyzer
	limit    int64
}

// NewScheduler creates a Scheduler with the given concurrency cap
// (DefaultConcurrentLimit if non-positive).
func NewScheduler(analyzer *Analyzer, limit int) *Scheduler {
	if limit <= 0 {
		limit = DefaultConcurrentLimit
	}
	return &Scheduler{analyzer: analyzer, limit: int64(limit)}
}

// Analyze attempts one analysis per candidate and returns the outcomes
// keyed by stock code. The admission gate is held only for the duration of
// each network round trip; prompt rendering happens before acquire and
// response validation after release. The call returns only after every
// candidate has either produced a record or definitively failed.
func (s *Scheduler) Analyze(ctx context.Context, candidates []model.Candidate, bundles map[string]model.EvidenceBundle) map[string]Result {
	results := make(map[string]Result, len(candidates))

	if !s.analyzer.Enabled() {
		zap.L().Warn("batch: no api key configured, returning neutral records",
			zap.Int("candidates", len(candidates)),
		)
		for _, cand := range candidates {
			rec := s.analyzer.Neutral(cand.Code, "AI 분석을 위한 API 키가 설정되지 않았습니다")
			rec.Risk = "API 키 미설정"
			results[cand.Code] = Result{Record: rec}
		}
		return results
	}

	zap.L().Info("batch: analyzing candidates",
		zap.Int("candidates", len(candidates)),
		zap.Int64("concurrent_limit", s.limit),
	)

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = semaphore.NewWeighted(s.limit)
	)

	for _, cand := range candidates {
		wg.Add(1)
		go func() {
			defer wg.Done()

			// Pure computation, outside the gate.
			bundle := bundles[cand.Code]
			prompt := BuildUserPrompt(cand,
				evidence.FormatNews(bundle.News),
				evidence.FormatDisclosures(bundle.Disclosures),
			)

			if err := sem.Acquire(ctx, 1); err != nil {
				s.record(&mu, results, cand.Code, Result{Err: err})
				return
			}
			resp, err := s.analyzer.Complete(ctx, prompt)
			sem.Release(1)

			if err != nil {
				zap.L().Warn("batch: analysis failed",
					zap.String("code", cand.Code),
					zap.Error(err),
				)
				s.record(&mu, results, cand.Code, Result{Err: err})
				return
			}

			rec, err := ParseAnalysis(resp.Text())
			if err != nil {
				zap.L().Warn("batch: response validation failed",
					zap.String("code", cand.Code),
					zap.Error(err),
				)
				s.record(&mu, results, cand.Code, Result{Err: err})
				return
			}
			rec.Code = cand.Code

			zap.L().Info("batch: analysis complete",
				zap.String("code", cand.Code),
				zap.Float64("sentiment", rec.Sentiment),
				zap.String("recommend", rec.Recommend),
			)
			s.record(&mu, results, cand.Code, Result{Record: *rec})
		}()
	}

	wg.Wait()

	succeeded := 0
	for _, r := range results {
		if r.Err == nil {
			succeeded++
		}
	}
	zap.L().Info("batch: analysis finished",
		zap.Int("succeeded", succeeded),
		zap.Int("candidates", len(candidates)),
	)
	return results
}

func (s *Scheduler) record(mu *sync.Mutex, results map[string]Result, code string, r Result) {
	mu.Lock()
	results[code] = r
	mu.Unlock()
}
