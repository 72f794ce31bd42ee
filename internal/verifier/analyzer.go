package verifier

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/config"
	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/evidence"
	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/resilience"
	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/pkg/anthropic"
)

// Analyzer owns the single-candidate call to the scoring service. Without a
// usable credential it degrades to the deterministic neutral record instead
// of failing the pipeline.
type Analyzer struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
	retry  resilience.RetryConfig
}

// NewAnalyzer creates an Analyzer. client may be nil when no credential is
// configured; Enabled reports which mode the analyzer is in.
func NewAnalyzer(client anthropic.Client, cfg config.AnthropicConfig) *Analyzer {
	retry := resilience.DefaultRetryConfig()
	retry.OnRetry = resilience.RetryLogger("anthropic", "analyze")
	return &Analyzer{client: client, cfg: cfg, retry: retry}
}

// Enabled reports whether a credential is configured and real calls will be
// made.
func (a *Analyzer) Enabled() bool {
	return a != nil && a.client != nil && a.cfg.Key != ""
}

// Neutral returns the deterministic fallback record for a candidate that
// received no judgment. Confidence 0.0 is the sentinel distinguishing it
// from a genuine neutral judgment.
func (a *Analyzer) Neutral(code, reason string) model.AnalysisRecord {
	return model.AnalysisRecord{
		Code:         code,
		Sentiment:    defaultSentiment,
		Recommend:    model.RecommendHold,
		Reason:       reason,
		TargetReturn: 0,
		Confidence:   0,
	}
}

// Complete performs exactly one (retried) scoring-service round trip for a
// rendered prompt. Callers hold the admission gate only around this call.
func (a *Analyzer) Complete(ctx context.Context, userPrompt string) (*anthropic.MessageResponse, error) {
	temp := a.cfg.Temperature
	req := anthropic.MessageRequest{
		Model:     a.cfg.Model,
		MaxTokens: a.cfg.MaxTokens,
		System: []anthropic.SystemBlock{
			{Text: SystemPrompt, CacheControl: &anthropic.CacheControl{TTL: "5m"}},
		},
		Messages: []anthropic.Message{
			{Role: "user", Content: userPrompt},
		},
		Temperature: &temp,
	}

	resp, err := resilience.DoVal(ctx, a.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return a.client.CreateMessage(ctx, req)
	})
	if err != nil {
		return nil, eris.Wrap(err, "analyzer: create message")
	}

	resp.Usage.LogCost(a.cfg.Model, "verify")
	return resp, nil
}

// Analyze runs the full single-candidate path: render the prompt, call the
// service, validate the response. With no credential it returns the neutral
// record and no error.
func (a *Analyzer) Analyze(ctx context.Context, cand model.Candidate, bundle model.EvidenceBundle) (model.AnalysisRecord, error) {
	if !a.Enabled() {
		zap.L().Warn("analyzer: no api key configured, returning neutral record",
			zap.String("code", cand.Code),
		)
		rec := a.Neutral(cand.Code, "AI 분석을 위한 API 키가 설정되지 않았습니다")
		rec.Risk = "API 키 미설정"
		return rec, nil
	}

	prompt := BuildUserPrompt(cand,
		evidence.FormatNews(bundle.News),
		evidence.FormatDisclosures(bundle.Disclosures),
	)

	resp, err := a.Complete(ctx, prompt)
	if err != nil {
		return model.AnalysisRecord{}, eris.Wrapf(err, "analyzer: %s", cand.Code)
	}

	rec, err := ParseAnalysis(resp.Text())
	if err != nil {
		return model.AnalysisRecord{}, eris.Wrapf(err, "analyzer: %s", cand.Code)
	}
	rec.Code = cand.Code

	zap.L().Info("analyzer: analysis complete",
		zap.String("code", cand.Code),
		zap.Float64("sentiment", rec.Sentiment),
		zap.String("recommend", rec.Recommend),
	)
	return *rec, nil
}
