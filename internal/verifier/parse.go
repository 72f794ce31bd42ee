package verifier

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
)

// Parse failure taxonomy. Decode failures and schema failures are distinct
// for diagnostics; both mean the response contributes no record.
var (
	// ErrNotJSON means the response text did not decode as a JSON object.
	ErrNotJSON = eris.New("analysis response is not a JSON object")
	// ErrMissingFields means the decoded object lacks sentiment or recommend.
	ErrMissingFields = eris.New("analysis response missing required fields")
)

// Defaults applied by validation.
const (
	defaultSentiment    = 5.0
	defaultConfidence   = 0.7
	defaultTargetReturn = 10.0
)

// ParseAnalysis extracts a normalized AnalysisRecord from the scoring
// service's raw reply. It never returns a partially-validated record: the
// result is either fully normalized (sentiment in [0,10], confidence in
// [0,1], defaults filled) or an error.
func ParseAnalysis(text string) (*model.AnalysisRecord, error) {
	cleaned := stripFences(text)

	var raw map[string]any
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return nil, eris.Wrapf(ErrNotJSON, "%v", err)
	}

	sentimentRaw, hasSentiment := raw["sentiment"]
	recommendRaw, hasRecommend := raw["recommend"]
	if !hasRecommend {
		recommendRaw, hasRecommend = raw["recommendation"]
	}
	if !hasSentiment || !hasRecommend {
		return nil, eris.Wrap(ErrMissingFields, "need sentiment and recommend")
	}

	rec := &model.AnalysisRecord{
		// A present but uncoercible sentiment degrades to neutral instead of
		// discarding an otherwise valid record. A missing key does not get
		// the same grace — that is a schema failure above.
		Sentiment:    clamp(coerceFloat(sentimentRaw, defaultSentiment), 0, 10),
		Recommend:    coerceString(recommendRaw),
		Reason:       coerceString(raw["reason"]),
		Risk:         coerceString(raw["risk"]),
		TargetReturn: coerceFloat(raw["target_return"], defaultTargetReturn),
		Confidence:   clamp(coerceFloat(raw["confidence"], defaultConfidence), 0, 1),
	}

	return rec, nil
}

// stripFences extracts the interior of the first markdown code fence. A
// ```json fence wins; a bare fence has any leading language tag dropped.
func stripFences(text string) string {
	text = strings.TrimSpace(text)

	if i := strings.Index(text, "```json"); i >= 0 {
		inner := text[i+len("```json"):]
		if j := strings.Index(inner, "```"); j >= 0 {
			inner = inner[:j]
		}
		return strings.TrimSpace(inner)
	}

	if i := strings.Index(text, "```"); i >= 0 {
		inner := text[i+3:]
		if j := strings.Index(inner, "```"); j >= 0 {
			inner = inner[:j]
		}
		inner = strings.TrimSpace(inner)
		for _, tag := range []string{"json", "JSON"} {
			if strings.HasPrefix(inner, tag) {
				inner = strings.TrimSpace(inner[len(tag):])
				break
			}
		}
		return inner
	}

	return text
}

// coerceFloat converts JSON numbers and numeric strings; anything else
// yields fallback.
func coerceFloat(v any, fallback float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(n), 64); err == nil {
			return f
		}
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
	}
	return fallback
}

func coerceString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
