package dart

import (
	"context"
	"strings"
	"time"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
)

// importantReportTypes are the disclosure types that matter for an
// investment decision (periodic reports, major events, offerings, tenders,
// mergers, asset transfers, convertibles, large holdings).
var importantReportTypes = map[string]bool{
	"A001": true, "A002": true, "A003": true,
	"B001": true, "C001": true, "D001": true,
	"E001": true, "F001": true, "G001": true,
	"I001": true, "J001": true,
}

// positiveKeywords flag disclosures that usually move a stock up.
var positiveKeywords = []string{
	"수주", "계약", "체결", "증가", "상승", "흑자", "전환",
	"배당", "자사주", "매입", "투자", "확대", "신규", "수출",
}

// negativeKeywords flag disclosures that usually move a stock down.
var negativeKeywords = []string{
	"소송", "손실", "적자", "감소", "하락", "철회", "취소",
	"부도", "파산", "횡령", "분식", "조사", "제재", "위반",
}

// FilterImportant keeps the disclosures whose type or title keywords mark
// them high or critical importance, tagging each with importance and
// sentiment.
func FilterImportant(disclosures []model.Disclosure) []model.Disclosure {
	var important []model.Disclosure

	for _, d := range disclosures {
		title := strings.ToLower(d.Title)

		importance := model.ImportanceNormal
		sentiment := "neutral"

		if importantReportTypes[d.Type] {
			importance = model.ImportanceHigh
		}
		for _, kw := range positiveKeywords {
			if strings.Contains(title, kw) {
				sentiment = "positive"
				importance = model.ImportanceHigh
				break
			}
		}
		for _, kw := range negativeKeywords {
			if strings.Contains(title, kw) {
				sentiment = "negative"
				importance = model.ImportanceCritical
				break
			}
		}

		if importance == model.ImportanceHigh || importance == model.ImportanceCritical {
			d.Importance = importance
			d.Sentiment = sentiment
			important = append(important, d)
		}
	}

	return important
}

// SentimentSummary is a rule-based tally over a disclosure set.
type SentimentSummary struct {
	Positive  int      `json:"positive_count"`
	Negative  int      `json:"negative_count"`
	Neutral   int      `json:"neutral_count"`
	Overall   string   `json:"overall_sentiment"`
	RiskFlags []string `json:"risk_flags,omitempty"`
}

// AnalyzeSentiment tallies positive/negative keyword hits across disclosure
// titles and collects risk flags from the negative matches.
func AnalyzeSentiment(disclosures []model.Disclosure) SentimentSummary {
	var s SentimentSummary
	seen := make(map[string]bool)

	for _, d := range disclosures {
		title := strings.ToLower(d.Title)

		hasNegative := false
		for _, kw := range negativeKeywords {
			if strings.Contains(title, kw) {
				hasNegative = true
				if !seen[kw] {
					seen[kw] = true
					s.RiskFlags = append(s.RiskFlags, kw)
				}
			}
		}

		switch {
		case hasNegative:
			s.Negative++
		case containsAny(title, positiveKeywords):
			s.Positive++
		default:
			s.Neutral++
		}
	}

	switch {
	case s.Negative > s.Positive:
		s.Overall = "negative"
	case s.Positive > s.Negative:
		s.Overall = "positive"
	default:
		s.Overall = "neutral"
	}
	return s
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// MockSource serves MockDisclosures behind the evidence source contract,
// for offline runs and tests.
type MockSource struct{}

// ImportantDisclosures returns the canned disclosures for the stock code.
// days and maxCount are ignored; the mock data is already curated.
func (MockSource) ImportantDisclosures(_ context.Context, stockCode string, _, _ int) ([]model.Disclosure, error) {
	return MockDisclosures(stockCode), nil
}

// MockDisclosures returns deterministic disclosure data for offline runs
// and tests.
func MockDisclosures(stockCode string) []model.Disclosure {
	now := time.Now()

	switch stockCode {
	case "005930":
		return []model.Disclosure{
			{
				Title:      "분기보고서 (2024.03)",
				Date:       now.AddDate(0, 0, -5),
				Type:       "A003",
				Importance: model.ImportanceHigh,
				Sentiment:  "neutral",
			},
			{
				Title:      "신규 시설투자 결정",
				Date:       now.AddDate(0, 0, -10),
				Type:       "B001",
				Importance: model.ImportanceHigh,
				Sentiment:  "positive",
			},
		}
	case "000660":
		return []model.Disclosure{
			{
				Title:      "대규모 공급계약 체결",
				Date:       now.AddDate(0, 0, -3),
				Type:       "B001",
				Importance: model.ImportanceHigh,
				Sentiment:  "positive",
			},
		}
	default:
		return nil
	}
}
