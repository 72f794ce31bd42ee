package verifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
)

const (
	reportPassedLimit = 10
	reportFailedLimit = 5
	reportReasonLimit = 50
)

// FormatReport renders a verification result set as a plain-text report:
// passed candidates ranked by fused score, then a short failed section.
func FormatReport(verified []model.VerifiedCandidate, now time.Time) string {
	if len(verified) == 0 {
		return "검증된 종목이 없습니다."
	}

	passed := Passed(verified)
	failed := Failed(verified)

	heavy := strings.Repeat("=", 70)
	light := strings.Repeat("-", 70)

	var sb strings.Builder
	sb.WriteString(heavy + "\n")
	fmt.Fprintf(&sb, "AI 검증 결과 (%s)\n", now.Format("2006-01-02 15:04"))
	sb.WriteString(heavy + "\n")

	fmt.Fprintf(&sb, "\n검증 통과: %d개\n", len(passed))
	sb.WriteString(light + "\n")
	for i, vc := range passed {
		if i >= reportPassedLimit {
			break
		}
		fmt.Fprintf(&sb, "  %s (%s) | AI: %.1f/10 (%s) | 최종 %.2f점\n",
			vc.Name, vc.Code, vc.Analysis.Sentiment, vc.Analysis.Recommend, vc.FusedScore)
		if reason := truncateRunes(vc.Analysis.Reason, reportReasonLimit); reason != "" {
			fmt.Fprintf(&sb, "    └ %s...\n", reason)
		}
	}

	if len(failed) > 0 {
		fmt.Fprintf(&sb, "\n검증 미통과: %d개\n", len(failed))
		sb.WriteString(light + "\n")
		for i, vc := range failed {
			if i >= reportFailedLimit {
				break
			}
			fmt.Fprintf(&sb, "  %s (%s) | AI: %.1f/10 (%s)\n",
				vc.Name, vc.Code, vc.Analysis.Sentiment, vc.Analysis.Recommend)
		}
	}

	sb.WriteString("\n" + heavy + "\n")
	return sb.String()
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
