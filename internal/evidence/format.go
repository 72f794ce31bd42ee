// Package evidence gathers and formats the news and disclosure text that
// grounds the scoring service's judgment.
package evidence

import (
	"fmt"
	"strings"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
)

const (
	// maxNewsBlocks bounds how many articles reach the prompt.
	maxNewsBlocks = 10
	// maxDisclosureBlocks bounds how many disclosures reach the prompt.
	maxDisclosureBlocks = 10
	// maxBlockRunes bounds a single article's contribution.
	maxBlockRunes = 2000
)

// FormatNews renders news items as numbered text blocks for the prompt.
func FormatNews(items []model.NewsItem) string {
	if len(items) == 0 {
		return "최근 뉴스가 없습니다."
	}
	if len(items) > maxNewsBlocks {
		items = items[:maxNewsBlocks]
	}

	var sb strings.Builder
	for i, n := range items {
		fmt.Fprintf(&sb, "[뉴스 %d] (%s)\n", i+1, n.Date.Format("2006-01-02"))
		fmt.Fprintf(&sb, "제목: %s\n", n.Title)

		content := n.Content
		if content == "" {
			content = n.Summary
		}
		if content != "" {
			fmt.Fprintf(&sb, "내용: %s\n", truncate(content, maxBlockRunes))
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// FormatDisclosures renders disclosures as a dated list for the prompt.
func FormatDisclosures(disclosures []model.Disclosure) string {
	if len(disclosures) == 0 {
		return "최근 30일 내 주요 공시가 없습니다."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "최근 공시 (%d건):\n\n", len(disclosures))

	for i, d := range disclosures {
		if i >= maxDisclosureBlocks {
			break
		}
		mark := "-"
		switch d.Importance {
		case model.ImportanceCritical:
			mark = "[주의]"
		case model.ImportanceHigh:
			mark = "[주요]"
		}
		fmt.Fprintf(&sb, "%s [%s] %s\n", mark, d.Date.Format("2006-01-02"), d.Title)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
