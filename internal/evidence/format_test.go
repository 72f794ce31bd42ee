package evidence

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
)

func TestFormatNews(t *testing.T) {
	items := []model.NewsItem{
		{
			Title:   "삼성전자, 대규모 수주 계약 체결",
			Content: "삼성전자가 신규 공급 계약을 체결했다.",
			Date:    time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		},
		{
			Title:   "반도체 업황 회복 조짐",
			Summary: "수요가 살아나고 있다.",
			Date:    time.Date(2026, 8, 21, 14, 30, 0, 0, time.UTC),
		},
	}

	out := FormatNews(items)

	assert.Contains(t, out, "[뉴스 1] (2026-08-20)")
	assert.Contains(t, out, "제목: 삼성전자, 대규모 수주 계약 체결")
	assert.Contains(t, out, "내용: 삼성전자가 신규 공급 계약을 체결했다.")
	assert.Contains(t, out, "[뉴스 2] (2026-08-21)")
	// Summary stands in when there is no body.
	assert.Contains(t, out, "내용: 수요가 살아나고 있다.")
}

func TestFormatNews_Empty(t *testing.T) {
	assert.Equal(t, "최근 뉴스가 없습니다.", FormatNews(nil))
}

func TestFormatNews_CapsBlocksAndRunes(t *testing.T) {
	long := strings.Repeat("가", 2500)
	items := make([]model.NewsItem, 15)
	for i := range items {
		items[i] = model.NewsItem{Title: "기사", Content: long, Date: time.Now()}
	}

	out := FormatNews(items)

	assert.Contains(t, out, "[뉴스 10]")
	assert.NotContains(t, out, "[뉴스 11]")
	assert.Contains(t, out, strings.Repeat("가", 2000)+"...")
	assert.NotContains(t, out, strings.Repeat("가", 2001))
}

func TestFormatNews_TitleOnly(t *testing.T) {
	out := FormatNews([]model.NewsItem{{Title: "제목만 있는 기사", Date: time.Now()}})
	assert.Contains(t, out, "제목: 제목만 있는 기사")
	assert.NotContains(t, out, "내용:")
}

func TestFormatDisclosures(t *testing.T) {
	disclosures := []model.Disclosure{
		{Title: "분기보고서", Date: time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC), Importance: model.ImportanceHigh},
		{Title: "소송 제기", Date: time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC), Importance: model.ImportanceCritical},
		{Title: "기타 공시", Date: time.Date(2026, 8, 14, 0, 0, 0, 0, time.UTC)},
	}

	out := FormatDisclosures(disclosures)

	assert.Contains(t, out, "최근 공시 (3건):")
	assert.Contains(t, out, "[주요] [2026-08-10] 분기보고서")
	assert.Contains(t, out, "[주의] [2026-08-12] 소송 제기")
	assert.Contains(t, out, "- [2026-08-14] 기타 공시")
}

func TestFormatDisclosures_Empty(t *testing.T) {
	assert.Equal(t, "최근 30일 내 주요 공시가 없습니다.", FormatDisclosures(nil))
}
