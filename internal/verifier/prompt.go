// Package verifier implements the AI verification pipeline: prompt
// rendering, response validation, the bounded-concurrency batch scheduler,
// score fusion, and the orchestrator.
package verifier

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
)

// SystemPrompt is the shared analyst instruction, identical for every
// candidate in a run so the service can cache it.
const SystemPrompt = `당신은 한국 주식시장 전문 애널리스트입니다.
제공된 종목 정보를 분석하여 투자 적합성을 평가해주세요.

## 분석 요청사항

1. **투자 매력도 점수** (0-10점)
   - 0: 즉시 매도 필요 (심각한 악재)
   - 3: 투자 부적합 (리스크 과다)
   - 5: 중립 (특별한 모멘텀 없음)
   - 7: 투자 양호 (긍정적 전망)
   - 10: 적극 매수 추천 (강력한 호재)

2. **추천 여부** (Yes/No/Hold)
   - Yes: 매수 추천
   - No: 매수 비추천 (악재/리스크)
   - Hold: 관망 (추가 확인 필요)

3. **핵심 근거** (2-3줄)

4. **리스크 요인** (있다면)

5. **목표 수익률** (향후 1-2주)

## 제외 조건 (No로 판단해야 함)
- 심각한 악재 발생 (횡령, 분식회계, 대규모 소송)
- 실적 급격 악화
- 수급 급반전 (외국인/기관 대규모 매도)
- 테마 재료 소진

## 응답 형식 (반드시 JSON으로)
` + "```json" + `
{
  "sentiment": 7.5,
  "recommend": "Yes",
  "reason": "외국인 대규모 매수 지속, 신규 수주 계약 체결로 실적 개선 기대",
  "risk": "원자재 가격 변동, 경쟁 심화",
  "target_return": 12,
  "confidence": 0.8
}
` + "```" + `

주의: 반드시 위 JSON 형식으로만 응답하세요.`

// krw divides raw won amounts into 억원 for the prompt.
var hundredMillion = decimal.NewFromInt(100_000_000)

var krPrinter = message.NewPrinter(language.Korean)

// BuildUserPrompt renders the per-candidate analysis request: instrument
// attributes plus the formatted news and disclosure evidence. Pure
// formatting, no I/O.
func BuildUserPrompt(c model.Candidate, newsText, disclosureText string) string {
	if newsText == "" {
		newsText = "최근 뉴스가 없습니다."
	}
	if disclosureText == "" {
		disclosureText = "최근 공시가 없습니다."
	}

	price := krPrinter.Sprintf("%v", number.Decimal(c.Price, number.MaxFractionDigits(0)))
	foreign := c.ForeignNet.Div(hundredMillion)
	institution := c.InstitutionNet.Div(hundredMillion)

	return fmt.Sprintf(`## 분석 대상 종목
- 종목명: %s
- 종목코드: %s
- 현재가: %s원
- 테마: %s
- 수급: 외국인 %s억원, 기관 %s억원 (5일)

## 최근 뉴스 (7일 이내)
%s

## 최근 공시 (30일 이내)
%s`,
		c.Name,
		c.Code,
		price,
		theme(c),
		signed(foreign),
		signed(institution),
		newsText,
		disclosureText,
	)
}

func theme(c model.Candidate) string {
	if c.Theme == "" {
		return "미분류"
	}
	return c.Theme
}

// signed renders a decimal with an explicit sign, zero fraction digits.
func signed(d decimal.Decimal) string {
	s := d.Round(0).String()
	if d.Sign() >= 0 {
		return "+" + s
	}
	return s
}
