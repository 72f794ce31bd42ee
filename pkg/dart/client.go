// Package dart fetches corporate disclosures from the OpenDART API.
package dart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/resilience"
)

// DefaultBaseURL is the OpenDART API root.
const DefaultBaseURL = "https://opendart.fss.or.kr/api"

// statusOK is OpenDART's success code in the response envelope.
const statusOK = "000"

// Client queries the OpenDART disclosure list endpoint.
type Client struct {
	http    *resty.Client
	key     string
	baseURL string
}

// NewClient creates an OpenDART client. An empty key is allowed; calls then
// return an empty disclosure list (offline mode lives in MockDisclosures).
func NewClient(key, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	http := resty.New().
		SetTimeout(15 * time.Second).
		SetHeader("Accept", "application/json")
	return &Client{http: http, key: key, baseURL: baseURL}
}

// listResponse is the OpenDART list.json envelope.
type listResponse struct {
	Status  string     `json:"status"`
	Message string     `json:"message"`
	List    []listItem `json:"list"`
}

type listItem struct {
	CorpCode     string `json:"corp_code"`
	CorpName     string `json:"corp_name"`
	ReportName   string `json:"report_nm"`
	ReceiptNo    string `json:"rcept_no"`
	ReceiptDate  string `json:"rcept_dt"`
	PublishType  string `json:"pblntf_ty"`
	PublishDetty string `json:"pblntf_detail_ty"`
}

// Disclosures returns disclosures filed for the stock code within the
// lookback window, newest first.
func (c *Client) Disclosures(ctx context.Context, stockCode string, days, maxCount int) ([]model.Disclosure, error) {
	if c.key == "" {
		zap.L().Debug("dart: no api key configured", zap.String("code", stockCode))
		return nil, nil
	}

	end := time.Now()
	begin := end.AddDate(0, 0, -days)

	resp, err := resilience.DoVal(ctx, resilience.DefaultRetryConfig(), func(ctx context.Context) (*resty.Response, error) {
		r, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"crtfc_key":  c.key,
				"corp_code":  corpCode(stockCode),
				"bgn_de":     begin.Format("20060102"),
				"end_de":     end.Format("20060102"),
				"page_count": fmt.Sprintf("%d", maxCount),
				"sort":       "date",
				"sort_mth":   "desc",
			}).
			Get(c.baseURL + "/list.json")
		if err != nil {
			return nil, err
		}
		if resilience.IsTransientHTTPStatus(r.StatusCode()) {
			return nil, resilience.NewTransientError(
				eris.Errorf("dart: http %d", r.StatusCode()), r.StatusCode())
		}
		return r, nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "dart: list disclosures %s", stockCode)
	}
	if resp.StatusCode() != 200 {
		return nil, eris.Errorf("dart: http %d", resp.StatusCode())
	}

	var body listResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, eris.Wrap(err, "dart: decode list response")
	}

	// "013" means no matching data; anything else non-OK is an API error.
	if body.Status != statusOK {
		if body.Status == "013" {
			return nil, nil
		}
		return nil, eris.Errorf("dart: api status %s: %s", body.Status, body.Message)
	}

	out := make([]model.Disclosure, 0, len(body.List))
	for _, item := range body.List {
		date, _ := time.Parse("20060102", item.ReceiptDate)
		out = append(out, model.Disclosure{
			Title:    item.ReportName,
			Date:     date,
			Type:     item.PublishType,
			TypeName: item.PublishDetty,
			URL:      "https://dart.fss.or.kr/dsaf001/main.do?rcpNo=" + item.ReceiptNo,
		})
	}

	zap.L().Info("dart: disclosures fetched",
		zap.String("code", stockCode),
		zap.Int("count", len(out)),
	)
	return out, nil
}

// ImportantDisclosures fetches disclosures and keeps only the ones that
// matter for an investment decision (report-type allowlist plus keyword
// sentiment), tagged with importance and sentiment.
func (c *Client) ImportantDisclosures(ctx context.Context, stockCode string, days, maxCount int) ([]model.Disclosure, error) {
	all, err := c.Disclosures(ctx, stockCode, days, maxCount)
	if err != nil {
		return nil, err
	}
	important := FilterImportant(all)
	zap.L().Info("dart: important disclosures",
		zap.String("code", stockCode),
		zap.Int("count", len(important)),
	)
	return important, nil
}

// corpCode maps a stock code to a DART corp code. DART publishes a corp-code
// archive for the real mapping; until that table is loaded the stock code is
// passed through unchanged.
// TODO: load corpCode.xml from DART and resolve real corp codes.
func corpCode(stockCode string) string {
	return stockCode
}
