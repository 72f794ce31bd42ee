// Package naver scrapes per-stock news from the Naver finance news listing.
package naver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/hatnim83-a11y/korean-stock-ai-trading-sub001/internal/model"
)

// DefaultBaseURL is the Naver finance root.
const DefaultBaseURL = "https://finance.naver.com"

const (
	// maxBodyRunes caps extracted article bodies.
	maxBodyRunes = 2000
	// newsDateLayout matches the listing's date column.
	newsDateLayout = "2006.01.02 15:04"
)

// Client scrapes the Naver finance per-stock news listing.
type Client struct {
	http    *resty.Client
	baseURL string
	limiter *rate.Limiter
}

// NewClient creates a news scraper. ratePerSec throttles outbound requests
// so the listing pages are not hammered; zero or negative means 1 req/s.
func NewClient(baseURL string, ratePerSec float64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if ratePerSec <= 0 {
		ratePerSec = 1
	}
	http := resty.New().
		SetTimeout(15*time.Second).
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36").
		SetHeader("Accept-Language", "ko-KR,ko;q=0.9,en-US;q=0.8").
		SetHeader("Referer", baseURL+"/")
	return &Client{
		http:    http,
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(ratePerSec), 1),
	}
}

// News returns up to maxArticles articles for the stock code published
// within the lookback window, walking the listing pages newest first.
func (c *Client) News(ctx context.Context, stockCode string, days, maxArticles, maxPages int) ([]model.NewsItem, error) {
	if maxPages <= 0 {
		maxPages = 5
	}
	cutoff := time.Now().AddDate(0, 0, -days)

	var items []model.NewsItem
	for page := 1; page <= maxPages && len(items) < maxArticles; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return items, err
		}

		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(map[string]string{
				"code": stockCode,
				"page": fmt.Sprintf("%d", page),
				"sm":   "title_entity_id.basic",
			}).
			Get(c.baseURL + "/item/news_news.naver")
		if err != nil {
			return nil, eris.Wrapf(err, "naver: fetch news page %d for %s", page, stockCode)
		}
		if resp.StatusCode() != 200 {
			return nil, eris.Errorf("naver: http %d for %s", resp.StatusCode(), stockCode)
		}

		pageItems, foundOld, err := parseNewsList(resp.String(), c.baseURL, cutoff)
		if err != nil {
			return nil, eris.Wrapf(err, "naver: parse news page %d for %s", page, stockCode)
		}
		if len(pageItems) == 0 && !foundOld {
			break
		}

		for _, it := range pageItems {
			items = append(items, it)
			if len(items) >= maxArticles {
				break
			}
		}
		if foundOld {
			break
		}
	}

	zap.L().Info("naver: news fetched",
		zap.String("code", stockCode),
		zap.Int("count", len(items)),
	)
	return items, nil
}

// parseNewsList extracts articles from one listing page. foundOld reports
// that a row older than the cutoff was seen, which ends pagination.
func parseNewsList(html, baseURL string, cutoff time.Time) ([]model.NewsItem, bool, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, false, eris.Wrap(err, "parse html")
	}

	table := doc.Find("table.type5").First()
	if table.Length() == 0 {
		return nil, false, nil
	}

	var items []model.NewsItem
	foundOld := false

	table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		link := row.Find("a.tit").First()
		if link.Length() == 0 {
			return true
		}

		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")

		date := time.Now()
		if dateText := strings.TrimSpace(row.Find("td.date").First().Text()); dateText != "" {
			if parsed, err := time.ParseInLocation(newsDateLayout, dateText, time.Local); err == nil {
				date = parsed
			}
		}
		if date.Before(cutoff) {
			foundOld = true
			return false
		}

		items = append(items, model.NewsItem{
			Title:  title,
			Date:   date,
			Source: strings.TrimSpace(row.Find("td.info").First().Text()),
			URL:    baseURL + href,
		})
		return true
	})

	return items, foundOld, nil
}

// Body fetches an article page and extracts its text, truncated to 2000
// runes. A page without a recognizable body yields an empty string.
func (c *Client) Body(ctx context.Context, articleURL string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	resp, err := c.http.R().SetContext(ctx).Get(articleURL)
	if err != nil {
		return "", eris.Wrap(err, "naver: fetch article")
	}
	if resp.StatusCode() != 200 {
		return "", eris.Errorf("naver: http %d for article", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return "", eris.Wrap(err, "naver: parse article")
	}

	body := doc.Find("div#news_read").First()
	if body.Length() == 0 {
		body = doc.Find("div.article_body").First()
	}
	if body.Length() == 0 {
		return "", nil
	}

	body.Find("script, style, iframe").Remove()
	text := strings.Join(strings.Fields(body.Text()), " ")

	if runes := []rune(text); len(runes) > maxBodyRunes {
		text = string(runes[:maxBodyRunes]) + "..."
	}
	return text, nil
}
