package naver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingHTML(rows ...string) string {
	html := `<html><body><table class="type5"><tbody>`
	for _, r := range rows {
		html += r
	}
	return html + `</tbody></table></body></html>`
}

func newsRow(title, href, source string, date time.Time) string {
	return fmt.Sprintf(
		`<tr><td class="title"><a class="tit" href="%s">%s</a></td><td class="info">%s</td><td class="date">%s</td></tr>`,
		href, title, source, date.Format(newsDateLayout))
}

func TestParseNewsList(t *testing.T) {
	now := time.Now()
	html := listingHTML(
		newsRow("삼성전자, 수주 확대", "/item/news_read.naver?article_id=1", "한국경제", now.Add(-2*time.Hour)),
		newsRow("반도체 업황 개선", "/item/news_read.naver?article_id=2", "매일경제", now.Add(-26*time.Hour)),
	)

	items, foundOld, err := parseNewsList(html, "https://finance.naver.com", now.AddDate(0, 0, -7))
	require.NoError(t, err)

	assert.False(t, foundOld)
	require.Len(t, items, 2)
	assert.Equal(t, "삼성전자, 수주 확대", items[0].Title)
	assert.Equal(t, "한국경제", items[0].Source)
	assert.Equal(t, "https://finance.naver.com/item/news_read.naver?article_id=1", items[0].URL)
}

func TestParseNewsList_StopsAtCutoff(t *testing.T) {
	now := time.Now()
	html := listingHTML(
		newsRow("최근 기사", "/a", "연합뉴스", now.Add(-1*time.Hour)),
		newsRow("오래된 기사", "/b", "연합뉴스", now.AddDate(0, 0, -10)),
		newsRow("더 오래된 기사", "/c", "연합뉴스", now.AddDate(0, 0, -20)),
	)

	items, foundOld, err := parseNewsList(html, "https://finance.naver.com", now.AddDate(0, 0, -7))
	require.NoError(t, err)

	assert.True(t, foundOld)
	require.Len(t, items, 1)
	assert.Equal(t, "최근 기사", items[0].Title)
}

func TestParseNewsList_NoTable(t *testing.T) {
	items, foundOld, err := parseNewsList("<html><body><p>점검 중</p></body></html>", "https://finance.naver.com", time.Now())
	require.NoError(t, err)
	assert.False(t, foundOld)
	assert.Empty(t, items)
}

func TestNews_PaginatesUntilMaxArticles(t *testing.T) {
	now := time.Now()
	var pagesServed []string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pagesServed = append(pagesServed, page)
		assert.Equal(t, "/item/news_news.naver", r.URL.Path)
		assert.Equal(t, "005930", r.URL.Query().Get("code"))

		_, _ = w.Write([]byte(listingHTML(
			newsRow("기사 "+page+"-1", "/a"+page, "연합뉴스", now.Add(-1*time.Hour)),
			newsRow("기사 "+page+"-2", "/b"+page, "연합뉴스", now.Add(-2*time.Hour)),
		)))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 1000)
	items, err := c.News(context.Background(), "005930", 7, 3, 5)
	require.NoError(t, err)

	assert.Len(t, items, 3)
	assert.Equal(t, []string{"1", "2"}, pagesServed)
}

func TestNews_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 1000)
	_, err := c.News(context.Background(), "005930", 7, 5, 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<div id="news_read">
				삼성전자가   신규   계약을
				체결했다.
				<script>tracking();</script>
			</div>
		</body></html>`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 1000)
	body, err := c.Body(context.Background(), srv.URL+"/article")
	require.NoError(t, err)

	assert.Equal(t, "삼성전자가 신규 계약을 체결했다.", body)
	assert.NotContains(t, body, "tracking")
}

func TestBody_NoRecognizableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="other">내용</div></body></html>`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 1000)
	body, err := c.Body(context.Background(), srv.URL+"/article")
	require.NoError(t, err)
	assert.Empty(t, body)
}
