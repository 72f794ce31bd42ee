package dart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisclosures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/list.json", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("crtfc_key"))
		assert.Equal(t, "005930", r.URL.Query().Get("corp_code"))
		assert.NotEmpty(t, r.URL.Query().Get("bgn_de"))
		assert.NotEmpty(t, r.URL.Query().Get("end_de"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "000",
			"message": "정상",
			"list": []map[string]string{
				{
					"corp_code":        "00126380",
					"corp_name":        "삼성전자",
					"report_nm":        "분기보고서 (2026.06)",
					"rcept_no":         "20260814000123",
					"rcept_dt":         "20260814",
					"pblntf_ty":        "A003",
					"pblntf_detail_ty": "정기공시",
				},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	got, err := c.Disclosures(context.Background(), "005930", 30, 20)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "분기보고서 (2026.06)", got[0].Title)
	assert.Equal(t, "A003", got[0].Type)
	assert.Equal(t, "정기공시", got[0].TypeName)
	assert.Equal(t, 2026, got[0].Date.Year())
	assert.Contains(t, got[0].URL, "rcpNo=20260814000123")
}

func TestDisclosures_NoDataStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "013",
			"message": "조회된 데이타가 없습니다.",
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	got, err := c.Disclosures(context.Background(), "005930", 30, 20)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDisclosures_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "020",
			"message": "등록되지 않은 키입니다.",
		})
	}))
	defer srv.Close()

	c := NewClient("bad-key", srv.URL)
	_, err := c.Disclosures(context.Background(), "005930", 30, 20)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "020")
}

func TestDisclosures_NoKey(t *testing.T) {
	c := NewClient("", "http://unused.invalid")
	got, err := c.Disclosures(context.Background(), "005930", 30, 20)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestImportantDisclosures_FiltersList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "000",
			"list": []map[string]string{
				{"report_nm": "단일판매ㆍ공급계약 체결", "rcept_dt": "20260810", "pblntf_ty": "I001"},
				{"report_nm": "기타 안내사항", "rcept_dt": "20260811", "pblntf_ty": "Z999"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	got, err := c.ImportantDisclosures(context.Background(), "005930", 30, 20)
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "단일판매ㆍ공급계약 체결", got[0].Title)
	assert.Equal(t, "positive", got[0].Sentiment)
}
