package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SergeiKhy/todo-shorturl/internal/apperrors"
	"github.com/SergeiKhy/todo-shorturl/internal/handler"
	"github.com/SergeiKhy/todo-shorturl/internal/models"
	"github.com/SergeiKhy/todo-shorturl/internal/service"
	"github.com/SergeiKhy/todo-shorturl/internal/service/mocks"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://short.test"

func setupLinkRouter(t *testing.T, ping handler.PingFunc) (*gin.Engine, *mocks.MockLinkRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	linkRepo := mocks.NewMockLinkRepository()
	linkService := service.NewLinkService(linkRepo, nil, service.WithReservedIDs(handler.ReservedShortIDs...))
	router := handler.NewLinkRouter(linkService, testBaseURL, handler.RouterConfig{Ping: ping})
	return router, linkRepo
}

func doJSON(router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	router.ServeHTTP(w, req)
	return w
}

func shorten(t *testing.T, router http.Handler, url string) handler.ShortenResponse {
	t.Helper()
	w := doJSON(router, "POST", "/shorten", handler.ShortenRequest{URL: url})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp handler.ShortenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// TestLinkHandler_Shorten проверяет создание короткой ссылки
func TestLinkHandler_Shorten(t *testing.T) {
	router, linkRepo := setupLinkRouter(t, nil)

	resp := shorten(t, router, "https://example.org")

	assert.Len(t, resp.ShortID, 6)
	assert.Equal(t, testBaseURL+"/"+resp.ShortID, resp.ShortURL)
	assert.Equal(t, "https://example.org", resp.OriginalURL)
	assert.False(t, resp.CreatedAt.IsZero())
	assert.Equal(t, 1, linkRepo.Count())
}

// TestLinkHandler_Shorten_Idempotent повторный запрос отдаёт ту же ссылку
func TestLinkHandler_Shorten_Idempotent(t *testing.T) {
	router, linkRepo := setupLinkRouter(t, nil)

	first := shorten(t, router, "https://example.com/same")
	second := shorten(t, router, "https://example.com/same")

	assert.Equal(t, first.ShortID, second.ShortID)
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.Equal(t, 1, linkRepo.Count())
}

func TestLinkHandler_Shorten_BadRequest(t *testing.T) {
	router, linkRepo := setupLinkRouter(t, nil)

	tests := []struct {
		name      string
		body      any
		wantError string
	}{
		{"битый JSON", `{"url":`, "invalid_request"},
		{"нет поля url", `{}`, "invalid_request"},
		{"не URL", handler.ShortenRequest{URL: "not-a-url"}, "invalid_url"},
		{"неподдерживаемая схема", handler.ShortenRequest{URL: "javascript:alert(1)"}, "invalid_url"},
		{"без хоста", handler.ShortenRequest{URL: "https://"}, "invalid_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(router, "POST", "/shorten", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var errResp handler.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
			assert.Equal(t, tt.wantError, errResp.Error)
			assert.NotEmpty(t, errResp.Message)
		})
	}

	assert.Zero(t, linkRepo.Count())
}

func TestLinkHandler_Shorten_StorageError(t *testing.T) {
	router, linkRepo := setupLinkRouter(t, nil)
	linkRepo.FailWith(apperrors.NewStorageError("insert link", errors.New("database is locked")))

	w := doJSON(router, "POST", "/shorten", handler.ShortenRequest{URL: "https://example.com"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "database is locked")
}

// TestLinkHandler_Redirect переход увеличивает счётчик и отдаёт 307
func TestLinkHandler_Redirect(t *testing.T) {
	router, _ := setupLinkRouter(t, nil)
	created := shorten(t, router, "https://example.org/target?q=1")

	w := doJSON(router, "GET", "/"+created.ShortID, nil)
	assert.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "https://example.org/target?q=1", w.Header().Get("Location"))

	w = doJSON(router, "GET", "/stats/"+created.ShortID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats handler.StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, created.ShortID, stats.ShortID)
	assert.Equal(t, "https://example.org/target?q=1", stats.OriginalURL)
	assert.Equal(t, int64(1), stats.ClickCount)
}

func TestLinkHandler_NotFound(t *testing.T) {
	router, _ := setupLinkRouter(t, nil)

	for _, path := range []string{"/zzzzzz", "/stats/zzzzzz"} {
		w := doJSON(router, "GET", path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)

		var errResp handler.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
		assert.Equal(t, "not_found", errResp.Error)
	}
}

// TestLinkHandler_StatsDoNotCount статистика не засчитывается как переход
func TestLinkHandler_StatsDoNotCount(t *testing.T) {
	router, linkRepo := setupLinkRouter(t, nil)
	linkRepo.Seed(models.Link{ShortID: "abc123", DestinationURL: "https://example.com"})

	for i := 0; i < 3; i++ {
		w := doJSON(router, "GET", "/stats/abc123", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"click_count":0`)
	}
}

func TestLinkRouter_ServiceEndpoints(t *testing.T) {
	router, _ := setupLinkRouter(t, func(context.Context) error { return nil })

	w := doJSON(router, "GET", "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"service":"shorturl"`)

	w = doJSON(router, "GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var health map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "shorturl", health["service"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestLinkRouter_HealthUnavailable(t *testing.T) {
	router, _ := setupLinkRouter(t, func(context.Context) error { return errors.New("database is closed") })

	w := doJSON(router, "GET", "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
