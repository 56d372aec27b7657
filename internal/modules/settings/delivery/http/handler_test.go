package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jigswap.app/jigswap/internal/i18n"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)

	handler := NewSettingsHandler()
	router := gin.New()
	router.Use(i18n.Middleware())
	router.GET("/api/settings/theme", handler.GetTheme)
	router.PUT("/api/settings/theme", handler.SetTheme)
	router.GET("/api/settings/locale", handler.GetLocale)
	router.PUT("/api/settings/locale", handler.SetLocale)
	return router
}

func cookieValue(t *testing.T, resp *httptest.ResponseRecorder, name string) string {
	t.Helper()
	for _, cookie := range resp.Result().Cookies() {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

func TestSetTheme(t *testing.T) {
	router := setupRouter()

	for _, theme := range []string{"light", "dark", "system"} {
		req := httptest.NewRequest(http.MethodPut, "/api/settings/theme", strings.NewReader(`{"theme":"`+theme+`"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code, "theme %s", theme)
		assert.Equal(t, theme, cookieValue(t, resp, ThemeCookieName))
	}

	t.Run("invalid theme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/settings/theme", strings.NewReader(`{"theme":"neon"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Empty(t, cookieValue(t, resp, ThemeCookieName))
	})
}

func TestGetTheme(t *testing.T) {
	router := setupRouter()

	t.Run("defaults to system", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/settings/theme", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"theme":"system"`)
	})

	t.Run("reads cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/settings/theme", nil)
		req.AddCookie(&http.Cookie{Name: ThemeCookieName, Value: "dark"})
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Contains(t, resp.Body.String(), `"theme":"dark"`)
	})

	t.Run("tampered cookie falls back", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/settings/theme", nil)
		req.AddCookie(&http.Cookie{Name: ThemeCookieName, Value: "blink"})
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Contains(t, resp.Body.String(), `"theme":"system"`)
	})
}

func TestSetLocale(t *testing.T) {
	router := setupRouter()

	req := httptest.NewRequest(http.MethodPut, "/api/settings/locale", strings.NewReader(`{"locale":"nl"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)

	t.Run("unsupported locale", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPut, "/api/settings/locale", strings.NewReader(`{"locale":"de"}`))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestGetLocaleNegotiation(t *testing.T) {
	router := setupRouter()

	t.Run("cookie wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/settings/locale", nil)
		req.AddCookie(&http.Cookie{Name: i18n.CookieName, Value: "nl"})
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Contains(t, resp.Body.String(), `"locale":"nl"`)
	})

	t.Run("accept language header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/settings/locale", nil)
		req.Header.Set("Accept-Language", "nl-NL,nl;q=0.9,en;q=0.8")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Contains(t, resp.Body.String(), `"locale":"nl"`)
		assert.Equal(t, "nl", cookieValue(t, resp, i18n.CookieName))
	})

	t.Run("default", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/settings/locale", nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		assert.Contains(t, resp.Body.String(), `"locale":"en"`)
	})
}
