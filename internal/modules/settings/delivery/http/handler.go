package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jigswap.app/jigswap/internal/i18n"
	"jigswap.app/jigswap/pkg/validator"
)

const (
	// ThemeCookieName persists the UI theme preference on the client.
	ThemeCookieName = "jigswap-ui-theme"

	ThemeLight  = "light"
	ThemeDark   = "dark"
	ThemeSystem = "system"

	cookieMaxAge = 365 * 24 * 60 * 60
)

type SetThemeInput struct {
	Theme string `json:"theme" binding:"required,oneof=light dark system"`
}

type SetLocaleInput struct {
	Locale string `json:"locale" binding:"required,oneof=en nl"`
}

// SettingsHandler manages client-side preferences that live in cookies.
type SettingsHandler struct{}

func NewSettingsHandler() *SettingsHandler {
	return &SettingsHandler{}
}

func (h *SettingsHandler) SetTheme(c *gin.Context) {
	var input SetThemeInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(ThemeCookieName, input.Theme, cookieMaxAge, "/", "", false, false)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"theme": input.Theme}})
}

func (h *SettingsHandler) GetTheme(c *gin.Context) {
	theme, err := c.Cookie(ThemeCookieName)
	if err != nil || !isValidTheme(theme) {
		theme = ThemeSystem
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"theme": theme}})
}

// SetLocale overrides the negotiated locale with an explicit choice.
func (h *SettingsHandler) SetLocale(c *gin.Context) {
	var input SetLocaleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(i18n.CookieName, input.Locale, cookieMaxAge, "/", "", false, false)

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"locale": input.Locale}})
}

func (h *SettingsHandler) GetLocale(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"locale": i18n.FromContext(c)}})
}

func isValidTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark || theme == ThemeSystem
}
