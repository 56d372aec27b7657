package i18n

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
)

const (
	LocaleEN = "en"
	LocaleNL = "nl"

	DefaultLocale = LocaleEN

	// CookieName holds the negotiated locale. Not http-only so client
	// script can read it.
	CookieName   = "locale"
	cookieMaxAge = 365 * 24 * 60 * 60

	contextKey = "locale"
)

var supported = []language.Tag{
	language.English, // first tag is the fallback
	language.Dutch,
}

var matcher = language.NewMatcher(supported)

// Resolve picks a supported locale. Priority: a cookie value naming a
// supported locale, then the best weighted match of the Accept-Language
// header, then the default.
func Resolve(cookieValue, acceptLanguage string) string {
	if IsSupported(cookieValue) {
		return cookieValue
	}

	if acceptLanguage != "" {
		if tag, _, err := language.ParseAcceptLanguage(acceptLanguage); err == nil {
			_, index, conf := matcher.Match(tag...)
			if conf > language.No {
				return localeForIndex(index)
			}
		}
	}

	return DefaultLocale
}

// IsSupported reports whether value names a supported locale.
func IsSupported(value string) bool {
	return value == LocaleEN || value == LocaleNL
}

func localeForIndex(index int) string {
	base, _ := supported[index].Base()
	return base.String()
}

// Middleware negotiates the request locale, stores it in the gin context
// and caches it in the locale cookie for subsequent requests.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookieValue, _ := c.Cookie(CookieName)
		locale := Resolve(cookieValue, c.GetHeader("Accept-Language"))

		if cookieValue != locale {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(CookieName, locale, cookieMaxAge, "/", "", false, false)
		}

		c.Set(contextKey, locale)
		c.Next()
	}
}

// FromContext returns the locale negotiated for this request.
func FromContext(c *gin.Context) string {
	if locale := c.GetString(contextKey); IsSupported(locale) {
		return locale
	}
	return DefaultLocale
}
