// Package i18n resolves the effective request language for web pages.
package i18n

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is the canonical fallback language tag.
const DefaultLanguage = "en-US"

// CookieName is the optional language override cookie.
const CookieName = "cosmichub_lang"

var supported = []language.Tag{
	language.MustParse("en-US"),
	language.MustParse("pt-BR"),
	language.MustParse("es"),
}

var matcher = language.NewMatcher(supported)

// ResolveLanguage returns the effective language tag for a request,
// honoring the override cookie before Accept-Language negotiation.
func ResolveLanguage(r *http.Request) string {
	if r == nil {
		return DefaultLanguage
	}
	if cookie, err := r.Cookie(CookieName); err == nil && cookie != nil {
		if tag, ok := matchOne(cookie.Value); ok {
			return tag
		}
	}
	accept := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if accept == "" {
		return DefaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, idx, _ := matcher.Match(tags...)
	return canonical(idx)
}

func matchOne(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return "", false
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", false
	}
	return canonical(idx), true
}

func canonical(idx int) string {
	if idx < 0 || idx >= len(supported) {
		return DefaultLanguage
	}
	return supported[idx].String()
}
