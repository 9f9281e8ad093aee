package i18n

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	_ "github.com/louisbranch/autofix/internal/platform/i18n/catalog"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "autofix_lang"
)

var supportedTags = []language.Tag{
	language.AmericanEnglish,
	language.Spanish,
}

var tagMatcher = language.NewMatcher(supportedTags)

// LanguageOption is one entry of the language switcher.
type LanguageOption struct {
	Tag      string
	LabelKey string
	Active   bool
}

// Supported returns the list of supported language tags.
func Supported() []language.Tag {
	tags := make([]language.Tag, len(supportedTags))
	copy(tags, supportedTags)
	return tags
}

// Default returns the language used when the request states no supported
// preference. The shop's staff work in Spanish.
func Default() language.Tag {
	return language.Spanish
}

// Printer returns a message printer for the supplied tag.
func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag)
}

// ResolveTag determines the best language tag for the request.
// The bool indicates whether the lang query param should be persisted as a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}

	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		if tag, ok := parseTag(langValue); ok {
			return tag, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := parseTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			_, index, confidence := tagMatcher.Match(tags...)
			if confidence != language.No {
				return supportedTags[index], false
			}
		}
	}

	return Default(), false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// LanguageOptions lists the supported languages, marking active.
func LanguageOptions(active language.Tag) []LanguageOption {
	options := make([]LanguageOption, 0, len(supportedTags))
	for _, tag := range supportedTags {
		base, _ := tag.Base()
		options = append(options, LanguageOption{
			Tag:      tag.String(),
			LabelKey: "core.language." + base.String(),
			Active:   tag == active,
		})
	}
	return options
}

// LanguageURL returns path with the lang query parameter set to tag.
func LanguageURL(path, rawQuery, tag string) string {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		values = url.Values{}
	}
	values.Set(LangParam, tag)
	if path == "" {
		path = "/"
	}
	return path + "?" + values.Encode()
}

// parseTag accepts a supported tag or any tag sharing its base language.
func parseTag(value string) (language.Tag, bool) {
	parsed, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return language.Tag{}, false
	}
	parsedBase, _ := parsed.Base()
	for _, tag := range supportedTags {
		if tag == parsed {
			return tag, true
		}
	}
	for _, tag := range supportedTags {
		if base, _ := tag.Base(); base == parsedBase {
			return tag, true
		}
	}
	return language.Tag{}, false
}
