package templates

import (
	"golang.org/x/text/message"

	apperrors "github.com/louisbranch/autofix/internal/platform/errors"
)

// Localizer provides translated strings for templ components.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// T returns a translated string or the key if no localizer is available.
func T(loc Localizer, key message.Reference, args ...any) string {
	if loc == nil {
		if keyString, ok := key.(string); ok {
			return keyString
		}
		return ""
	}
	return loc.Sprintf(key, args...)
}

// ErrorText localizes err through its key, falling back to core.error.title.
func ErrorText(loc Localizer, err error) string {
	if err == nil {
		return ""
	}
	if key := apperrors.LocalizationKey(err); key != "" {
		return T(loc, key)
	}
	return T(loc, "core.error.title")
}
