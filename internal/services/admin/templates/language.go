package templates

import admini18n "github.com/louisbranch/autofix/internal/services/admin/i18n"

// languageURL returns the current URL with the language param updated.
func languageURL(page PageContext, tag string) string {
	return admini18n.LanguageURL(page.CurrentPath, page.CurrentQuery, tag)
}
