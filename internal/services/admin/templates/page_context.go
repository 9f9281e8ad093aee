package templates

import admini18n "github.com/louisbranch/autofix/internal/services/admin/i18n"

// PageContext provides shared layout context for admin pages.
type PageContext struct {
	Lang         string
	Loc          Localizer
	CurrentPath  string
	CurrentQuery string
	Languages    []admini18n.LanguageOption
}

func pageLang(page PageContext) string {
	if page.Lang == "" {
		return admini18n.Default().String()
	}
	return page.Lang
}

func pageTitle(page PageContext, titleKey string) string {
	return T(page.Loc, titleKey) + " · " + T(page.Loc, "core.app.name")
}
