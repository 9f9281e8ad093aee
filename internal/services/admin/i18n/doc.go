// Package i18n negotiates the admin UI language and builds message printers
// over the YAML catalogs.
package i18n
