package catalog

import (
	"golang.org/x/text/language"
)

// DefaultLocale is used whenever a requested locale has no match or a label
// lacks a translation.
const DefaultLocale = "ja"

var matcher = language.NewMatcher([]language.Tag{
	language.Japanese,
	language.Korean,
	language.English,
})

// MatchLocale resolves a locale or Accept-Language value to one of ja, ko or en.
func MatchLocale(accept string) string {
	if accept == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	tag, _, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultLocale
	}
	base, _ := tag.Base()
	return base.String()
}

// Localize picks the text for locale, falling back to Japanese and then to
// fallback.
func Localize(texts map[string]string, locale, fallback string) string {
	if v := texts[MatchLocale(locale)]; v != "" {
		return v
	}
	if v := texts[DefaultLocale]; v != "" {
		return v
	}
	return fallback
}
