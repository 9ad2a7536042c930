package blog

import "golang.org/x/text/language"

// Locale identifies a content variant. The set of locales is closed.
type Locale string

const (
	LocaleUA Locale = "ua"
	LocaleRU Locale = "ru"
	LocaleEN Locale = "en"
)

// Locales lists every supported locale in routing order.
var Locales = []Locale{LocaleUA, LocaleRU, LocaleEN}

// DefaultLocale is served without a path prefix.
const DefaultLocale = LocaleUA

type localeInfo struct {
	bcp47    string
	hreflang string
	tag      language.Tag
}

var localeTable = map[Locale]localeInfo{
	LocaleUA: {bcp47: "uk", hreflang: "uk-UA", tag: language.Ukrainian},
	LocaleRU: {bcp47: "ru", hreflang: "ru-RU", tag: language.Russian},
	LocaleEN: {bcp47: "en", hreflang: "en", tag: language.English},
}

// ParseLocale reports whether s names a supported locale.
func ParseLocale(s string) (Locale, bool) {
	l := Locale(s)
	_, ok := localeTable[l]
	return l, ok
}

// Valid reports whether l is one of the supported locales.
func (l Locale) Valid() bool {
	_, ok := localeTable[l]
	return ok
}

// BCP47 returns the language tag used in feeds and JSON-LD ("uk" for "ua").
func (l Locale) BCP47() string {
	if info, ok := localeTable[l]; ok {
		return info.bcp47
	}
	return string(l)
}

// Hreflang returns the value used in alternate link tags.
func (l Locale) Hreflang() string {
	if info, ok := localeTable[l]; ok {
		return info.hreflang
	}
	return string(l)
}

// Tag returns the x/text language tag for collation and number formatting.
func (l Locale) Tag() language.Tag {
	if info, ok := localeTable[l]; ok {
		return info.tag
	}
	return language.Und
}
