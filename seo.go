package alexbon

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/alexbon-com/alexbon.com/blog"
	"github.com/alexbon-com/alexbon.com/content"
)

// XDefault is the hreflang value of the fallback alternate.
const XDefault = "x-default"

// Alternate is one hreflang link for a page.
type Alternate struct {
	Hreflang string
	URL      string
}

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		return "/" + p
	}
	return p
}

// LocalizedPath prefixes p with the locale segment. The default locale is
// served without a prefix.
func LocalizedPath(locale blog.Locale, p string) string {
	p = normalizePath(p)
	if locale == blog.DefaultLocale {
		return p
	}
	if p == "/" {
		return "/" + string(locale) + "/"
	}
	return "/" + string(locale) + p
}

// CanonicalURL is the absolute URL of p in locale on the site at base.
func CanonicalURL(base string, locale blog.Locale, p string) string {
	return strings.TrimRight(base, "/") + LocalizedPath(locale, p)
}

// PostPath is the site path of a post, with trailing slash.
func PostPath(locale blog.Locale, slug string) string {
	return LocalizedPath(locale, "/blog/"+url.PathEscape(slug)+"/")
}

// TagPath is the site path of a tag listing.
func TagPath(locale blog.Locale, tag string) string {
	return LocalizedPath(locale, "/blog/tag/"+url.PathEscape(tag)+"/")
}

// TypePath is the site path of a post type listing.
func TypePath(locale blog.Locale, t blog.PostType) string {
	return LocalizedPath(locale, "/blog/type/"+string(t)+"/")
}

// PagePath returns the path of page n of the listing rooted at listing
// (a locale-free path such as "/blog/" or "/blog/tag/calm/"). Page 1 is the
// listing itself.
func PagePath(locale blog.Locale, listing string, n int) string {
	listing = normalizePath(listing)
	if !strings.HasSuffix(listing, "/") {
		listing += "/"
	}
	if n <= 1 {
		return LocalizedPath(locale, listing)
	}
	return LocalizedPath(locale, listing+"page/"+strconv.Itoa(n)+"/")
}

// LanguageAlternates returns the hreflang links for a page whose path differs
// per locale. A locale missing from paths falls back to the default locale's
// path; locales with no path at all are skipped. The default locale is always
// considered and the x-default link is always last.
func LanguageAlternates(base string, paths map[blog.Locale]string) []Alternate {
	base = strings.TrimRight(base, "/")
	out := make([]Alternate, 0, len(blog.Locales)+1)
	for _, l := range blog.Locales {
		if _, ok := paths[l]; !ok && l != blog.DefaultLocale {
			continue
		}
		p, ok := paths[l]
		if !ok || p == "" {
			p = paths[blog.DefaultLocale]
		}
		if p == "" {
			continue
		}
		out = append(out, Alternate{Hreflang: l.Hreflang(), URL: base + LocalizedPath(l, p)})
	}
	def := paths[blog.DefaultLocale]
	if def == "" {
		def = "/"
	}
	out = append(out, Alternate{Hreflang: XDefault, URL: base + LocalizedPath(blog.DefaultLocale, def)})
	return out
}

// SamePathAlternates is LanguageAlternates for a page that has the same path
// in each of locales.
func SamePathAlternates(base, p string, locales []blog.Locale) []Alternate {
	paths := make(map[blog.Locale]string, len(locales))
	for _, l := range locales {
		if l.Valid() {
			paths[l] = p
		}
	}
	if _, ok := paths[blog.DefaultLocale]; !ok {
		paths[blog.DefaultLocale] = p
	}
	return LanguageAlternates(base, paths)
}

var (
	homeLabel = map[blog.Locale]string{blog.LocaleUA: "Головна", blog.LocaleRU: "Главная", blog.LocaleEN: "Home"}
	blogLabel = map[blog.Locale]string{blog.LocaleUA: "Думки", blog.LocaleRU: "Мысли", blog.LocaleEN: "Thoughts"}
)

const socialProfile = "https://www.facebook.com/mr.alexbon"

func marshalJSONLD(data map[string]any) string {
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func person(name, u string) map[string]any {
	return map[string]any{
		"@type":  "Person",
		"name":   name,
		"url":    u,
		"sameAs": []string{socialProfile},
	}
}

func publisher(cfg SiteConfig) map[string]any {
	return map[string]any{
		"@type":  "Organization",
		"name":   cfg.Name,
		"url":    cfg.URL,
		"sameAs": []string{socialProfile},
	}
}

// WebsiteJSONLD returns the WebSite schema for the site, with a search action.
func WebsiteJSONLD(cfg SiteConfig, locale blog.Locale) string {
	langs := make([]string, len(blog.Locales))
	for i, l := range blog.Locales {
		langs[i] = string(l)
	}
	return marshalJSONLD(map[string]any{
		"@context":     "https://schema.org",
		"@type":        "WebSite",
		"name":         cfg.Name,
		"url":          cfg.URL,
		"inLanguage":   langs,
		"license":      content.LicenseURL(""),
		"image":        cfg.DefaultImage,
		"thumbnailUrl": cfg.DefaultImage,
		"publisher":    publisher(cfg),
		"slogan":       cfg.CopyFor(locale).Title,
		"sameAs":       []string{socialProfile},
		"potentialAction": map[string]any{
			"@type":       "SearchAction",
			"target":      CanonicalURL(cfg.URL, locale, "/search/") + "?q={search_term_string}",
			"query-input": "required name=search_term_string",
		},
	})
}

// SchemaType maps a post type to its schema.org type.
func SchemaType(t blog.PostType) string {
	switch t {
	case blog.TypeArticle:
		return "Article"
	case blog.TypeStory:
		return "ShortStory"
	}
	return "SocialMediaPosting"
}

// PostJSONLD returns the schema for a post, typed by its post type.
func PostJSONLD(p blog.Post, cfg SiteConfig) string {
	image := p.Image
	if image == "" {
		image = cfg.DefaultImage
	}
	pageURL := cfg.URL + PostPath(p.Locale, p.Slug)
	canonical := p.Canonical
	if canonical == "" {
		canonical = pageURL
	}
	data := map[string]any{
		"@context":      "https://schema.org",
		"@type":         SchemaType(p.Type),
		"headline":      p.Title,
		"description":   p.Description,
		"datePublished": p.PublishedAt.Format(time.RFC3339),
		"dateModified":  p.UpdatedAt.Format(time.RFC3339),
		"keywords":      p.Tags,
		"inLanguage":    p.Locale.BCP47(),
		"url":           canonical,
		"license":       content.LicenseURL(p.License),
		"author":        person(p.Author, p.AuthorURL),
		"publisher":     publisher(cfg),
		"image":         image,
		"thumbnailUrl":  image,
		"isPartOf":      CanonicalURL(cfg.URL, p.Locale, "/blog/"),
		"mainEntityOfPage": map[string]any{
			"@type": "WebPage",
			"@id":   pageURL,
		},
	}
	if p.Type == blog.TypeNote {
		data["articleBody"] = p.SearchContent
	}
	if p.Archived != "" {
		data["sameAs"] = []string{p.Archived}
	}
	return marshalJSONLD(data)
}

// BreadcrumbJSONLD returns the Home > Blog > Post trail. A zero post yields
// the two-level Home > Blog trail used by listings.
func BreadcrumbJSONLD(cfg SiteConfig, locale blog.Locale, p blog.Post) string {
	items := []map[string]any{
		{"@type": "ListItem", "position": 1, "name": homeLabel[locale], "item": CanonicalURL(cfg.URL, locale, "/")},
		{"@type": "ListItem", "position": 2, "name": blogLabel[locale], "item": CanonicalURL(cfg.URL, locale, "/blog/")},
	}
	if p.Slug != "" {
		items = append(items, map[string]any{
			"@type": "ListItem", "position": 3, "name": p.Title,
			"item": cfg.URL + PostPath(locale, p.Slug),
		})
	}
	return marshalJSONLD(map[string]any{
		"@context":        "https://schema.org",
		"@type":           "BreadcrumbList",
		"itemListElement": items,
	})
}

// CollectionJSONLD describes a tag or type listing page.
func CollectionJSONLD(cfg SiteConfig, locale blog.Locale, name, term, canonical string, sameAs []string) string {
	return marshalJSONLD(map[string]any{
		"@context":   "https://schema.org",
		"@type":      "CollectionPage",
		"name":       name,
		"inLanguage": locale.BCP47(),
		"url":        canonical,
		"isPartOf":   CanonicalURL(cfg.URL, locale, "/blog/"),
		"sameAs":     sameAs,
		"about": map[string]any{
			"@type":            "DefinedTerm",
			"name":             term,
			"alternateName":    url.PathEscape(term),
			"inDefinedTermSet": cfg.URL + "/blog/tags",
		},
	})
}
