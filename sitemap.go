package alexbon

import (
	"bytes"
	"encoding/xml"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alexbon-com/alexbon.com/blog"
)

type sitemapURLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

// SitemapURL is one <url> entry.
type SitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

func sitemapEntry(loc string, lastMod time.Time, freq string, priority float64) SitemapURL {
	return SitemapURL{
		Loc:        loc,
		LastMod:    lastMod.UTC().Format(time.RFC3339),
		ChangeFreq: freq,
		Priority:   strconv.FormatFloat(priority, 'f', -1, 64),
	}
}

// SitemapURLs lists every indexable page of every locale: home, blog, search,
// paged blog listings, posts, tags and paged tag listings. Non-post pages
// carry the index build time as lastmod.
func SitemapURLs(cfg SiteConfig, idx *blog.Index) []SitemapURL {
	now := idx.BuiltAt()
	var urls []SitemapURL
	for _, locale := range idx.Locales() {
		isDefault := locale == blog.DefaultLocale
		pick := func(def, other float64) float64 {
			if isDefault {
				return def
			}
			return other
		}

		urls = append(urls,
			sitemapEntry(CanonicalURL(cfg.URL, locale, "/"), now, "monthly", pick(1, 0.9)),
			sitemapEntry(CanonicalURL(cfg.URL, locale, "/blog/"), now, "weekly", pick(0.8, 0.75)),
			sitemapEntry(CanonicalURL(cfg.URL, locale, "/search/"), now, "weekly", pick(0.75, 0.7)),
		)

		listing := idx.PaginateLocale(locale, 1, cfg.PageSize)
		for page := 2; page <= listing.TotalPages; page++ {
			urls = append(urls, sitemapEntry(cfg.URL+PagePath(locale, "/blog/", page), now, "weekly", 0.6))
		}

		for _, p := range idx.PostsByLocale(locale) {
			urls = append(urls, sitemapEntry(cfg.URL+PostPath(locale, p.Slug), p.UpdatedAt, "weekly", 0.85))
		}

		for _, tag := range idx.Tags(locale) {
			base := "/blog/tag/" + PathEscape(tag) + "/"
			urls = append(urls, sitemapEntry(cfg.URL+LocalizedPath(locale, base), now, "weekly", 0.7))
			tagPages := idx.PaginateTag(locale, tag, 1, cfg.PageSize)
			for page := 2; page <= tagPages.TotalPages; page++ {
				urls = append(urls, sitemapEntry(cfg.URL+PagePath(locale, base, page), now, "weekly", 0.6))
			}
		}
	}
	return urls
}

// BuildSitemap renders the sitemap XML document.
func BuildSitemap(cfg SiteConfig, idx *blog.Index) ([]byte, error) {
	set := sitemapURLSet{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs:  SitemapURLs(cfg, idx),
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *App) handleSitemap(c echo.Context) error {
	body, err := BuildSitemap(a.Config, a.Library.Index())
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/xml; charset=utf-8", body)
}
