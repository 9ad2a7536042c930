package alexbon

import (
	"bytes"
	"encoding/xml"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alexbon-com/alexbon.com/blog"
	"github.com/alexbon-com/alexbon.com/content"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	DC      string     `xml:"xmlns:dc,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title          string    `xml:"title"`
	Link           string    `xml:"link"`
	Description    string    `xml:"description"`
	Language       string    `xml:"language"`
	Copyright      string    `xml:"copyright"`
	ManagingEditor string    `xml:"managingEditor"`
	WebMaster      string    `xml:"webMaster"`
	LastBuildDate  string    `xml:"lastBuildDate"`
	Image          rssImage  `xml:"image"`
	Items          []rssItem `xml:"item"`
}

type rssImage struct {
	URL   string `xml:"url"`
	Title string `xml:"title"`
	Link  string `xml:"link"`
}

type rssItem struct {
	Title         string        `xml:"title"`
	Link          string        `xml:"link"`
	GUID          string        `xml:"guid"`
	PubDate       string        `xml:"pubDate"`
	LastBuildDate string        `xml:"lastBuildDate"`
	Description   rssCDATA      `xml:"description"`
	Author        string        `xml:"author"`
	Source        rssSource     `xml:"source"`
	Language      string        `xml:"dc:language"`
	Categories    []string      `xml:"category"`
	Enclosure     *rssEnclosure `xml:"enclosure,omitempty"`
}

type rssCDATA struct {
	Text string `xml:",cdata"`
}

type rssSource struct {
	URL  string `xml:"url,attr"`
	Name string `xml:",chardata"`
}

type rssEnclosure struct {
	URL    string `xml:"url,attr"`
	Length string `xml:"length,attr"`
	Type   string `xml:"type,attr"`
}

// feedItem is the locale-neutral projection shared by the RSS and JSON feeds.
type feedItem struct {
	URL       string
	Title     string
	Text      string
	Language  string
	Published time.Time
	Modified  time.Time
	Tags      []string
	Author    string
	AuthorURL string
	License   string
	Image     string
}

func absoluteURL(base, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return strings.TrimRight(base, "/") + normalizePath(ref)
}

func feedItems(cfg SiteConfig, posts []blog.Post) []feedItem {
	items := make([]feedItem, 0, len(posts))
	for _, p := range posts {
		text := p.Description
		if text == "" {
			text = p.Summary
		}
		if text == "" {
			text = p.SearchContent
		}
		image := absoluteURL(cfg.URL, p.Image)
		if image == "" {
			image = cfg.DefaultImage
		}
		authorURL := p.AuthorURL
		if authorURL == "" {
			authorURL = cfg.URL
		}
		items = append(items, feedItem{
			URL:       cfg.URL + PostPath(p.Locale, p.Slug),
			Title:     p.Title,
			Text:      text,
			Language:  p.Locale.BCP47(),
			Published: p.PublishedAt,
			Modified:  p.UpdatedAt,
			Tags:      p.Tags,
			Author:    p.Author,
			AuthorURL: authorURL,
			License:   content.LicenseURL(p.License),
			Image:     image,
		})
	}
	return items
}

// feedUpdated is the newest modification time in posts, or fallback.
func feedUpdated(posts []blog.Post, fallback time.Time) time.Time {
	var newest time.Time
	for _, p := range posts {
		if p.UpdatedAt.After(newest) {
			newest = p.UpdatedAt
		}
	}
	if newest.IsZero() {
		return fallback
	}
	return newest
}

// BuildRSS renders the RSS 2.0 feed of locale.
func BuildRSS(cfg SiteConfig, idx *blog.Index, locale blog.Locale) ([]byte, error) {
	posts := idx.PostsByLocale(locale)
	cp := cfg.CopyFor(locale)
	home := CanonicalURL(cfg.URL, locale, "/blog/")

	items := make([]rssItem, 0, len(posts))
	for _, it := range feedItems(cfg, posts) {
		item := rssItem{
			Title:         it.Title,
			Link:          it.URL,
			GUID:          it.URL,
			PubDate:       it.Published.UTC().Format(time.RFC1123Z),
			LastBuildDate: it.Modified.UTC().Format(time.RFC1123Z),
			Description:   rssCDATA{Text: it.Text},
			Author:        it.Author + " (" + it.AuthorURL + ")",
			Source:        rssSource{URL: it.License, Name: "CC BY 4.0"},
			Language:      it.Language,
			Categories:    it.Tags,
		}
		if it.Image != "" {
			item.Enclosure = &rssEnclosure{URL: it.Image, Length: "0", Type: "image/webp"}
		}
		items = append(items, item)
	}

	feed := rssXML{
		Version: "2.0",
		DC:      "http://purl.org/dc/elements/1.1/",
		Channel: rssChannel{
			Title:          cp.Title,
			Link:           home,
			Description:    cp.Description,
			Language:       locale.BCP47(),
			Copyright:      "CC BY 4.0",
			ManagingEditor: cfg.Author,
			WebMaster:      cfg.Author,
			LastBuildDate:  feedUpdated(posts, idx.BuiltAt()).UTC().Format(time.RFC1123Z),
			Image:          rssImage{URL: cfg.DefaultImage, Title: cp.Title, Link: home},
			Items:          items,
		},
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(feed); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (a *App) handleRSS(c echo.Context) error {
	body, err := BuildRSS(a.Config, a.Library.Index(), localeOf(c))
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/rss+xml; charset=utf-8", body)
}
