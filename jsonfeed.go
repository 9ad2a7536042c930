package alexbon

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alexbon-com/alexbon.com/blog"
)

// JSONFeedVersion is the version URL of the JSON Feed format produced.
const JSONFeedVersion = "https://jsonfeed.org/version/1.1"

// JSONFeed is a JSON Feed 1.1 document.
type JSONFeed struct {
	Version     string         `json:"version"`
	Title       string         `json:"title"`
	HomePageURL string         `json:"home_page_url"`
	FeedURL     string         `json:"feed_url"`
	Description string         `json:"description,omitempty"`
	Language    string         `json:"language,omitempty"`
	Authors     []JSONFeedUser `json:"authors,omitempty"`
	Icon        string         `json:"icon,omitempty"`
	Favicon     string         `json:"favicon,omitempty"`
	Items       []JSONFeedItem `json:"items"`
}

// JSONFeedUser is an author entry.
type JSONFeedUser struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// JSONFeedItem is one post in the feed.
type JSONFeedItem struct {
	ID            string         `json:"id"`
	URL           string         `json:"url"`
	Title         string         `json:"title"`
	ContentText   string         `json:"content_text"`
	Language      string         `json:"language,omitempty"`
	DatePublished string         `json:"date_published"`
	DateModified  string         `json:"date_modified,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Authors       []JSONFeedUser `json:"authors,omitempty"`
	License       string         `json:"_license,omitempty"`
	Image         string         `json:"image,omitempty"`
}

// BuildJSONFeed returns the JSON Feed of locale.
func BuildJSONFeed(cfg SiteConfig, idx *blog.Index, locale blog.Locale) JSONFeed {
	cp := cfg.CopyFor(locale)
	posts := idx.PostsByLocale(locale)
	items := make([]JSONFeedItem, 0, len(posts))
	for _, it := range feedItems(cfg, posts) {
		items = append(items, JSONFeedItem{
			ID:            it.URL,
			URL:           it.URL,
			Title:         it.Title,
			ContentText:   it.Text,
			Language:      it.Language,
			DatePublished: it.Published.UTC().Format(time.RFC3339),
			DateModified:  it.Modified.UTC().Format(time.RFC3339),
			Tags:          it.Tags,
			Authors:       []JSONFeedUser{{Name: it.Author, URL: it.AuthorURL}},
			License:       it.License,
			Image:         it.Image,
		})
	}
	return JSONFeed{
		Version:     JSONFeedVersion,
		Title:       cp.Title,
		HomePageURL: CanonicalURL(cfg.URL, locale, "/blog/"),
		FeedURL:     CanonicalURL(cfg.URL, locale, "/feed.json"),
		Description: cp.Description,
		Language:    locale.BCP47(),
		Authors:     []JSONFeedUser{{Name: cfg.Author, URL: cfg.URL}},
		Icon:        cfg.DefaultImage,
		Favicon:     cfg.URL + "/favicon.ico",
		Items:       items,
	}
}

func (a *App) handleJSONFeed(c echo.Context) error {
	feed := BuildJSONFeed(a.Config, a.Library.Index(), localeOf(c))
	body, err := json.MarshalIndent(feed, "", "  ")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "application/feed+json; charset=utf-8", body)
}
