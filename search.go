package alexbon

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/alexbon-com/alexbon.com/blog"
)

// SearchDocument is the client-side search record of a post.
type SearchDocument struct {
	Slug        string   `json:"slug"`
	URL         string   `json:"url"`
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Summary     string   `json:"summary"`
	Tags        []string `json:"tags"`
	PublishedAt string   `json:"publishedAt"`
	Content     string   `json:"searchContent"`
}

// SearchResponse is the body of search.json.
type SearchResponse struct {
	Locale string           `json:"locale"`
	Query  string           `json:"query,omitempty"`
	Total  int              `json:"total"`
	Posts  []SearchDocument `json:"posts"`
}

// Search returns the locale's posts, newest first, whose title, description,
// summary, tags or search content contain query after case folding. An empty
// query returns every post.
func Search(idx *blog.Index, locale blog.Locale, query string) []blog.Post {
	posts := idx.PostsByLocale(locale)
	needle := Fold(strings.TrimSpace(query))
	if needle == "" {
		return posts
	}
	out := make([]blog.Post, 0, len(posts))
	for _, p := range posts {
		if matchesQuery(p, needle) {
			out = append(out, p)
		}
	}
	return out
}

func matchesQuery(p blog.Post, needle string) bool {
	fields := []string{p.Title, p.Description, p.Summary, p.SearchContent}
	fields = append(fields, p.Tags...)
	for _, f := range fields {
		if strings.Contains(Fold(f), needle) {
			return true
		}
	}
	return false
}

func searchDocuments(posts []blog.Post) []SearchDocument {
	docs := make([]SearchDocument, len(posts))
	for i, p := range posts {
		docs[i] = SearchDocument{
			Slug:        p.Slug,
			URL:         PostPath(p.Locale, p.Slug),
			Type:        string(p.Type),
			Title:       p.Title,
			Description: p.Description,
			Summary:     p.Summary,
			Tags:        p.Tags,
			PublishedAt: p.PublishedAt.UTC().Format(time.RFC3339),
			Content:     p.SearchContent,
		}
	}
	return docs
}

func (a *App) handleSearchJSON(c echo.Context) error {
	locale := localeOf(c)
	q := c.QueryParam("q")
	posts := Search(a.Library.Index(), locale, q)
	return c.JSON(http.StatusOK, SearchResponse{
		Locale: string(locale),
		Query:  q,
		Total:  len(posts),
		Posts:  searchDocuments(posts),
	})
}
