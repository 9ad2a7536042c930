package blog

import "time"

// PostType is the content category of a post.
type PostType string

const (
	TypeArticle PostType = "article"
	TypeStory   PostType = "story"
	TypeNote    PostType = "note"
)

// PostTypes lists every post type.
var PostTypes = []PostType{TypeArticle, TypeStory, TypeNote}

// ParsePostType reports whether s names a post type.
func ParsePostType(s string) (PostType, bool) {
	for _, t := range PostTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Post is a single localized content entry as handed over by the document loader.
type Post struct {
	Slug             string
	Locale           Locale
	Type             PostType
	Title            string
	Description      string
	Summary          string
	Tags             []string
	PublishedAt      time.Time
	UpdatedAt        time.Time // zero means "same as PublishedAt" until normalized
	TranslationGroup string    // empty means "the slug" until normalized

	// Display fields. The index never looks at them.
	URL           string
	Body          string
	Image         string
	ImageWidth    int
	ImageHeight   int
	Author        string
	AuthorURL     string
	License       string
	Canonical     string
	Archived      string
	SourcePath    string
	SearchContent string
}

// Normalize resolves every defaulted field so query code never has to.
func Normalize(p Post) Post {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.PublishedAt
	}
	if p.TranslationGroup == "" {
		p.TranslationGroup = p.Slug
	}
	if p.Type == "" {
		p.Type = TypeNote
	}
	return p
}

// HasTag reports whether tag occurs in the post's tag list.
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
