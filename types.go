package alexbon

import "github.com/alexbon-com/alexbon.com/blog"

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Locale      blog.Locale
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string
	ImageWidth  int
	ImageHeight int
	Alternates  []Alternate
	JSONLD      []string
	PrevURL     string // rel="prev"
	NextURL     string // rel="next"
	NoIndex     bool
}

// Nav is the locale-aware navigation shared by all pages.
type Nav struct {
	Locale   blog.Locale
	Home     string
	Blog     string
	Search   string
	About    string
	Switcher []LocaleLink // same page in every locale that has it
}

// LocaleLink points at a page in another locale.
type LocaleLink struct {
	Locale blog.Locale
	URL    string
	Active bool
}

// TypeLink is a post type entry in listing navigation.
type TypeLink struct {
	Type  blog.PostType
	Label string
	URL   string
	Count int
}

// Pager is the pagination block under a listing.
type Pager struct {
	Page       int
	TotalPages int
	PrevURL    string
	NextURL    string
}

// HomePage is the data of the locale home page.
type HomePage struct {
	Meta   PageMeta
	Nav    Nav
	Latest []blog.Post
	Types  []TypeLink
}

// ListingPage is the data of a blog, tag or type listing page.
type ListingPage struct {
	Meta     PageMeta
	Nav      Nav
	Heading  string
	Intro    string
	Tag      string        // set on tag listings
	Type     blog.PostType // set on type listings
	Posts    []blog.Post
	Tags     []string
	Types    []TypeLink
	Pager    Pager
	Total    int
	ShowTags bool
}

// PostPage is the data of a single post page.
type PostPage struct {
	Meta         PageMeta
	Nav          Nav
	Post         blog.Post
	Translations map[blog.Locale]blog.Post
	Related      []blog.Post
	Newer        *blog.Post
	Older        *blog.Post
	TypeLabel    string
	TypeURL      string
	Published    string // localized date
	Updated      string // localized date, empty when equal to Published
}

// SearchPage is the data of the search page. The page loads its corpus
// from SearchURL.
type SearchPage struct {
	Meta      PageMeta
	Nav       Nav
	Query     string
	SearchURL string
}

// StaticPage is the data of a page without index content, such as About or
// a 404.
type StaticPage struct {
	Meta PageMeta
	Nav  Nav
}
