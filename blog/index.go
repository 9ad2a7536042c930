// Package blog builds the in-memory content index of the site and answers
// locale-aware listing, tag, type, translation and pagination queries over it.
//
// An Index is built once from the full post list and is read-only afterwards,
// so it can be shared between goroutines without locking.
package blog

import (
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/collate"
)

// Collision records two posts of one locale claiming the same translation group.
// The later post in input order wins.
type Collision struct {
	Group   string
	Locale  Locale
	Kept    string
	Dropped string
}

// Index is an immutable snapshot of the content corpus.
type Index struct {
	locales []Locale

	posts  map[Locale][]Post
	tags   map[Locale]map[string][]Post
	types  map[Locale]map[PostType][]Post
	groups map[string]map[Locale]Post
	lookup map[Locale]map[string]string

	tagNames   map[Locale][]string
	collisions []Collision
	skipped    int
	builtAt    time.Time
}

type buildOptions struct {
	logger *zap.Logger
	now    func() time.Time
}

// BuildOption customizes Build.
type BuildOption func(*buildOptions)

// WithLogger makes Build report translation collisions and skipped posts.
func WithLogger(l *zap.Logger) BuildOption {
	return func(o *buildOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock overrides the build timestamp source.
func WithClock(now func() time.Time) BuildOption {
	return func(o *buildOptions) {
		o.now = now
	}
}

// Build indexes posts for the given locales. Posts are normalized first; posts
// whose locale is not listed are skipped.
func Build(posts []Post, locales []Locale, opts ...BuildOption) *Index {
	o := buildOptions{logger: zap.NewNop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	idx := &Index{
		locales:  slices.Clone(locales),
		posts:    make(map[Locale][]Post, len(locales)),
		tags:     make(map[Locale]map[string][]Post, len(locales)),
		types:    make(map[Locale]map[PostType][]Post, len(locales)),
		groups:   make(map[string]map[Locale]Post),
		lookup:   make(map[Locale]map[string]string, len(locales)),
		tagNames: make(map[Locale][]string, len(locales)),
		builtAt:  o.now(),
	}
	for _, l := range locales {
		idx.posts[l] = []Post{}
		idx.tags[l] = make(map[string][]Post)
		idx.types[l] = make(map[PostType][]Post)
		idx.lookup[l] = make(map[string]string)
	}

	for _, raw := range posts {
		p := Normalize(raw)
		localeTags, ok := idx.tags[p.Locale]
		if !ok {
			idx.skipped++
			o.logger.Warn("post locale not configured, skipping",
				zap.String("slug", p.Slug),
				zap.String("locale", string(p.Locale)),
			)
			continue
		}

		idx.posts[p.Locale] = append(idx.posts[p.Locale], p)
		idx.lookup[p.Locale][p.Slug] = p.TranslationGroup

		bucket, ok := idx.groups[p.TranslationGroup]
		if !ok {
			bucket = make(map[Locale]Post)
			idx.groups[p.TranslationGroup] = bucket
		}
		if prev, exists := bucket[p.Locale]; exists {
			c := Collision{Group: p.TranslationGroup, Locale: p.Locale, Kept: p.Slug, Dropped: prev.Slug}
			idx.collisions = append(idx.collisions, c)
			o.logger.Warn("translation group already has a post for locale",
				zap.String("group", c.Group),
				zap.String("locale", string(c.Locale)),
				zap.String("kept", c.Kept),
				zap.String("dropped", c.Dropped),
			)
		}
		bucket[p.Locale] = p

		idx.types[p.Locale][p.Type] = append(idx.types[p.Locale][p.Type], p)
		for _, tag := range p.Tags {
			localeTags[tag] = append(localeTags[tag], p)
		}
	}

	for _, l := range locales {
		sortByPublished(idx.posts[l])
		names := make([]string, 0, len(idx.tags[l]))
		for tag, bucket := range idx.tags[l] {
			sortByPublished(bucket)
			names = append(names, tag)
		}
		for _, bucket := range idx.types[l] {
			sortByPublished(bucket)
		}
		collate.New(l.Tag()).SortStrings(names)
		idx.tagNames[l] = names
	}

	return idx
}

// sortByPublished orders posts newest first, keeping input order on ties.
func sortByPublished(posts []Post) {
	slices.SortStableFunc(posts, func(a, b Post) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
}

// Locales returns the locales the index was built for.
func (x *Index) Locales() []Locale {
	return slices.Clone(x.locales)
}

// Collisions returns translation-group collisions found during the build.
func (x *Index) Collisions() []Collision {
	return slices.Clone(x.collisions)
}

// Skipped returns how many input posts had an unconfigured locale.
func (x *Index) Skipped() int {
	return x.skipped
}

// BuiltAt returns when the index was built.
func (x *Index) BuiltAt() time.Time {
	return x.builtAt
}

// Len returns the number of indexed posts in locale.
func (x *Index) Len(locale Locale) int {
	return len(x.posts[locale])
}
