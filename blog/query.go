package blog

import (
	"maps"
	"slices"
)

// PostsByLocale returns the locale's posts, newest first. Unknown or empty
// locales yield an empty slice.
func (x *Index) PostsByLocale(locale Locale) []Post {
	return cloneList(x.posts[locale])
}

// AllPosts returns the posts of locale, or of every locale merged newest
// first when locale is empty.
func (x *Index) AllPosts(locale Locale) []Post {
	if locale != "" {
		return x.PostsByLocale(locale)
	}
	var all []Post
	for _, l := range x.locales {
		all = append(all, x.posts[l]...)
	}
	if all == nil {
		return []Post{}
	}
	sortByPublished(all)
	return all
}

// PostBySlug finds a post by slug within a locale.
func (x *Index) PostBySlug(locale Locale, slug string) (Post, bool) {
	for _, p := range x.posts[locale] {
		if p.Slug == slug {
			return p, true
		}
	}
	return Post{}, false
}

// Slugs returns every slug of a locale in listing order.
func (x *Index) Slugs(locale Locale) []string {
	posts := x.posts[locale]
	slugs := make([]string, len(posts))
	for i, p := range posts {
		slugs[i] = p.Slug
	}
	return slugs
}

// Tags returns the locale's tag names sorted by the locale's collation rules.
func (x *Index) Tags(locale Locale) []string {
	names := x.tagNames[locale]
	if names == nil {
		return []string{}
	}
	return slices.Clone(names)
}

// PostsForTag returns the posts carrying tag, newest first.
func (x *Index) PostsForTag(locale Locale, tag string) []Post {
	return cloneList(x.tags[locale][tag])
}

// RelatedPosts returns the posts carrying tag ordered by relatedness to
// reference, excluding reference itself. Equal scores keep newest first.
func (x *Index) RelatedPosts(locale Locale, tag string, reference Post) []Post {
	bucket := x.tags[locale][tag]
	type scored struct {
		post  Post
		score float64
	}
	candidates := make([]scored, 0, len(bucket))
	for _, p := range bucket {
		if p.Slug == reference.Slug {
			continue
		}
		candidates = append(candidates, scored{post: p, score: Score(p.Tags, reference.Tags)})
	}
	slices.SortStableFunc(candidates, func(a, b scored) int {
		switch {
		case a.score > b.score:
			return -1
		case a.score < b.score:
			return 1
		}
		return b.post.PublishedAt.Compare(a.post.PublishedAt)
	})
	out := make([]Post, len(candidates))
	for i, c := range candidates {
		out[i] = c.post
	}
	return out
}

// PostsByType returns the locale's posts of type t, newest first.
func (x *Index) PostsByType(locale Locale, t PostType) []Post {
	return cloneList(x.types[locale][t])
}

// Translations returns every locale variant of the post identified by
// locale and slug, including the post itself. Unknown posts yield an empty map.
func (x *Index) Translations(locale Locale, slug string) map[Locale]Post {
	group, ok := x.lookup[locale][slug]
	if !ok {
		return map[Locale]Post{}
	}
	bucket, ok := x.groups[group]
	if !ok {
		return map[Locale]Post{}
	}
	return maps.Clone(bucket)
}

// Translation returns the variant of a post in target.
func (x *Index) Translation(locale Locale, slug string, target Locale) (Post, bool) {
	p, ok := x.Translations(locale, slug)[target]
	return p, ok
}

// Adjacent returns the neighbours of a post in the locale listing: newer is
// the entry before it and older the entry after it.
func (x *Index) Adjacent(locale Locale, slug string) (newer, older *Post) {
	posts := x.posts[locale]
	i := slices.IndexFunc(posts, func(p Post) bool { return p.Slug == slug })
	if i < 0 {
		return nil, nil
	}
	if i > 0 {
		p := posts[i-1]
		newer = &p
	}
	if i < len(posts)-1 {
		p := posts[i+1]
		older = &p
	}
	return newer, older
}

func cloneList(posts []Post) []Post {
	if posts == nil {
		return []Post{}
	}
	return slices.Clone(posts)
}
