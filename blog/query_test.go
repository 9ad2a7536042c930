package blog

import "testing"

func relatedFixture() []Post {
	return []Post{
		{Slug: "ref", Locale: LocaleEN, Tags: []string{"grief", "calm"}, PublishedAt: day("2024-01-10")},
		{Slug: "a", Locale: LocaleEN, Tags: []string{"grief"}, PublishedAt: day("2024-01-01")},
		{Slug: "b", Locale: LocaleEN, Tags: []string{"calm"}, PublishedAt: day("2024-03-01")},
		{Slug: "c", Locale: LocaleEN, Tags: []string{"calm", "grief"}, PublishedAt: day("2023-12-01")},
		{Slug: "d", Locale: LocaleEN, Tags: []string{"calm", "sleep"}, PublishedAt: day("2024-04-01")},
	}
}

func TestRelatedPostsRanksPrimaryTagFirst(t *testing.T) {
	posts := relatedFixture()
	idx := Build(posts, Locales)
	ref := posts[0]

	// c shares both tags (3.2), a the primary (2.1), b and d the secondary (1.1) by date.
	equalSlugs(t, "RelatedPosts(calm)", idx.RelatedPosts(LocaleEN, "calm", ref), "c", "d", "b")
	equalSlugs(t, "RelatedPosts(grief)", idx.RelatedPosts(LocaleEN, "grief", ref), "c", "a")
}

func TestRelatedPostsExcludesReference(t *testing.T) {
	posts := relatedFixture()
	idx := Build(posts, Locales)
	ref := posts[0]

	for _, tag := range ref.Tags {
		for _, p := range idx.RelatedPosts(LocaleEN, tag, ref) {
			if p.Slug == ref.Slug {
				t.Errorf("RelatedPosts(%q) contains the reference post", tag)
			}
		}
	}
	// Without a reference the bucket is returned untouched, reference included.
	equalSlugs(t, "PostsForTag(grief)", idx.PostsForTag(LocaleEN, "grief"), "ref", "a", "c")
}

func TestRelatedPostsUnknownTag(t *testing.T) {
	idx := Build(relatedFixture(), Locales)
	if got := idx.RelatedPosts(LocaleEN, "missing", relatedFixture()[0]); len(got) != 0 {
		t.Errorf("RelatedPosts(missing) = %v, want none", slugsOf(got))
	}
}

func TestTranslationsRoundTrip(t *testing.T) {
	posts := []Post{
		{Slug: "trevoga", Locale: LocaleUA, TranslationGroup: "anxiety", PublishedAt: day("2024-01-01")},
		{Slug: "trevozhnost", Locale: LocaleRU, TranslationGroup: "anxiety", PublishedAt: day("2024-01-02")},
		{Slug: "anxiety", Locale: LocaleEN, TranslationGroup: "anxiety", PublishedAt: day("2024-01-03")},
		{Slug: "other", Locale: LocaleEN, PublishedAt: day("2024-01-04")},
	}
	idx := Build(posts, Locales)

	for _, p := range posts[:3] {
		tr := idx.Translations(p.Locale, p.Slug)
		if len(tr) != 3 {
			t.Fatalf("Translations(%s, %s) has %d entries, want 3", p.Locale, p.Slug, len(tr))
		}
		if tr[p.Locale].Slug != p.Slug {
			t.Errorf("Translations(%s, %s)[%s] = %q", p.Locale, p.Slug, p.Locale, tr[p.Locale].Slug)
		}
		for _, q := range posts[:3] {
			if tr[q.Locale].Slug != q.Slug {
				t.Errorf("Translations(%s, %s)[%s] = %q, want %q", p.Locale, p.Slug, q.Locale, tr[q.Locale].Slug, q.Slug)
			}
		}
	}

	if tr := idx.Translations(LocaleEN, "other"); len(tr) != 1 {
		t.Errorf("untranslated post should map only to itself, got %d entries", len(tr))
	}
	if tr := idx.Translations(LocaleEN, "nope"); tr == nil || len(tr) != 0 {
		t.Errorf("unknown slug should yield an empty map, got %#v", tr)
	}
	if _, ok := idx.Translation(LocaleUA, "trevoga", LocaleEN); !ok {
		t.Error("Translation(ua, trevoga, en) should exist")
	}
}

func TestPostBySlug(t *testing.T) {
	idx := Build(scenarioPosts(), Locales)

	if p, ok := idx.PostBySlug(LocaleEN, "b"); !ok || p.Slug != "b" {
		t.Errorf("PostBySlug(en, b) = %q, %v", p.Slug, ok)
	}
	if _, ok := idx.PostBySlug(LocaleRU, "b"); ok {
		t.Error("slug lookup must be scoped to the locale")
	}
	if _, ok := idx.PostBySlug(LocaleEN, "zzz"); ok {
		t.Error("PostBySlug(en, zzz) should not be found")
	}
}

func TestAllPostsMergesLocales(t *testing.T) {
	posts := []Post{
		{Slug: "ua-1", Locale: LocaleUA, PublishedAt: day("2024-01-01")},
		{Slug: "en-1", Locale: LocaleEN, PublishedAt: day("2024-02-01")},
		{Slug: "ru-1", Locale: LocaleRU, PublishedAt: day("2024-03-01")},
		{Slug: "ua-2", Locale: LocaleUA, PublishedAt: day("2024-04-01")},
	}
	idx := Build(posts, Locales)

	equalSlugs(t, "AllPosts()", idx.AllPosts(""), "ua-2", "ru-1", "en-1", "ua-1")
	equalSlugs(t, "AllPosts(ua)", idx.AllPosts(LocaleUA), "ua-2", "ua-1")
	if got := Build(nil, Locales).AllPosts(""); got == nil || len(got) != 0 {
		t.Errorf("AllPosts on empty index = %#v, want empty slice", got)
	}
}

func TestPostsByType(t *testing.T) {
	idx := Build(scenarioPosts(), Locales)

	equalSlugs(t, "PostsByType(note)", idx.PostsByType(LocaleEN, TypeNote), "c", "b")
	equalSlugs(t, "PostsByType(article)", idx.PostsByType(LocaleEN, TypeArticle), "a")
	equalSlugs(t, "PostsByType(story)", idx.PostsByType(LocaleEN, TypeStory))
}

func TestAdjacent(t *testing.T) {
	idx := Build(scenarioPosts(), Locales)

	newer, older := idx.Adjacent(LocaleEN, "b")
	if newer == nil || newer.Slug != "c" {
		t.Errorf("newer = %v, want c", newer)
	}
	if older == nil || older.Slug != "a" {
		t.Errorf("older = %v, want a", older)
	}

	newer, older = idx.Adjacent(LocaleEN, "c")
	if newer != nil || older == nil {
		t.Errorf("first post: newer = %v, older = %v", newer, older)
	}
	newer, older = idx.Adjacent(LocaleEN, "missing")
	if newer != nil || older != nil {
		t.Error("unknown slug should have no neighbours")
	}
}

func TestSlugs(t *testing.T) {
	idx := Build(scenarioPosts(), Locales)
	slugs := idx.Slugs(LocaleEN)
	if len(slugs) != 3 || slugs[0] != "c" || slugs[2] != "a" {
		t.Errorf("Slugs(en) = %v, want [c b a]", slugs)
	}
}

func TestParseHelpers(t *testing.T) {
	if l, ok := ParseLocale("ru"); !ok || l != LocaleRU {
		t.Errorf("ParseLocale(ru) = %q, %v", l, ok)
	}
	if _, ok := ParseLocale("de"); ok {
		t.Error("ParseLocale(de) should fail")
	}
	if LocaleUA.BCP47() != "uk" || LocaleUA.Hreflang() != "uk-UA" {
		t.Errorf("ua maps to %q / %q", LocaleUA.BCP47(), LocaleUA.Hreflang())
	}
	if typ, ok := ParsePostType("story"); !ok || typ != TypeStory {
		t.Errorf("ParsePostType(story) = %q, %v", typ, ok)
	}
	if _, ok := ParsePostType("video"); ok {
		t.Error("ParsePostType(video) should fail")
	}
}
