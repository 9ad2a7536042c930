package alexbon

import (
	"time"

	"github.com/alexbon-com/alexbon.com/blog"
)

func fixturePost(locale blog.Locale, slug string, typ blog.PostType, group string, day int, tags ...string) blog.Post {
	return blog.Post{
		Slug:             slug,
		Locale:           locale,
		Type:             typ,
		Title:            "Title " + slug,
		Description:      "Description of " + slug,
		Summary:          "Summary of " + slug,
		Tags:             tags,
		PublishedAt:      time.Date(2024, 3, day, 8, 0, 0, 0, time.UTC),
		TranslationGroup: group,
		URL:              PostPath(locale, slug),
		Body:             "<p>" + slug + "</p>",
		Author:           "Alex Bon",
		AuthorURL:        "https://alexbon.com",
		License:          "CC BY 4.0",
		SearchContent:    "Body of " + slug,
	}
}

// fixturePosts is a small corpus: three ua posts, two en and one ru, with
// the "silence" and "critic" groups translated.
func fixturePosts() []blog.Post {
	return []blog.Post{
		fixturePost(blog.LocaleUA, "tysha", blog.TypeNote, "silence", 10, "calm", "shame"),
		fixturePost(blog.LocaleUA, "krytyk", blog.TypeArticle, "critic", 5, "shame"),
		fixturePost(blog.LocaleUA, "kazka", blog.TypeStory, "", 1, "calm"),
		fixturePost(blog.LocaleEN, "silence", blog.TypeNote, "silence", 10, "calm"),
		fixturePost(blog.LocaleEN, "inner-critic", blog.TypeArticle, "critic", 5, "shame"),
		fixturePost(blog.LocaleRU, "tishina", blog.TypeNote, "silence", 10, "calm"),
	}
}

func fixtureIndex() *blog.Index {
	return blog.Build(fixturePosts(), blog.Locales, blog.WithClock(func() time.Time {
		return time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	}))
}
