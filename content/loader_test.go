package content

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexbon-com/alexbon.com/blog"
)

func newTestLoader(files fstest.MapFS) *Loader {
	return &Loader{
		FS:             files,
		SiteURL:        "https://alexbon.com",
		AuthorURL:      "https://alexbon.com",
		ArchiveBaseURL: "https://github.com/alexbon-com/alexbon.com/blob/main/content",
		DefaultLocale:  blog.LocaleUA,
	}
}

func file(s string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(s)}
}

func loadOne(t *testing.T, files fstest.MapFS) blog.Post {
	t.Helper()
	posts, err := newTestLoader(files).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("Load returned %d posts, want 1", len(posts))
	}
	return posts[0]
}

func TestLoadArticle(t *testing.T) {
	p := loadOne(t, fstest.MapFS{
		"en/articles/inner-critic.mdx": file(`---
title: The Inner Critic
publishedAt: 2024-03-05
updatedAt: 2024-04-01T10:00:00Z
tags: [self-talk, " shame ", ""]
translationGroup: inner-critic
image: /images/critic.webp
---
# Heading

Body text here. More text.
`),
	})

	if p.Slug != "inner-critic" || p.Locale != blog.LocaleEN || p.Type != blog.TypeArticle {
		t.Errorf("identity = %s/%s/%s", p.Locale, p.Slug, p.Type)
	}
	if p.Title != "The Inner Critic" {
		t.Errorf("Title = %q", p.Title)
	}
	if len(p.Tags) != 2 || p.Tags[0] != "self-talk" || p.Tags[1] != "shame" {
		t.Errorf("Tags = %q", p.Tags)
	}
	if !p.PublishedAt.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("PublishedAt = %v", p.PublishedAt)
	}
	if !p.UpdatedAt.Equal(time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("UpdatedAt = %v", p.UpdatedAt)
	}
	if p.URL != "/en/blog/inner-critic/" {
		t.Errorf("URL = %q", p.URL)
	}
	if p.Canonical != "https://alexbon.com/en/blog/inner-critic/" {
		t.Errorf("Canonical = %q", p.Canonical)
	}
	if p.Archived != "https://github.com/alexbon-com/alexbon.com/blob/main/content/en/articles/inner-critic.mdx" {
		t.Errorf("Archived = %q", p.Archived)
	}
	if !strings.Contains(p.Body, `<h1 id="heading">Heading</h1>`) {
		t.Errorf("Body = %q", p.Body)
	}
	if p.Description != "Heading Body text here. More text." {
		t.Errorf("Description = %q", p.Description)
	}
	if p.Summary != "Heading Body text here." {
		t.Errorf("Summary = %q", p.Summary)
	}
	if p.Author != "Alex Bon" || p.License != "CC BY 4.0" || p.AuthorURL != "https://alexbon.com" {
		t.Errorf("author fields = %q %q %q", p.Author, p.AuthorURL, p.License)
	}
}

func TestLoadDefaultsForNote(t *testing.T) {
	p := loadOne(t, fstest.MapFS{
		"ua/notes/tysha.md": file("---\npublishedAt: 2024-01-01\n---\nТиша теж відповідь. Інколи найкраща.\n"),
	})

	if p.Type != blog.TypeNote {
		t.Errorf("Type = %q, want note", p.Type)
	}
	if p.Title != "Тиша теж відповідь." {
		t.Errorf("Title = %q, want first sentence", p.Title)
	}
	if p.URL != "/blog/tysha/" {
		t.Errorf("default locale URL = %q, want unprefixed", p.URL)
	}
	if p.TranslationGroup != "tysha" {
		t.Errorf("TranslationGroup = %q, want slug", p.TranslationGroup)
	}
	if !p.UpdatedAt.Equal(p.PublishedAt) {
		t.Errorf("UpdatedAt = %v, want PublishedAt", p.UpdatedAt)
	}
}

func TestLoadTypeFromCollection(t *testing.T) {
	posts, err := newTestLoader(fstest.MapFS{
		"ru/stories/a.mdx":  file("---\ntype: note\npublishedAt: 2024-01-01\n---\nStory."),
		"ru/notes/b.mdx":    file("---\ntype: article\npublishedAt: 2024-01-01\n---\nNote."),
		"ru/notes/c.mdx":    file("---\ntype: podcast\npublishedAt: 2024-01-01\n---\nNote."),
		"ru/pages/about.md": file("---\npublishedAt: 2024-01-01\n---\nAbout."),
		"ru/notes/x.txt":    file("ignored"),
		"README.md":         file("ignored"),
	}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	types := map[string]blog.PostType{}
	for _, p := range posts {
		types[p.Slug] = p.Type
	}
	want := map[string]blog.PostType{"a": blog.TypeStory, "b": blog.TypeArticle, "c": blog.TypeNote}
	if len(types) != len(want) {
		t.Fatalf("loaded %v, want %v", types, want)
	}
	for slug, typ := range want {
		if types[slug] != typ {
			t.Errorf("type of %s = %q, want %q", slug, types[slug], typ)
		}
	}
}

func TestLoadRejectsMissingPublishedAt(t *testing.T) {
	_, err := newTestLoader(fstest.MapFS{
		"en/notes/undated.mdx": file("---\ntitle: Undated\n---\nText."),
	}).Load(context.Background())
	if !errors.Is(err, ErrMissingPublishedAt) {
		t.Fatalf("Load error = %v, want ErrMissingPublishedAt", err)
	}
	if !strings.Contains(err.Error(), "en/notes/undated.mdx") {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestLoadRejectsBadDate(t *testing.T) {
	_, err := newTestLoader(fstest.MapFS{
		"en/notes/bad.mdx": file("---\npublishedAt: yesterday\n---\nText."),
	}).Load(context.Background())
	if err == nil {
		t.Fatal("expected an error for an unparseable date")
	}
}

func TestLoadHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestLoader(fstest.MapFS{
		"en/notes/a.mdx": file("---\npublishedAt: 2024-01-01\n---\nA."),
	}).Load(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Load error = %v, want context.Canceled", err)
	}
}

func TestLoadProbesCoverImage(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 32))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	l := newTestLoader(fstest.MapFS{
		"en/notes/pic.mdx": file("---\npublishedAt: 2024-01-01\nimage: https://alexbon.com/images/cover.png\n---\nPic."),
	})
	l.Images = fstest.MapFS{"images/cover.png": &fstest.MapFile{Data: buf.Bytes()}}

	posts, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if posts[0].ImageWidth != 64 || posts[0].ImageHeight != 32 {
		t.Errorf("image size = %dx%d, want 64x32", posts[0].ImageWidth, posts[0].ImageHeight)
	}
}

func TestProbeImageErrors(t *testing.T) {
	fsys := fstest.MapFS{"images/not-an-image.webp": file("nope")}
	if _, err := ProbeImage(fsys, "/images/missing.webp"); err == nil {
		t.Error("expected error for a missing image")
	}
	if _, err := ProbeImage(fsys, "/images/not-an-image.webp"); err == nil {
		t.Error("expected error for undecodable data")
	}
}

func TestLicenseURL(t *testing.T) {
	if got := LicenseURL("CC BY 4.0"); got != "https://creativecommons.org/licenses/by/4.0/" {
		t.Errorf("LicenseURL(name) = %q", got)
	}
	if got := LicenseURL("https://example.com/l"); got != "https://example.com/l" {
		t.Errorf("LicenseURL(url) = %q", got)
	}
}
