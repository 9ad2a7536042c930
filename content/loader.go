// Package content loads localized markdown posts from a content tree laid out
// as {locale}/{articles,notes,stories}/{slug}.mdx and hands them to the index
// as fully resolved blog.Post records.
package content

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/alexbon-com/alexbon.com/blog"
	"github.com/alexbon-com/alexbon.com/markdown"
)

const (
	descriptionLimit   = 160
	searchContentLimit = 5000

	defaultAuthor     = "Alex Bon"
	defaultLicense    = "CC BY 4.0"
	defaultLicenseURL = "https://creativecommons.org/licenses/by/4.0/"
)

// ErrMissingPublishedAt rejects documents without a publication date.
var ErrMissingPublishedAt = errors.New("publishedAt is required")

var yamlFormat = frontmatter.NewFormat("---", "---", yaml.Unmarshal)

// frontMatter mirrors the YAML header of a post file.
type frontMatter struct {
	Title            string   `yaml:"title"`
	Type             string   `yaml:"type"`
	Description      string   `yaml:"description"`
	Canonical        string   `yaml:"canonical"`
	Archived         string   `yaml:"archived"`
	PublishedAt      string   `yaml:"publishedAt"`
	UpdatedAt        string   `yaml:"updatedAt"`
	Tags             []string `yaml:"tags"`
	Author           string   `yaml:"author"`
	AuthorURL        string   `yaml:"authorUrl"`
	License          string   `yaml:"license"`
	Image            string   `yaml:"image"`
	TranslationGroup string   `yaml:"translationGroup"`
}

// Loader reads posts from a content tree.
type Loader struct {
	// FS is rooted at the content directory.
	FS fs.FS
	// SiteURL prefixes default canonical URLs, without trailing slash.
	SiteURL string
	// AuthorURL is used when a post does not name one.
	AuthorURL string
	// ArchiveBaseURL, when set, builds the default "archived" link to the source file.
	ArchiveBaseURL string
	// Images, when set, is probed for local cover images to record their size.
	Images fs.FS

	DefaultLocale blog.Locale
	Renderer      *markdown.Renderer
	Logger        *zap.Logger
}

// Load walks the content tree and returns every post it finds. Any document
// that cannot be parsed fails the whole load.
func (l *Loader) Load(ctx context.Context) ([]blog.Post, error) {
	renderer := l.Renderer
	if renderer == nil {
		renderer = markdown.New()
	}
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var posts []blog.Post
	err := fs.WalkDir(l.FS, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isPostFile(p) {
			return nil
		}
		if !inPostCollection(p) {
			return nil
		}
		data, err := fs.ReadFile(l.FS, p)
		if err != nil {
			return fmt.Errorf("content: read %s: %w", p, err)
		}
		post, err := l.parse(p, data, renderer)
		if err != nil {
			return fmt.Errorf("content: %s: %w", p, err)
		}
		logger.Debug("loaded post",
			zap.String("path", p),
			zap.String("locale", string(post.Locale)),
			zap.String("slug", post.Slug),
		)
		posts = append(posts, post)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info("content loaded", zap.Int("posts", len(posts)))
	return posts, nil
}

func isPostFile(p string) bool {
	ext := strings.ToLower(path.Ext(p))
	return ext == ".md" || ext == ".mdx"
}

// inPostCollection accepts {locale}/{collection}/{file} where collection is
// one of the post collections; pages and stray files are ignored.
func inPostCollection(p string) bool {
	segments := strings.Split(p, "/")
	if len(segments) != 3 {
		return false
	}
	switch segments[1] {
	case "articles", "notes", "stories":
		return true
	}
	return false
}

func (l *Loader) parse(sourcePath string, data []byte, renderer *markdown.Renderer) (blog.Post, error) {
	var fm frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &fm, yamlFormat)
	if err != nil {
		return blog.Post{}, fmt.Errorf("front matter: %w", err)
	}

	segments := strings.Split(sourcePath, "/")
	locale, ok := blog.ParseLocale(segments[0])
	if !ok {
		locale = l.DefaultLocale
	}
	collection := segments[1]
	fileName := segments[2]

	slug := strings.TrimSuffix(fileName, path.Ext(fileName))
	if slug == "" {
		slug = strings.TrimSuffix(sourcePath, path.Ext(sourcePath))
	}

	published, err := parseDate(fm.PublishedAt)
	if err != nil {
		return blog.Post{}, fmt.Errorf("publishedAt: %w", err)
	}
	var updated time.Time
	if strings.TrimSpace(fm.UpdatedAt) != "" {
		if updated, err = parseDate(fm.UpdatedAt); err != nil {
			return blog.Post{}, fmt.Errorf("updatedAt: %w", err)
		}
	}

	html, err := renderer.Render(body)
	if err != nil {
		return blog.Post{}, err
	}

	raw := string(body)
	plain := markdown.PlainText(raw)
	firstSentence := markdown.FirstSentence(plain)

	description := strings.TrimSpace(fm.Description)
	if description == "" {
		description = markdown.Truncate(plain, descriptionLimit)
	}
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = firstSentence
	}
	if title == "" {
		title = slug
	}
	summary := firstSentence
	if summary == "" {
		summary = description
	}
	group := strings.TrimSpace(fm.TranslationGroup)
	if group == "" {
		group = slug
	}

	localizedPath := "/blog/" + slug + "/"
	if locale != l.DefaultLocale {
		localizedPath = "/" + string(locale) + localizedPath
	}
	canonical := strings.TrimSpace(fm.Canonical)
	if canonical == "" {
		canonical = strings.TrimRight(l.SiteURL, "/") + localizedPath
	}
	archived := strings.TrimSpace(fm.Archived)
	if archived == "" && l.ArchiveBaseURL != "" {
		archived = strings.TrimRight(l.ArchiveBaseURL, "/") + "/" + sourcePath
	}

	author := fm.Author
	if author == "" {
		author = defaultAuthor
	}
	authorURL := fm.AuthorURL
	if authorURL == "" {
		authorURL = l.AuthorURL
	}
	license := fm.License
	if license == "" {
		license = defaultLicense
	}

	post := blog.Post{
		Slug:             slug,
		Locale:           locale,
		Type:             resolveType(collection, fm.Type),
		Title:            title,
		Description:      description,
		Summary:          summary,
		Tags:             cleanTags(fm.Tags),
		PublishedAt:      published,
		UpdatedAt:        updated,
		TranslationGroup: group,
		URL:              localizedPath,
		Body:             html,
		Image:            fm.Image,
		Author:           author,
		AuthorURL:        authorURL,
		License:          license,
		Canonical:        canonical,
		Archived:         archived,
		SourcePath:       sourcePath,
		SearchContent:    markdown.SearchContent(raw, searchContentLimit),
	}
	if l.Images != nil && fm.Image != "" {
		if info, err := ProbeImage(l.Images, fm.Image); err == nil {
			post.ImageWidth, post.ImageHeight = info.Width, info.Height
		}
	}
	return blog.Normalize(post), nil
}

// resolveType lets the collection directory decide, falling back to the
// front matter for notes.
func resolveType(collection, declared string) blog.PostType {
	switch collection {
	case "articles":
		return blog.TypeArticle
	case "stories":
		return blog.TypeStory
	}
	if t, ok := blog.ParsePostType(strings.TrimSpace(declared)); ok {
		return t
	}
	return blog.TypeNote
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrMissingPublishedAt
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// LicenseURL resolves a license name to a URL usable in feeds and JSON-LD.
func LicenseURL(license string) string {
	if strings.HasPrefix(license, "http") {
		return license
	}
	return defaultLicenseURL
}
