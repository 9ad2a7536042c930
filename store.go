package alexbon

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alexbon-com/alexbon.com/blog"
)

// timeLayout is fixed width so published_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a requested post does not exist.
var ErrNotFound = sql.ErrNoRows

// Store keeps posts in SQLite, keyed by locale and slug. It is a Source, so
// the site can be served from the database instead of the markdown tree.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("alexbon: create data dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("alexbon: open store: %w", err)
	}
	// WAL lets the server read while an import writes; busy_timeout makes
	// writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
		PRAGMA cache_size=-8000;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("alexbon: configure store: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("alexbon: migrate store: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS posts (
    locale TEXT NOT NULL,
    slug TEXT NOT NULL,
    type TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    summary TEXT NOT NULL,
    tags TEXT NOT NULL,
    published_at TEXT NOT NULL,
    updated_at TEXT NOT NULL,
    translation_group TEXT NOT NULL,
    url TEXT NOT NULL,
    body TEXT NOT NULL,
    image TEXT NOT NULL DEFAULT '',
    image_width INTEGER NOT NULL DEFAULT 0,
    image_height INTEGER NOT NULL DEFAULT 0,
    author TEXT NOT NULL DEFAULT '',
    author_url TEXT NOT NULL DEFAULT '',
    license TEXT NOT NULL DEFAULT '',
    canonical TEXT NOT NULL DEFAULT '',
    archived TEXT NOT NULL DEFAULT '',
    source_path TEXT NOT NULL DEFAULT '',
    search_content TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (locale, slug)
);
CREATE INDEX IF NOT EXISTS posts_published ON posts (locale, published_at DESC);
`)
	return err
}

const postColumns = `locale, slug, type, title, description, summary, tags, published_at, updated_at,
	translation_group, url, body, image, image_width, image_height, author, author_url, license,
	canonical, archived, source_path, search_content`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(r rowScanner) (blog.Post, error) {
	var (
		p                  blog.Post
		locale, typ, tags  string
		published, updated string
	)
	err := r.Scan(&locale, &p.Slug, &typ, &p.Title, &p.Description, &p.Summary, &tags,
		&published, &updated, &p.TranslationGroup, &p.URL, &p.Body, &p.Image,
		&p.ImageWidth, &p.ImageHeight, &p.Author, &p.AuthorURL, &p.License,
		&p.Canonical, &p.Archived, &p.SourcePath, &p.SearchContent)
	if err != nil {
		return blog.Post{}, err
	}
	p.Locale = blog.Locale(locale)
	p.Type = blog.PostType(typ)
	p.Tags = ParseTags(tags)
	if p.PublishedAt, err = time.Parse(time.RFC3339Nano, published); err != nil {
		return blog.Post{}, fmt.Errorf("alexbon: post %s/%s: published_at: %w", locale, p.Slug, err)
	}
	if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return blog.Post{}, fmt.Errorf("alexbon: post %s/%s: updated_at: %w", locale, p.Slug, err)
	}
	return p, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func savePost(ctx context.Context, db execer, p blog.Post) error {
	if !p.Locale.Valid() || p.Slug == "" {
		return fmt.Errorf("alexbon: save post: invalid key %q/%q", p.Locale, p.Slug)
	}
	tags, err := FormatTags(p.Tags)
	if err != nil {
		return fmt.Errorf("alexbon: save post %s/%s: %w", p.Locale, p.Slug, err)
	}
	p = blog.Normalize(p)
	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO posts (`+postColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(p.Locale), p.Slug, string(p.Type), p.Title, p.Description, p.Summary, tags,
		p.PublishedAt.UTC().Format(timeLayout), p.UpdatedAt.UTC().Format(timeLayout),
		p.TranslationGroup, p.URL, p.Body, p.Image, p.ImageWidth, p.ImageHeight,
		p.Author, p.AuthorURL, p.License, p.Canonical, p.Archived, p.SourcePath, p.SearchContent)
	if err != nil {
		return fmt.Errorf("alexbon: save post %s/%s: %w", p.Locale, p.Slug, err)
	}
	return nil
}

// SavePost upserts a post.
func (s *Store) SavePost(ctx context.Context, p blog.Post) error {
	return savePost(ctx, s.db, p)
}

// GetPost returns a single post, or ErrNotFound.
func (s *Store) GetPost(ctx context.Context, locale blog.Locale, slug string) (blog.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE locale = ? AND slug = ?`, string(locale), slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return blog.Post{}, ErrNotFound
	}
	return p, err
}

// DeletePost removes a post. Deleting a missing post is not an error.
func (s *Store) DeletePost(ctx context.Context, locale blog.Locale, slug string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE locale = ? AND slug = ?`, string(locale), slug); err != nil {
		return fmt.Errorf("alexbon: delete post %s/%s: %w", locale, slug, err)
	}
	return nil
}

// ListPosts returns the posts of locale, newest first. Posts published at the
// same instant keep the order they were saved in. An empty locale lists every
// post.
func (s *Store) ListPosts(ctx context.Context, locale blog.Locale) ([]blog.Post, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if locale == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY published_at DESC, rowid`)
	} else {
		rows, err = s.db.QueryContext(ctx, `SELECT `+postColumns+` FROM posts WHERE locale = ? ORDER BY published_at DESC, rowid`, string(locale))
	}
	if err != nil {
		return nil, fmt.Errorf("alexbon: list posts: %w", err)
	}
	defer rows.Close()

	var posts []blog.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("alexbon: list posts: %w", err)
	}
	return posts, nil
}

// Count returns the number of stored posts.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("alexbon: count posts: %w", err)
	}
	return n, nil
}

// ImportPosts replaces the stored corpus with posts in one transaction.
func (s *Store) ImportPosts(ctx context.Context, posts []blog.Post) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("alexbon: import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM posts`); err != nil {
		return fmt.Errorf("alexbon: import: clear: %w", err)
	}
	for _, p := range posts {
		if err := savePost(ctx, tx, p); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("alexbon: import: commit: %w", err)
	}
	return nil
}

// Load implements Source.
func (s *Store) Load(ctx context.Context) ([]blog.Post, error) {
	return s.ListPosts(ctx, "")
}

// FormatTags encodes tags as a comma-delimited string (",calm,grief,").
// Tags may not contain commas.
func FormatTags(tags []string) (string, error) {
	clean := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if strings.Contains(t, ",") {
			return "", fmt.Errorf("tag %q contains a comma", t)
		}
		clean = append(clean, t)
	}
	return "," + strings.Join(clean, ",") + ",", nil
}

// ParseTags splits a comma-delimited tag string (e.g. ",calm,grief,") into a slice.
func ParseTags(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
