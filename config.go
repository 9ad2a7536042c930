package alexbon

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/alexbon-com/alexbon.com/blog"
)

// Content sources.
const (
	SourceFiles  = "files"
	SourceSQLite = "sqlite"
)

// LocaleCopy is the per-locale site copy used by feeds and page titles.
type LocaleCopy struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
}

// SiteConfig holds all configuration for the site.
type SiteConfig struct {
	Name         string `mapstructure:"name"`         // Site name (default "Alex Bon")
	URL          string `mapstructure:"url"`          // Canonical origin (default "https://alexbon.com")
	Author       string `mapstructure:"author"`       // Author name for feeds and JSON-LD
	DefaultImage string `mapstructure:"defaultImage"` // Fallback post image (absolute URL)

	Addr     string `mapstructure:"addr"`     // Listen address (default ":3000")
	Env      string `mapstructure:"env"`      // prod, dev or local (default "prod")
	LogLevel string `mapstructure:"logLevel"` // Overrides the environment's level

	Source         string `mapstructure:"source"`         // files or sqlite (default "files")
	ContentDir     string `mapstructure:"contentDir"`     // Markdown tree (default "content")
	StaticDir      string `mapstructure:"staticDir"`      // Public assets (default "public")
	DatabasePath   string `mapstructure:"databasePath"`   // SQLite path (default "data/posts.db")
	ArchiveBaseURL string `mapstructure:"archiveBaseURL"` // Prefix for the "archived" source link
	Watch          bool   `mapstructure:"watch"`          // Rebuild the index when content changes

	PageSize     int `mapstructure:"pageSize"`     // Posts per listing page (default 20)
	RelatedLimit int `mapstructure:"relatedLimit"` // Related posts on a post page (default 4)

	SessionSecret string `mapstructure:"sessionSecret"` // Locale preference cookie key
	CookieSecure  bool   `mapstructure:"cookieSecure"`  // Set true for HTTPS

	SearchRate  float64 `mapstructure:"searchRate"`  // search.json requests per second per IP (default 5)
	SearchBurst int     `mapstructure:"searchBurst"` // burst allowance (default 20)

	ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"` // Graceful shutdown (default 10s)

	Copy map[string]LocaleCopy `mapstructure:"copy"` // keyed by locale code
}

var defaultCopy = map[blog.Locale]LocaleCopy{
	blog.LocaleUA: {Title: "Алекс Бон. Блог", Description: "Нотатки, історії та статті про психологію та усвідомленість."},
	blog.LocaleRU: {Title: "Алекс Бон. Блог", Description: "Заметки, истории и статьи о психологии и осознанности."},
	blog.LocaleEN: {Title: "Alex Bon. Blog", Description: "Notes, stories and articles on psychology and mindfulness."},
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Alex Bon"
	}
	if c.URL == "" {
		c.URL = "https://alexbon.com"
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Author == "" {
		c.Author = "Alex Bon"
	}
	if c.DefaultImage == "" {
		c.DefaultImage = c.URL + "/images/reflection.webp"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.Env == "" {
		c.Env = "prod"
	}
	if c.Source == "" {
		c.Source = SourceFiles
	}
	if c.ContentDir == "" {
		c.ContentDir = "content"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/posts.db"
	}
	if c.PageSize <= 0 {
		c.PageSize = blog.DefaultPageSize
	}
	if c.RelatedLimit <= 0 {
		c.RelatedLimit = 4
	}
	if c.SearchRate <= 0 {
		c.SearchRate = 5
	}
	if c.SearchBurst <= 0 {
		c.SearchBurst = 20
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.Copy == nil {
		c.Copy = make(map[string]LocaleCopy, len(defaultCopy))
	}
	for l, cp := range defaultCopy {
		cur := c.Copy[string(l)]
		if cur.Title == "" {
			cur.Title = cp.Title
		}
		if cur.Description == "" {
			cur.Description = cp.Description
		}
		c.Copy[string(l)] = cur
	}
}

// Validate reports the first invalid setting.
func (c *SiteConfig) Validate() error {
	u, err := url.Parse(c.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("alexbon: url must be absolute, got %q", c.URL)
	}
	switch c.Source {
	case SourceFiles, SourceSQLite:
	default:
		return fmt.Errorf("alexbon: unknown source %q", c.Source)
	}
	switch c.Env {
	case "prod", "dev", "local":
	default:
		return fmt.Errorf("alexbon: unknown env %q", c.Env)
	}
	if c.Watch && c.Source != SourceFiles {
		return errors.New("alexbon: watch requires the files source")
	}
	return nil
}

// CopyFor returns the site copy for locale.
func (c *SiteConfig) CopyFor(locale blog.Locale) LocaleCopy {
	if cp, ok := c.Copy[string(locale)]; ok {
		return cp
	}
	return defaultCopy[locale]
}

// LoadConfig reads configuration from an optional YAML file at path and from
// ALEXBON_* environment variables, which take precedence. Defaults are
// applied and the result validated.
func LoadConfig(path string) (SiteConfig, error) {
	v := viper.New()

	var defaults SiteConfig
	defaults.setDefaults()
	v.SetDefault("name", defaults.Name)
	v.SetDefault("url", defaults.URL)
	v.SetDefault("author", defaults.Author)
	v.SetDefault("defaultImage", "")
	v.SetDefault("addr", defaults.Addr)
	v.SetDefault("env", defaults.Env)
	v.SetDefault("logLevel", "")
	v.SetDefault("source", defaults.Source)
	v.SetDefault("contentDir", defaults.ContentDir)
	v.SetDefault("staticDir", defaults.StaticDir)
	v.SetDefault("databasePath", defaults.DatabasePath)
	v.SetDefault("archiveBaseURL", "")
	v.SetDefault("watch", false)
	v.SetDefault("pageSize", defaults.PageSize)
	v.SetDefault("relatedLimit", defaults.RelatedLimit)
	v.SetDefault("sessionSecret", "")
	v.SetDefault("cookieSecure", false)
	v.SetDefault("searchRate", defaults.SearchRate)
	v.SetDefault("searchBurst", defaults.SearchBurst)
	v.SetDefault("shutdownTimeout", defaults.ShutdownTimeout)

	v.SetEnvPrefix("ALEXBON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return SiteConfig{}, fmt.Errorf("alexbon: read config %s: %w", path, err)
		}
	}

	var cfg SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("alexbon: decode config: %w", err)
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir overrides the directory for static assets.
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.Config.StaticDir = dir
	}
}

// WithLogger sets the application logger (default: no-op).
func WithLogger(l *zap.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}

// WithSource replaces the configured content source.
func WithSource(src Source) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithRegistry registers the app's collectors with reg and serves them on
// /metrics. Without it the app uses a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(a *App) {
		a.registry = reg
	}
}
