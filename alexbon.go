// Package alexbon serves a multilingual blog: it loads localized markdown
// posts into an in-memory index and renders localized listings, posts,
// feeds, a sitemap and a search corpus from it.
//
// Pages are rendered by caller-supplied templ components via ViewFuncs; the
// views package ships a default set.
package alexbon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/alexbon-com/alexbon.com/blog"
	"github.com/alexbon-com/alexbon.com/content"
	"github.com/alexbon-com/alexbon.com/markdown"
	"github.com/alexbon-com/alexbon.com/metrics"
)

// ViewFuncs holds the templ components the app calls when rendering pages.
type ViewFuncs struct {
	Home        func(page HomePage) templ.Component
	Listing     func(page ListingPage) templ.Component
	Post        func(page PostPage) templ.Component
	Search      func(page SearchPage) templ.Component
	About       func(page StaticPage) templ.Component
	NotFound    func(page StaticPage) templ.Component
	ServerError func(page StaticPage) templ.Component
}

// App wires together the content library, handlers, middleware and views.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Library *Library
	Views   ViewFuncs
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	source        Source
	store         *Store
	registry      *prometheus.Registry
	searchLimiter *IPLimiter
	customRoutes  []func(*App)
	ready         bool
}

// New creates an App with the given configuration and views.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	a := &App{
		Config:  cfg,
		Echo:    e,
		Views:   views,
		Logger:  zap.NewNop(),
		Metrics: metrics.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NewSource builds the content source named by cfg.Source. The returned
// store is non-nil for the sqlite source and must be closed by the caller.
func NewSource(cfg SiteConfig, logger *zap.Logger) (Source, *Store, error) {
	switch cfg.Source {
	case SourceSQLite:
		store, err := NewStore(cfg.DatabasePath)
		if err != nil {
			return nil, nil, err
		}
		return store, store, nil
	case SourceFiles:
		return NewLoader(cfg, logger), nil, nil
	}
	return nil, nil, fmt.Errorf("alexbon: unknown source %q", cfg.Source)
}

// NewLoader returns a markdown loader over cfg.ContentDir.
func NewLoader(cfg SiteConfig, logger *zap.Logger) *content.Loader {
	return &content.Loader{
		FS:             os.DirFS(cfg.ContentDir),
		Images:         os.DirFS(cfg.StaticDir),
		SiteURL:        cfg.URL,
		AuthorURL:      cfg.URL,
		ArchiveBaseURL: cfg.ArchiveBaseURL,
		DefaultLocale:  blog.DefaultLocale,
		Renderer:       markdown.New(),
		Logger:         logger,
	}
}

// Setup validates the configuration, loads the content index and registers
// middleware and routes. It is called by Start; tests call it directly and
// drive a.Echo.
func (a *App) Setup(ctx context.Context) error {
	if a.ready {
		return nil
	}
	if err := a.Config.Validate(); err != nil {
		return err
	}
	if a.source == nil {
		src, store, err := NewSource(a.Config, a.Logger)
		if err != nil {
			return fmt.Errorf("alexbon: init source: %w", err)
		}
		a.source, a.store = src, store
	}

	if a.registry == nil {
		a.registry = prometheus.NewRegistry()
	}
	if err := a.Metrics.Register(a.registry); err != nil {
		return fmt.Errorf("alexbon: register metrics: %w", err)
	}

	a.Library = NewLibrary(a.source, a.Logger, a.Metrics)
	if _, err := a.Library.Load(ctx); err != nil {
		return err
	}
	a.searchLimiter = NewIPLimiter(a.Config.SearchRate, a.Config.SearchBurst, 10*time.Minute)

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.ready = true
	return nil
}

// Start sets the app up, starts background work and serves HTTP until ctx is
// cancelled, then shuts down gracefully.
func (a *App) Start(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.searchLimiter.Run(ctx)
	if a.Config.Watch {
		w := &Watcher{Dir: a.Config.ContentDir, Library: a.Library, Logger: a.Logger}
		go func() {
			if err := w.Run(ctx); err != nil {
				a.Logger.Error("content watcher stopped", zap.Error(err))
			}
		}()
	}

	errc := make(chan error, 1)
	go func() {
		a.Logger.Info("listening", zap.String("addr", a.Config.Addr))
		if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, stop := context.WithTimeout(context.Background(), a.Config.ShutdownTimeout)
	defer stop()
	if err := a.Echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("alexbon: shutdown: %w", err)
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.Static("/public", a.Config.StaticDir)
	e.GET("/favicon.ico", func(c echo.Context) error {
		return c.File(a.Config.StaticDir + "/favicon.ico")
	})
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(a.registry)))

	for _, locale := range blog.Locales {
		a.localizedRoutes(locale)
	}
}

func (a *App) localizedRoutes(locale blog.Locale) {
	prefix := ""
	if locale != blog.DefaultLocale {
		prefix = "/" + string(locale)
	}
	set := a.setLocale(locale)
	get := func(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
		a.Echo.GET(prefix+path, h, append([]echo.MiddlewareFunc{set}, m...)...)
	}

	get("/", a.handleHome)
	get("/about/", a.handleAbout)
	get("/search/", a.handleSearch)
	get("/blog/", a.handleBlog)
	get("/blog/page/:page/", a.handleBlogPage)
	get("/blog/tag/:tag/", a.handleTag)
	get("/blog/tag/:tag/page/:page/", a.handleTagPage)
	get("/blog/type/:type/", a.handleType)
	get("/blog/type/:type/page/:page/", a.handleTypePage)
	get("/blog/:slug/", a.handlePost)
	get("/feed.xml", a.handleRSS)
	get("/feed.json", a.handleJSONFeed)
	get("/search.json", a.handleSearchJSON, a.searchLimiter.Middleware())
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}
