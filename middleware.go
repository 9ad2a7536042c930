package alexbon

import (
	"crypto/rand"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/alexbon-com/alexbon.com/blog"
	"github.com/alexbon-com/alexbon.com/logger"
)

const (
	sessionName     = "locale_pref"
	sessionLocale   = "locale"
	localeKey       = "locale"
	localeCookieAge = 60 * 60 * 24 * 365
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())
	e.Pre(redirectDefaultLocalePrefix)

	e.Use(middleware.RequestID())
	e.Use(a.requestLogger())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("ip", v.RemoteIP),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			a.Logger.Info("request", fields...)
			return nil
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			a.Logger.Error("panic recovered", zap.Error(err), zap.ByteString("stack", stack))
			return err
		},
	}))

	e.Use(a.Metrics.Middleware())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			return strings.HasPrefix(c.Request().URL.Path, "/public/")
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'; img-src 'self' https: data:; font-src 'self'; connect-src 'self'",
		HSTSMaxAge:            31536000,
		HSTSExcludeSubdomains: false,
	}))

	e.Use(session.Middleware(a.newSessionStore()))
	e.Use(a.localePreference)

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			return isAssetPath(c.Request().URL.Path)
		},
	}))

	e.Use(cacheControlMiddleware)
}

// isAssetPath matches paths that are files rather than pages.
func isAssetPath(p string) bool {
	if strings.HasPrefix(p, "/public") || p == "/metrics" {
		return true
	}
	last := p[strings.LastIndex(p, "/")+1:]
	return strings.Contains(last, ".")
}

// requestLogger stores a request-scoped logger in the request context.
func (a *App) requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithRequest(req.Context(), a.Logger, id)))
			return next(c)
		}
	}
}

// redirectDefaultLocalePrefix sends /ua/... to the unprefixed path, since the
// default locale is served without a prefix.
func redirectDefaultLocalePrefix(next echo.HandlerFunc) echo.HandlerFunc {
	prefix := "/" + string(blog.DefaultLocale)
	return func(c echo.Context) error {
		p := c.Request().URL.Path
		if p != prefix && !strings.HasPrefix(p, prefix+"/") {
			return next(c)
		}
		target := strings.TrimPrefix(p, prefix)
		if target == "" {
			target = "/"
		}
		if q := c.Request().URL.RawQuery; q != "" {
			target += "?" + q
		}
		return c.Redirect(http.StatusMovedPermanently, target)
	}
}

// localeFromPath returns the locale a page path belongs to and whether the
// locale was given as a path prefix.
func localeFromPath(p string) (blog.Locale, bool) {
	seg := strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(seg, '/'); i >= 0 {
		seg = seg[:i]
	}
	if l, ok := blog.ParseLocale(seg); ok && l != blog.DefaultLocale {
		return l, true
	}
	return blog.DefaultLocale, false
}

// localePreference remembers the locale of the pages a visitor reads. A
// direct visit to the unprefixed home page is redirected to the remembered
// locale; navigation from within the site is not.
func (a *App) localePreference(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if req.Method != http.MethodGet || isAssetPath(req.URL.Path) {
			return next(c)
		}
		sess, err := session.Get(sessionName, c)
		if err != nil {
			logger.FromContext(req.Context()).Debug("locale session unavailable", zap.Error(err))
			return next(c)
		}
		saved, _ := sess.Values[sessionLocale].(string)
		locale, prefixed := localeFromPath(req.URL.Path)
		internal := a.sameSiteReferer(req)

		if !prefixed && req.URL.Path == "/" && !internal {
			if pref, ok := blog.ParseLocale(saved); ok && pref != blog.DefaultLocale {
				return c.Redirect(http.StatusTemporaryRedirect, LocalizedPath(pref, "/"))
			}
		}

		if prefixed || saved == "" || internal {
			if saved != string(locale) {
				sess.Values[sessionLocale] = string(locale)
				if err := sess.Save(req, c.Response()); err != nil {
					logger.FromContext(req.Context()).Warn("save locale session", zap.Error(err))
				}
			}
		}
		return next(c)
	}
}

func (a *App) sameSiteReferer(req *http.Request) bool {
	ref := req.Header.Get("Referer")
	if ref == "" {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return u.Host == req.Host
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p := c.Request().URL.Path
		h := c.Response().Header()
		switch {
		case strings.HasPrefix(p, "/public/"):
			h.Set("Cache-Control", "public, max-age=31536000, immutable")
		case p == "/metrics":
			h.Set("Cache-Control", "no-store")
		case strings.HasSuffix(p, "/search.json"):
			h.Set("Cache-Control", "public, max-age=300")
		case isAssetPath(p):
			h.Set("Cache-Control", "public, max-age=600, stale-while-revalidate=3600")
		default:
			h.Set("Cache-Control", "public, max-age=3600")
		}
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	secret := []byte(a.Config.SessionSecret)
	if len(secret) == 0 {
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			panic("alexbon: session secret: " + err.Error())
		}
		a.Logger.Warn("sessionSecret not set, using a random key; locale preferences reset on restart")
	}
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   localeCookieAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

func (a *App) setLocale(locale blog.Locale) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(localeKey, locale)
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithLocale(req.Context(), string(locale))))
			return next(c)
		}
	}
}

// localeOf returns the locale of the matched route.
func localeOf(c echo.Context) blog.Locale {
	if l, ok := c.Get(localeKey).(blog.Locale); ok {
		return l
	}
	return blog.DefaultLocale
}
