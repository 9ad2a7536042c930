package alexbon

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/alexbon-com/alexbon.com/blog"
	"github.com/alexbon-com/alexbon.com/logger"
)

// homeLatest is how many posts the home page shows.
const homeLatest = 6

var errNotFound = echo.ErrNotFound

func (a *App) nav(locale blog.Locale, switcher []LocaleLink) Nav {
	return Nav{
		Locale:   locale,
		Home:     LocalizedPath(locale, "/"),
		Blog:     LocalizedPath(locale, "/blog/"),
		Search:   LocalizedPath(locale, "/search/"),
		About:    LocalizedPath(locale, "/about/"),
		Switcher: switcher,
	}
}

// switcher links the page at paths in each locale present in paths.
func switcher(current blog.Locale, paths map[blog.Locale]string) []LocaleLink {
	links := make([]LocaleLink, 0, len(paths))
	for _, l := range blog.Locales {
		p, ok := paths[l]
		if !ok {
			continue
		}
		links = append(links, LocaleLink{Locale: l, URL: LocalizedPath(l, p), Active: l == current})
	}
	return links
}

func samePaths(p string, locales []blog.Locale) map[blog.Locale]string {
	paths := make(map[blog.Locale]string, len(locales))
	for _, l := range locales {
		paths[l] = p
	}
	return paths
}

// localesWhere returns the locales of the index for which keep is true.
func localesWhere(idx *blog.Index, keep func(blog.Locale) bool) []blog.Locale {
	var out []blog.Locale
	for _, l := range idx.Locales() {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}

func (a *App) typeLinks(idx *blog.Index, locale blog.Locale) []TypeLink {
	links := make([]TypeLink, 0, len(blog.PostTypes))
	for _, t := range blog.PostTypes {
		links = append(links, TypeLink{
			Type:  t,
			Label: TypeLabel(locale, t),
			URL:   TypePath(locale, t),
			Count: len(idx.PostsByType(locale, t)),
		})
	}
	return links
}

func (a *App) pageMeta(locale blog.Locale, title, description, p string, locales []blog.Locale) PageMeta {
	return PageMeta{
		Locale:      locale,
		Title:       title,
		Description: description,
		URL:         a.Config.URL + LocalizedPath(locale, p),
		OGType:      "website",
		Image:       a.Config.DefaultImage,
		Alternates:  SamePathAlternates(a.Config.URL, p, locales),
	}
}

func (a *App) handleHome(c echo.Context) error {
	locale := localeOf(c)
	idx := a.Library.Index()
	cp := a.Config.CopyFor(locale)

	meta := a.pageMeta(locale, cp.Title, cp.Description, "/", blog.Locales)
	meta.JSONLD = []string{WebsiteJSONLD(a.Config, locale)}

	latest := idx.PaginateLocale(locale, 1, homeLatest).Items
	return Render(c, a.Views.Home(HomePage{
		Meta:   meta,
		Nav:    a.nav(locale, switcher(locale, samePaths("/", blog.Locales))),
		Latest: latest,
		Types:  a.typeLinks(idx, locale),
	}))
}

func (a *App) handleAbout(c echo.Context) error {
	locale := localeOf(c)
	cp := a.Config.CopyFor(locale)
	meta := a.pageMeta(locale, cp.Title, cp.Description, "/about/", blog.Locales)
	meta.OGType = "profile"
	return Render(c, a.Views.About(StaticPage{
		Meta: meta,
		Nav:  a.nav(locale, switcher(locale, samePaths("/about/", blog.Locales))),
	}))
}

// pageParam parses :page. Page 1 redirects to the listing root.
func pageParam(c echo.Context, locale blog.Locale, listing string) (int, error) {
	n, ok := ParsePage(c.Param("page"))
	if !ok {
		return 0, errNotFound
	}
	if n == 1 {
		return 0, c.Redirect(http.StatusMovedPermanently, PagePath(locale, listing, 1))
	}
	return n, nil
}

func (a *App) listingMeta(locale blog.Locale, title, description, listing string, page blog.Page[blog.Post], locales []blog.Locale) (PageMeta, Pager) {
	p := PagePath(blog.DefaultLocale, listing, page.Page)
	meta := a.pageMeta(locale, PageTitle(locale, title, page.Page), description, p, locales)
	pager := Pager{Page: page.Page, TotalPages: page.TotalPages}
	if page.HasPrev() {
		pager.PrevURL = PagePath(locale, listing, page.Page-1)
		meta.PrevURL = a.Config.URL + pager.PrevURL
	}
	if page.HasNext() {
		pager.NextURL = PagePath(locale, listing, page.Page+1)
		meta.NextURL = a.Config.URL + pager.NextURL
	}
	return meta, pager
}

func (a *App) handleBlog(c echo.Context) error {
	return a.renderBlog(c, 1)
}

func (a *App) handleBlogPage(c echo.Context) error {
	n, err := pageParam(c, localeOf(c), "/blog/")
	if err != nil || n == 0 {
		return err
	}
	return a.renderBlog(c, n)
}

func (a *App) renderBlog(c echo.Context, n int) error {
	locale := localeOf(c)
	idx := a.Library.Index()
	page := idx.PaginateLocale(locale, n, a.Config.PageSize)
	if !page.InRange() {
		return errNotFound
	}
	locales := localesWhere(idx, func(l blog.Locale) bool {
		return idx.PaginateLocale(l, n, a.Config.PageSize).InRange()
	})
	cp := a.Config.CopyFor(locale)
	meta, pager := a.listingMeta(locale, blogLabel[locale], cp.Description, "/blog/", page, locales)
	meta.JSONLD = []string{BreadcrumbJSONLD(a.Config, locale, blog.Post{})}

	return Render(c, a.Views.Listing(ListingPage{
		Meta:     meta,
		Nav:      a.nav(locale, switcher(locale, samePaths(PagePath(blog.DefaultLocale, "/blog/", n), locales))),
		Heading:  blogLabel[locale],
		Intro:    cp.Description,
		Posts:    page.Items,
		Tags:     idx.Tags(locale),
		Types:    a.typeLinks(idx, locale),
		Pager:    pager,
		Total:    page.TotalCount,
		ShowTags: true,
	}))
}

func tagParam(c echo.Context) string {
	raw := c.Param("tag")
	if tag, err := url.PathUnescape(raw); err == nil {
		return tag
	}
	return raw
}

func (a *App) handleTag(c echo.Context) error {
	return a.renderTag(c, tagParam(c), 1)
}

func (a *App) handleTagPage(c echo.Context) error {
	tag := tagParam(c)
	n, err := pageParam(c, localeOf(c), "/blog/tag/"+PathEscape(tag)+"/")
	if err != nil || n == 0 {
		return err
	}
	return a.renderTag(c, tag, n)
}

func (a *App) renderTag(c echo.Context, tag string, n int) error {
	locale := localeOf(c)
	idx := a.Library.Index()
	page := idx.PaginateTag(locale, tag, n, a.Config.PageSize)
	if page.TotalCount == 0 || !page.InRange() {
		return errNotFound
	}
	listing := "/blog/tag/" + PathEscape(tag) + "/"
	locales := localesWhere(idx, func(l blog.Locale) bool {
		return idx.PaginateTag(l, tag, n, a.Config.PageSize).TotalCount > 0
	})
	heading := TagTitle(locale, tag)
	meta, pager := a.listingMeta(locale, heading, a.Config.CopyFor(locale).Description, listing, page, locales)

	sameAs := make([]string, 0, len(meta.Alternates))
	for _, alt := range meta.Alternates {
		if alt.URL != meta.URL && alt.Hreflang != XDefault {
			sameAs = append(sameAs, alt.URL)
		}
	}
	meta.JSONLD = []string{CollectionJSONLD(a.Config, locale, heading, tag, meta.URL, sameAs)}

	return Render(c, a.Views.Listing(ListingPage{
		Meta:    meta,
		Nav:     a.nav(locale, switcher(locale, samePaths(PagePath(blog.DefaultLocale, listing, n), locales))),
		Heading: heading,
		Tag:     tag,
		Posts:   page.Items,
		Tags:    idx.Tags(locale),
		Types:   a.typeLinks(idx, locale),
		Pager:   pager,
		Total:   page.TotalCount,
	}))
}

func typeParam(c echo.Context) (blog.PostType, bool) {
	return blog.ParsePostType(c.Param("type"))
}

func (a *App) handleType(c echo.Context) error {
	t, ok := typeParam(c)
	if !ok {
		return errNotFound
	}
	return a.renderType(c, t, 1)
}

func (a *App) handleTypePage(c echo.Context) error {
	t, ok := typeParam(c)
	if !ok {
		return errNotFound
	}
	n, err := pageParam(c, localeOf(c), "/blog/type/"+string(t)+"/")
	if err != nil || n == 0 {
		return err
	}
	return a.renderType(c, t, n)
}

func (a *App) renderType(c echo.Context, t blog.PostType, n int) error {
	locale := localeOf(c)
	idx := a.Library.Index()
	page := idx.PaginateType(locale, t, n, a.Config.PageSize)
	if !page.InRange() {
		return errNotFound
	}
	listing := "/blog/type/" + string(t) + "/"
	locales := localesWhere(idx, func(l blog.Locale) bool {
		return idx.PaginateType(l, t, n, a.Config.PageSize).InRange()
	})
	label := TypeLabel(locale, t)
	description := TypeDescription(locale, t, page.TotalCount)
	meta, pager := a.listingMeta(locale, label, description, listing, page, locales)
	meta.JSONLD = []string{CollectionJSONLD(a.Config, locale, label, string(t), meta.URL, nil)}

	return Render(c, a.Views.Listing(ListingPage{
		Meta:    meta,
		Nav:     a.nav(locale, switcher(locale, samePaths(PagePath(blog.DefaultLocale, listing, n), locales))),
		Heading: label,
		Intro:   description,
		Type:    t,
		Posts:   page.Items,
		Types:   a.typeLinks(idx, locale),
		Pager:   pager,
		Total:   page.TotalCount,
	}))
}

func (a *App) handlePost(c echo.Context) error {
	locale := localeOf(c)
	idx := a.Library.Index()
	slug := c.Param("slug")
	post, ok := idx.PostBySlug(locale, slug)
	if !ok {
		return errNotFound
	}

	translations := idx.Translations(locale, slug)
	paths := make(map[blog.Locale]string, len(translations))
	for l, tr := range translations {
		paths[l] = "/blog/" + PathEscape(tr.Slug) + "/"
	}

	var related []blog.Post
	if len(post.Tags) > 0 {
		related = idx.RelatedPosts(locale, post.Tags[0], post)
		if len(related) > a.Config.RelatedLimit {
			related = related[:a.Config.RelatedLimit]
		}
	}
	newer, older := idx.Adjacent(locale, slug)

	image := absoluteURL(a.Config.URL, post.Image)
	if image == "" {
		image = a.Config.DefaultImage
	}
	meta := PageMeta{
		Locale:      locale,
		Title:       post.Title,
		Description: post.Description,
		URL:         a.Config.URL + PostPath(locale, slug),
		OGType:      "article",
		Image:       image,
		ImageWidth:  post.ImageWidth,
		ImageHeight: post.ImageHeight,
		Alternates:  LanguageAlternates(a.Config.URL, paths),
		JSONLD: []string{
			PostJSONLD(post, a.Config),
			BreadcrumbJSONLD(a.Config, locale, post),
		},
	}
	published := FormatDate(locale, post.PublishedAt)
	var updated string
	if !post.UpdatedAt.Equal(post.PublishedAt) {
		updated = FormatDate(locale, post.UpdatedAt)
	}

	return Render(c, a.Views.Post(PostPage{
		Meta:         meta,
		Nav:          a.nav(locale, switcher(locale, paths)),
		Post:         post,
		Translations: translations,
		Related:      related,
		Newer:        newer,
		Older:        older,
		TypeLabel:    TypeLabel(locale, post.Type),
		TypeURL:      TypePath(locale, post.Type),
		Published:    published,
		Updated:      updated,
	}))
}

func (a *App) handleSearch(c echo.Context) error {
	locale := localeOf(c)
	cp := a.Config.CopyFor(locale)
	meta := a.pageMeta(locale, cp.Title, cp.Description, "/search/", blog.Locales)
	return Render(c, a.Views.Search(SearchPage{
		Meta:      meta,
		Nav:       a.nav(locale, switcher(locale, samePaths("/search/", blog.Locales))),
		Query:     c.QueryParam("q"),
		SearchURL: LocalizedPath(locale, "/search.json"),
	}))
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nAllow: /\n\nSitemap: " + a.Config.URL + "/sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	var he *echo.HTTPError
	ok := errors.As(err, &he)
	locale, _ := localeFromPath(c.Request().URL.Path)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound(a.errorPage(locale)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		logger.FromContext(c.Request().Context()).Error("server error", zap.Error(err))
		_ = RenderStatus(c, code, a.Views.ServerError(a.errorPage(locale)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}

func (a *App) errorPage(locale blog.Locale) StaticPage {
	cp := a.Config.CopyFor(locale)
	return StaticPage{
		Meta: PageMeta{Locale: locale, Title: cp.Title, NoIndex: true},
		Nav:  a.nav(locale, nil),
	}
}
