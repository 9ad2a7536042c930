// Package views provides the default page components for the site, built
// on html/template and exposed as templ components.
package views

import (
	"context"
	"embed"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	alexbon "github.com/alexbon-com/alexbon.com"
	"github.com/alexbon-com/alexbon.com/blog"
	"github.com/alexbon-com/alexbon.com/markdown"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"t":         translate,
	"date":      alexbon.FormatDate,
	"count":     alexbon.FormatCount,
	"postPath":  alexbon.PostPath,
	"tagPath":   alexbon.TagPath,
	"typePath":  alexbon.TypePath,
	"typeLabel": alexbon.TypeLabel,
	"localized": alexbon.LocalizedPath,
	"join":      strings.Join,
	"jsonld":    func(s string) template.JS { return template.JS(s) },
	"body":      body,
	"bcp47":     func(l blog.Locale) string { return l.BCP47() },
	"iso":       func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"year":      func() int { return time.Now().Year() },
}

var tmpl = template.Must(template.New("views").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))

// body renders pre-rendered post HTML through the markdown component.
func body(ctx context.Context, html string) (template.HTML, error) {
	return templ.ToGoHTML(ctx, markdown.HTML(html))
}

// page is the value every template receives: the page data plus the
// request context for nested components.
type page[T any] struct {
	Ctx  context.Context
	Data T
}

func component[T any](name string) func(T) templ.Component {
	return func(data T) templ.Component {
		return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			return tmpl.ExecuteTemplate(w, name, page[T]{Ctx: ctx, Data: data})
		})
	}
}

// Default returns the built-in views.
func Default() alexbon.ViewFuncs {
	return alexbon.ViewFuncs{
		Home:        component[alexbon.HomePage]("home"),
		Listing:     component[alexbon.ListingPage]("listing"),
		Post:        component[alexbon.PostPage]("post"),
		Search:      component[alexbon.SearchPage]("search"),
		About:       component[alexbon.StaticPage]("about"),
		NotFound:    component[alexbon.StaticPage]("notfound"),
		ServerError: component[alexbon.StaticPage]("servererror"),
	}
}

var uiText = map[string]map[blog.Locale]string{
	"blog":         {blog.LocaleUA: "Думки", blog.LocaleRU: "Мысли", blog.LocaleEN: "Thoughts"},
	"home":         {blog.LocaleUA: "Головна", blog.LocaleRU: "Главная", blog.LocaleEN: "Home"},
	"about":        {blog.LocaleUA: "Про мене", blog.LocaleRU: "Обо мне", blog.LocaleEN: "About"},
	"search":       {blog.LocaleUA: "Пошук", blog.LocaleRU: "Поиск", blog.LocaleEN: "Search"},
	"tags":         {blog.LocaleUA: "Теги", blog.LocaleRU: "Теги", blog.LocaleEN: "Tags"},
	"latest":       {blog.LocaleUA: "Нове", blog.LocaleRU: "Новое", blog.LocaleEN: "Latest"},
	"related":      {blog.LocaleUA: "Схожі записи", blog.LocaleRU: "Похожие записи", blog.LocaleEN: "Related posts"},
	"newer":        {blog.LocaleUA: "Новіше", blog.LocaleRU: "Новее", blog.LocaleEN: "Newer"},
	"older":        {blog.LocaleUA: "Старіше", blog.LocaleRU: "Старше", blog.LocaleEN: "Older"},
	"prev":         {blog.LocaleUA: "Назад", blog.LocaleRU: "Назад", blog.LocaleEN: "Previous"},
	"next":         {blog.LocaleUA: "Далі", blog.LocaleRU: "Дальше", blog.LocaleEN: "Next"},
	"updated":      {blog.LocaleUA: "Оновлено", blog.LocaleRU: "Обновлено", blog.LocaleEN: "Updated"},
	"translations": {blog.LocaleUA: "Іншими мовами", blog.LocaleRU: "На других языках", blog.LocaleEN: "In other languages"},
	"empty":        {blog.LocaleUA: "Тут поки порожньо.", blog.LocaleRU: "Здесь пока пусто.", blog.LocaleEN: "Nothing here yet."},
	"notFound":     {blog.LocaleUA: "Сторінку не знайдено", blog.LocaleRU: "Страница не найдена", blog.LocaleEN: "Page not found"},
	"serverError":  {blog.LocaleUA: "Щось пішло не так", blog.LocaleRU: "Что-то пошло не так", blog.LocaleEN: "Something went wrong"},
	"archived":     {blog.LocaleUA: "Джерело", blog.LocaleRU: "Источник", blog.LocaleEN: "Source"},
}

func translate(locale blog.Locale, key string) string {
	if m, ok := uiText[key]; ok {
		if s, ok := m[locale]; ok {
			return s
		}
		return m[blog.DefaultLocale]
	}
	return key
}
