package alexbon

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/message"

	"github.com/alexbon-com/alexbon.com/blog"
)

// PathEscape escapes a string for use in a URL path.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// ParsePage parses a page path segment. Only positive integers are pages.
func ParsePage(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || strconv.Itoa(n) != s {
		return 0, false
	}
	return n, true
}

type typeCopy struct {
	label       string
	description string
}

var typeCopyTable = map[blog.PostType]map[blog.Locale]typeCopy{
	blog.TypeArticle: {
		blog.LocaleUA: {"Карти внутрішнього світу", "Глибокі статті про психологію, усвідомленість і будову нашої свідомості. Матеріалів: %s."},
		blog.LocaleRU: {"Карты внутреннего мира", "Глубокие статьи о психологии, осознанности и устройстве нашего сознания. Материалов: %s."},
		blog.LocaleEN: {"Inner World Maps", "In-depth essays on psychology, mindfulness, and how the mind works. Entries: %s."},
	},
	blog.TypeStory: {
		blog.LocaleUA: {"Історії-дзеркала", "Художні оповідання та психологічні притчі про зустріч із собою. Матеріалів: %s."},
		blog.LocaleRU: {"Истории-зеркала", "Художественные рассказы и психологические притчи о встрече с собой. Материалов: %s."},
		blog.LocaleEN: {"Mirror Stories", "Literary stories and psychological parables about meeting yourself. Entries: %s."},
	},
	blog.TypeNote: {
		blog.LocaleUA: {"Іскри й проблиски", "Короткі нотатки й афоризми, що допомагають побачити звичне по-новому. Матеріалів: %s."},
		blog.LocaleRU: {"Искры и проблески", "Короткие заметки и афоризмы, которые помогают увидеть привычное по-новому. Материалов: %s."},
		blog.LocaleEN: {"Sparks and Glimmers", "Short notes and aphorisms that help you see the familiar in a new light. Entries: %s."},
	},
}

var pageWord = map[blog.Locale]string{
	blog.LocaleUA: "сторінка",
	blog.LocaleRU: "страница",
	blog.LocaleEN: "page",
}

func lookupTypeCopy(locale blog.Locale, t blog.PostType) typeCopy {
	if cp, ok := typeCopyTable[t][locale]; ok {
		return cp
	}
	return typeCopyTable[t][blog.DefaultLocale]
}

// TypeLabel is the localized section name of a post type.
func TypeLabel(locale blog.Locale, t blog.PostType) string {
	return lookupTypeCopy(locale, t).label
}

// TypeDescription is the localized section blurb including the post count.
func TypeDescription(locale blog.Locale, t blog.PostType, count int) string {
	return fmt.Sprintf(lookupTypeCopy(locale, t).description, FormatCount(locale, count))
}

// PageTitle appends a localized page number to title for pages after the first.
func PageTitle(locale blog.Locale, title string, page int) string {
	if page <= 1 {
		return title
	}
	return title + " · " + pageWord[locale] + " " + FormatCount(locale, page)
}

// FormatCount formats n with the locale's digit grouping.
func FormatCount(locale blog.Locale, n int) string {
	return message.NewPrinter(locale.Tag()).Sprintf("%d", n)
}

// TagTitle capitalizes a tag for headings using the locale's casing rules.
func TagTitle(locale blog.Locale, tag string) string {
	return cases.Title(locale.Tag()).String(tag)
}

// Fold case-folds s for case-insensitive matching.
func Fold(s string) string {
	return cases.Fold().String(s)
}

var monthNames = map[blog.Locale][12]string{
	blog.LocaleUA: {"січня", "лютого", "березня", "квітня", "травня", "червня", "липня", "серпня", "вересня", "жовтня", "листопада", "грудня"},
	blog.LocaleRU: {"января", "февраля", "марта", "апреля", "мая", "июня", "июля", "августа", "сентября", "октября", "ноября", "декабря"},
	blog.LocaleEN: {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
}

// FormatDate renders t as a long localized date, e.g. "5 березня 2024" or
// "March 5, 2024".
func FormatDate(locale blog.Locale, t time.Time) string {
	months, ok := monthNames[locale]
	if !ok {
		months = monthNames[blog.DefaultLocale]
	}
	month := months[t.Month()-1]
	if locale == blog.LocaleEN {
		return fmt.Sprintf("%s %d, %d", month, t.Day(), t.Year())
	}
	return fmt.Sprintf("%d %s %d", t.Day(), month, t.Year())
}
