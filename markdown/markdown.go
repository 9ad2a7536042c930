// Package markdown renders post bodies to HTML and derives the plain-text
// projections (description, summary, search content) the content loader needs.
package markdown

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/a-h/templ"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown to HTML. It is safe for concurrent use.
type Renderer struct {
	md goldmark.Markdown
}

// New returns a Renderer with GitHub-flavoured markdown and heading anchors.
// Raw HTML is passed through: content is authored by the site owner.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(
				gmhtml.WithUnsafe(),
			),
		),
	}
}

// Render returns the HTML for src.
func (r *Renderer) Render(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("markdown: convert: %w", err)
	}
	return buf.String(), nil
}

// HTML returns a templ.Component writing pre-rendered body HTML verbatim.
func HTML(body string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, body)
		return err
	})
}

var (
	reFence      = regexp.MustCompile("```[\\s\\S]*?```")
	reBackticks  = regexp.MustCompile("`+")
	reTag        = regexp.MustCompile(`<[^>]+>`)
	reImage      = regexp.MustCompile(`!\[[^\]]*]\([^)]*\)`)
	reLink       = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
	reEmphasis   = regexp.MustCompile(`[*_~>#]+`)
	reRule       = regexp.MustCompile(`-{3,}`)
	reSpace      = regexp.MustCompile(`\s+`)
	reSearchMark = regexp.MustCompile("[`*_>#]")
	reSentence   = regexp.MustCompile(`^(.+?[.!?])(\s|$)`)
)

// PlainText strips markdown and HTML syntax from raw, collapsing whitespace.
func PlainText(raw string) string {
	s := reFence.ReplaceAllString(raw, " ")
	s = reBackticks.ReplaceAllString(s, "")
	s = reTag.ReplaceAllString(s, " ")
	s = reImage.ReplaceAllString(s, " ")
	s = reLink.ReplaceAllString(s, "$1")
	s = reEmphasis.ReplaceAllString(s, " ")
	s = reRule.ReplaceAllString(s, " ")
	s = reSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// SearchContent is the plain-text projection fed to site search, capped at
// limit runes.
func SearchContent(raw string, limit int) string {
	s := reFence.ReplaceAllString(raw, " ")
	s = reSearchMark.ReplaceAllString(s, " ")
	s = reLink.ReplaceAllString(s, "$1")
	s = reSpace.ReplaceAllString(s, " ")
	return truncateRunes(strings.TrimSpace(s), limit)
}

// Truncate shortens text to at most limit runes, ending with "..." when cut.
func Truncate(text string, limit int) string {
	if text == "" || utf8.RuneCountInString(text) <= limit {
		return text
	}
	cut := truncateRunes(text, limit-3)
	return strings.TrimRightFunc(cut, isSpace) + "..."
}

// FirstSentence returns text up to and including its first sentence
// terminator, or all of text when there is none.
func FirstSentence(text string) string {
	if text == "" {
		return ""
	}
	if m := reSentence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
