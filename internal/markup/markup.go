package markup

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strings"
)

var (
	boldPattern   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicPattern = regexp.MustCompile(`\*(.*?)\*`)
	linkPattern   = regexp.MustCompile(`\[(.*?)\]\((.*?)\)`)
)

// Styler decides how each markup element is rendered. Text handed to a
// Styler has already been through Escape.
type Styler interface {
	Escape(text string) string
	Bold(text string) string
	Italic(text string) string
	Link(label, url string) string
	Newline() string
}

// Render applies the chat markup: **bold**, *italic*, [label](url) and line
// breaks. Bold is matched before italic, so "**x**" never becomes nested
// italics.
func Render(text string, s Styler) string {
	out := s.Escape(text)
	out = boldPattern.ReplaceAllStringFunc(out, func(m string) string {
		return s.Bold(boldPattern.FindStringSubmatch(m)[1])
	})
	out = italicPattern.ReplaceAllStringFunc(out, func(m string) string {
		return s.Italic(italicPattern.FindStringSubmatch(m)[1])
	})
	out = linkPattern.ReplaceAllStringFunc(out, func(m string) string {
		groups := linkPattern.FindStringSubmatch(m)
		return s.Link(groups[1], groups[2])
	})
	return strings.ReplaceAll(out, "\n", s.Newline())
}

type htmlStyler struct{}

func (htmlStyler) Escape(text string) string { return html.EscapeString(text) }
func (htmlStyler) Bold(text string) string   { return "<strong>" + text + "</strong>" }
func (htmlStyler) Italic(text string) string { return "<em>" + text + "</em>" }
func (htmlStyler) Newline() string           { return "<br>" }

// Link drops the anchor for anything but http, https and mailto targets and
// keeps only the label.
func (htmlStyler) Link(label, target string) string {
	if !safeLinkTarget(target) {
		return label
	}
	return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, target, label)
}

func safeLinkTarget(target string) bool {
	u, err := url.Parse(strings.TrimSpace(html.UnescapeString(target)))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto":
		return true
	}
	return false
}

// HTML renders text as an HTML fragment. The text is escaped before markup is
// applied, so message content cannot inject tags.
func HTML(text string) string {
	return Render(text, htmlStyler{})
}

type plainStyler struct{}

func (plainStyler) Escape(text string) string     { return text }
func (plainStyler) Bold(text string) string       { return text }
func (plainStyler) Italic(text string) string     { return text }
func (plainStyler) Newline() string               { return "\n" }
func (plainStyler) Link(label, url string) string { return fmt.Sprintf("%s (%s)", label, url) }

// Plain strips the markup, keeping link targets in parentheses. Used for
// speech output.
func Plain(text string) string {
	return Render(text, plainStyler{})
}
