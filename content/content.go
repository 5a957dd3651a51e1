// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package content cleans user supplied text before it reaches the registry.
package content

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/microcosm-cc/bluemonday"
)

var excessiveLinesRe = regexp.MustCompile(`\n{3,}`)

// Processor strips markup from plain text fields and converts rich-text
// editor HTML into markdown. It is safe for concurrent use.
type Processor struct {
	strict    *bluemonday.Policy
	rich      *bluemonday.Policy
	converter *md.Converter
}

func NewProcessor() *Processor {
	rich := bluemonday.StrictPolicy()
	rich.AllowElements("p", "br", "strong", "b", "em", "i", "code", "pre", "blockquote")
	rich.AllowElements("ul", "ol", "li")
	rich.AllowElements("h1", "h2", "h3", "h4", "h5", "h6")
	rich.AllowElements("table", "thead", "tbody", "tr", "th", "td", "del")
	rich.AllowAttrs("href").OnElements("a")
	rich.AllowStandardURLs()
	rich.RequireParseableURLs(true)
	rich.RequireNoFollowOnLinks(true)

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &Processor{
		strict:    bluemonday.StrictPolicy(),
		rich:      rich,
		converter: converter,
	}
}

// StripTags removes every HTML element, and the contents of script and style
// elements, leaving the text otherwise untouched.
func (p *Processor) StripTags(s string) string {
	return html.UnescapeString(p.strict.Sanitize(s))
}

// HTMLToMarkdown sanitizes editor HTML and converts what survives to
// GitHub flavored markdown.
func (p *Processor) HTMLToMarkdown(raw string) (string, error) {
	clean := p.rich.Sanitize(raw)
	out, err := p.converter.ConvertString(clean)
	if err != nil {
		return "", fmt.Errorf("failed to convert html: %w", err)
	}
	out = excessiveLinesRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out), nil
}

// ComposeProposalMarkdown renders the stored form of a proposal body:
// a title heading, an author line, a blank line, then the body.
func ComposeProposalMarkdown(title, author, body string) string {
	return "# " + title + "\nAuthor: " + author + "\n\n" + body
}

// ProposalDocument is a parsed proposal body.
type ProposalDocument struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Body   string `json:"body"`
}

// ParseProposalMarkdown splits a composed body back into its parts. Missing
// header lines leave the matching field empty and the text in Body.
func ParseProposalMarkdown(markdown string) ProposalDocument {
	var doc ProposalDocument
	lines := strings.Split(markdown, "\n")
	start := 0

	if len(lines) > 0 && strings.HasPrefix(lines[0], "# ") {
		doc.Title = strings.TrimSpace(lines[0][2:])
		start = 1
	}
	if len(lines) > 1 && strings.HasPrefix(lines[1], "Author: ") {
		doc.Author = strings.TrimSpace(lines[1][len("Author: "):])
		start = 2
	}

	doc.Body = strings.TrimSpace(strings.Join(lines[start:], "\n"))
	return doc
}
