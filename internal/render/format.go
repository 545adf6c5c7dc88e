// Package render converts fetched email bodies into terminal-friendly
// plain text. Backends return whatever the original message carried, so
// HTML bodies are common.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// LinkRef represents a collected hyperlink reference
type LinkRef struct {
	Index int
	URL   string
	Text  string
}

var looksLikeHTML = regexp.MustCompile(`(?is)<\s*(html|body|div|p|br|table|a|span)\b`)

// HTMLToText renders an email body to plain text. Non-HTML input is
// returned unchanged apart from whitespace normalization. Hyperlinks are
// collected into a [LINKS] trailer with inline [n] references.
func HTMLToText(body string) (string, error) {
	if !looksLikeHTML.MatchString(body) {
		return normalizeWhitespace(body), nil
	}

	text, links, err := renderHTML(body)
	if err != nil {
		return "", err
	}
	out := normalizeWhitespace(text)
	if len(links) > 0 {
		var b strings.Builder
		b.WriteString(out)
		b.WriteString("\n\n[LINKS]\n")
		for _, l := range links {
			b.WriteString(fmt.Sprintf("[%d] %s\n", l.Index, l.URL))
		}
		out = strings.TrimRight(b.String(), "\n")
	}
	return out, nil
}

// renderHTML walks the parse tree collecting text, inserting breaks for
// block elements and indexing anchors
func renderHTML(input string) (string, []LinkRef, error) {
	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return "", nil, fmt.Errorf("parse html: %w", err)
	}

	var b strings.Builder
	var links []LinkRef

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "head":
				return
			case "br":
				b.WriteString("\n")
			case "p", "div", "tr", "table", "ul", "ol", "blockquote",
				"h1", "h2", "h3", "h4", "h5", "h6":
				b.WriteString("\n")
			case "li":
				b.WriteString("\n- ")
			case "a":
				href := attr(n, "href")
				if href != "" && !strings.HasPrefix(href, "#") {
					idx := len(links) + 1
					links = append(links, LinkRef{Index: idx, URL: href, Text: textContent(n)})
					defer func() { b.WriteString(fmt.Sprintf(" [%d]", idx)) }()
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "tr", "table", "ul", "ol", "blockquote",
				"h1", "h2", "h3", "h4", "h5", "h6":
				b.WriteString("\n")
			}
		}
	}
	walk(doc)
	return b.String(), links, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

var multiBlank = regexp.MustCompile(`\n{3,}`)

// normalizeWhitespace trims trailing space per line and collapses runs of
// blank lines to one
func normalizeWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(strings.ReplaceAll(line, "\u00a0", " "), " \t")
	}
	out := strings.Join(lines, "\n")
	out = multiBlank.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
