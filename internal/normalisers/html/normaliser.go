package html

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

// Normaliser extracts the title and visible text of an HTML page.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Elements that never carry readable content.
const noiseSelector = "script, style, noscript, svg, head, nav, footer, iframe, form, button"

// Containers tried in order for the main content; body is the fallback.
var contentSelectors = []string{"main", "article", "[role=main]", "body"}

// Elements that start a new line of text.
var blockElements = map[string]bool{
	"p": true, "div": true, "section": true, "article": true, "main": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"li": true, "ul": true, "ol": true, "tr": true, "table": true,
	"blockquote": true, "pre": true, "header": true, "aside": true,
}

var (
	multiSpaces   = regexp.MustCompile(`[ \t\x{00a0}]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Normalise parses r and returns the page title and its text content.
// pageURL names the page when it has no title.
func (n *Normaliser) Normalise(r io.Reader, pageURL string) (*domain.ExtractedContent, error) {
	if r == nil {
		return nil, domain.ErrInvalidInput
	}

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %w", domain.ErrInvalidInput, err)
	}

	title := pageTitle(doc, pageURL)

	doc.Find(noiseSelector).Remove()

	root := doc.Selection
	for _, sel := range contentSelectors {
		if s := doc.Find(sel).First(); s.Length() > 0 {
			root = s
			break
		}
	}

	var b strings.Builder
	writeText(&b, root)

	return &domain.ExtractedContent{
		URL:   pageURL,
		Title: title,
		Text:  CleanText(b.String()),
	}, nil
}

// writeText appends the visible text under s, breaking lines at block elements.
func writeText(b *strings.Builder, s *goquery.Selection) {
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		name := goquery.NodeName(c)
		switch {
		case name == "#text":
			b.WriteString(c.Text())
		case name == "br" || name == "hr":
			b.WriteByte('\n')
		case blockElements[name]:
			b.WriteByte('\n')
			writeText(b, c)
			b.WriteByte('\n')
		default:
			writeText(b, c)
		}
	})
}

// pageTitle prefers og:title, then <title>, then the URL's last path segment.
func pageTitle(doc *goquery.Document, pageURL string) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		if t := strings.TrimSpace(og); t != "" {
			return t
		}
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return t
	}
	return titleFromURL(pageURL)
}

func titleFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	name := path.Base(strings.TrimRight(u.Path, "/"))
	if name == "." || name == "/" {
		return u.Host
	}
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.ReplaceAll(name, "_", " ")
	return strings.ReplaceAll(name, "-", " ")
}

// CleanText collapses runs of spaces, trims every line and drops empty ones.
func CleanText(s string) string {
	s = multiSpaces.ReplaceAllString(s, " ")
	s = multiNewlines.ReplaceAllString(s, "\n\n")

	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
