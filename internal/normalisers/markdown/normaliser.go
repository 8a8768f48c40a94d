// Package markdown turns markdown (as returned by scraping APIs) into plain
// text fit for an LLM prompt.
package markdown

import (
	"regexp"
	"strings"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

var (
	codeFence     = regexp.MustCompile("(?s)```[^\n]*\n(.*?)```")
	images        = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	headings      = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`)
	strong        = regexp.MustCompile(`(\*\*|__)(\S(?:.*?\S)?)(\*\*|__)`)
	emphasis      = regexp.MustCompile(`(^|[\s(])[*_](\S(?:[^*_\n]*?\S)?)[*_]`)
	inlineCode    = regexp.MustCompile("`([^`\n]+)`")
	blockquote    = regexp.MustCompile(`(?m)^[ \t]*>[ \t]?`)
	rules         = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	bullets       = regexp.MustCompile(`(?m)^([ \t]*)[-*+][ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
	trailing      = regexp.MustCompile(`(?m)[ \t]+$`)
)

// Normalise returns the first level-one heading as the title and the text
// with markdown syntax removed. Fenced code keeps its contents.
func Normalise(src, pageURL string) *domain.ExtractedContent {
	return &domain.ExtractedContent{
		URL:   pageURL,
		Title: Title(src),
		Text:  Strip(src),
	}
}

// Title returns the text of the first "# " heading, or "".
func Title(src string) string {
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return Strip(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

// Strip removes markdown formatting.
func Strip(src string) string {
	s := strings.ReplaceAll(src, "\r\n", "\n")
	s = codeFence.ReplaceAllString(s, "$1")
	s = images.ReplaceAllString(s, "")
	s = links.ReplaceAllString(s, "$1")
	s = rules.ReplaceAllString(s, "")
	s = headings.ReplaceAllString(s, "")
	s = blockquote.ReplaceAllString(s, "")
	s = bullets.ReplaceAllString(s, "$1")
	s = strong.ReplaceAllString(s, "$2")
	s = emphasis.ReplaceAllString(s, "$1$2")
	s = inlineCode.ReplaceAllString(s, "$1")
	s = trailing.ReplaceAllString(s, "")
	s = multiNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
