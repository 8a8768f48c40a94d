package services

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// stripFences removes a surrounding Markdown code fence such as ```json ... ```.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// jsonObject returns the outermost {...} span of s, or "" if there is none.
// Models sometimes wrap the object in prose.
func jsonObject(s string) string {
	s = stripFences(s)
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

// truncateRunes cuts s to at most n runes without splitting a character.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// ellipsis marks text cut by truncateSummary.
const ellipsis = "…"

// truncateSummary limits s to max runes including a trailing ellipsis.
// It cuts at the last space when one falls in the final fifth of the budget,
// otherwise on a rune boundary. The second result reports whether s was cut.
func truncateSummary(s string, max int) (string, bool) {
	if utf8.RuneCountInString(s) <= max {
		return s, false
	}
	if max <= 1 {
		return truncateRunes(ellipsis, max), true
	}

	cut := truncateRunes(s, max-1)
	runes := utf8.RuneCountInString(cut)
	if i := strings.LastIndexAny(cut, " \n\t"); i >= 0 {
		if utf8.RuneCountInString(cut[:i]) >= runes-runes/5 {
			cut = cut[:i]
		}
	}
	return strings.TrimRight(cut, " \n\t.,;:") + ellipsis, true
}

// normaliseNone turns the placeholder answers models give for "nothing" into "".
func normaliseNone(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(strings.Trim(s, ".")) {
	case "none", "n/a", "na", "null", "unknown", "-":
		return ""
	}
	return s
}

// cleanList trims items, drops empty and placeholder entries, dedupes
// case-insensitively and keeps at most max entries (max <= 0 means no cap).
func cleanList(items []string, max int) []string {
	var out []string
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = normaliseNone(it)
		if it == "" {
			continue
		}
		key := strings.ToLower(it)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
		if max > 0 && len(out) == max {
			break
		}
	}
	return out
}

// minTopicLen and minTopicCount keep short words and one-off mentions out
// of mainTopics.
const (
	minTopicLen   = 4
	minTopicCount = 2
)

// stopWords are frequent English words and Reddit page chrome that never
// make a useful topic.
var stopWords = map[string]bool{
	"about": true, "after": true, "also": true, "been": true, "before": true,
	"being": true, "could": true, "does": true, "doing": true, "even": true,
	"from": true, "have": true, "here": true, "into": true, "just": true,
	"know": true, "like": true, "more": true, "most": true, "much": true,
	"only": true, "other": true, "really": true, "same": true, "should": true,
	"some": true, "still": true, "than": true, "that": true, "their": true,
	"them": true, "then": true, "there": true, "these": true, "they": true,
	"thing": true, "think": true, "this": true, "those": true, "very": true,
	"want": true, "well": true, "were": true, "what": true, "when": true,
	"where": true, "which": true, "while": true, "will": true, "with": true,
	"would": true, "your": true, "because": true, "people": true,
	"comment": true, "comments": true, "deleted": true, "level": true,
	"permalink": true, "points": true, "removed": true, "reply": true,
	"share": true, "upvotes": true, "reddit": true,
}

// mainTopics returns up to n content words that appear at least twice in
// text, most frequent first. Ties keep first-occurrence order.
func mainTopics(text string, n int) []string {
	if n <= 0 {
		return nil
	}
	counts := make(map[string]int)
	var order []string
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if utf8.RuneCountInString(w) < minTopicLen || stopWords[w] || isNumber(w) {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	topics := make([]string, 0, n)
	for _, w := range order {
		if len(topics) == n || counts[w] < minTopicCount {
			break
		}
		topics = append(topics, w)
	}
	if len(topics) == 0 {
		return nil
	}
	return topics
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
