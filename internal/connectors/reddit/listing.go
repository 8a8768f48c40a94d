package reddit

import (
	"html"
	"strings"
	"time"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

// WebBaseURL is where permalinks point.
const WebBaseURL = "https://www.reddit.com"

// listing is the wire format of a Reddit listing response.
type listing struct {
	Kind string `json:"kind"`
	Data struct {
		After    string `json:"after"`
		Children []struct {
			Kind string   `json:"kind"`
			Data linkData `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// linkData is the subset of a t3 (link) object we use.
type linkData struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Subreddit   string  `json:"subreddit"`
	Author      string  `json:"author"`
	CreatedUTC  float64 `json:"created_utc"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
	IsSelf      bool    `json:"is_self"`
}

// posts converts the t3 children of a listing into domain posts.
func (l *listing) posts() []domain.Post {
	out := make([]domain.Post, 0, len(l.Data.Children))
	for _, c := range l.Data.Children {
		if c.Kind != "" && c.Kind != "t3" {
			continue
		}
		d := c.Data
		created := time.Unix(0, int64(d.CreatedUTC*float64(time.Second))).UTC()
		link := ""
		if !d.IsSelf {
			link = d.URL
		}
		p, ok := normalisePost(d.ID, d.Title, d.SelfText, d.Permalink, link, d.Subreddit, d.Author, created, d.Score, d.NumComments)
		if ok {
			out = append(out, p)
		}
	}
	return out
}

// normalisePost builds a domain.Post, unescaping Reddit's HTML entities.
// Records without an id or title are dropped.
func normalisePost(
	id, title, body, permalink, link, subreddit, author string,
	created time.Time,
	score, comments int,
) (domain.Post, bool) {
	id = strings.TrimPrefix(strings.TrimSpace(id), "t3_")
	title = strings.TrimSpace(html.UnescapeString(title))
	if id == "" || title == "" {
		return domain.Post{}, false
	}

	body = strings.TrimSpace(html.UnescapeString(body))
	if body == "[removed]" || body == "[deleted]" {
		body = ""
	}

	permalink = absolutePermalink(permalink)
	if link == permalink {
		link = ""
	}

	return domain.Post{
		ID:           id,
		Title:        title,
		Body:         body,
		URL:          permalink,
		LinkURL:      html.UnescapeString(link),
		Subreddit:    strings.TrimPrefix(subreddit, "r/"),
		Author:       author,
		CreatedAt:    created.UTC(),
		Score:        score,
		CommentCount: comments,
	}, true
}

// absolutePermalink turns "/r/x/comments/id/slug/" into a full URL.
func absolutePermalink(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return WebBaseURL + p
}

// listingSort maps a query sort onto a community listing endpoint.
// Community listings only support new, hot and top.
func listingSort(s domain.SortOrder) string {
	switch s {
	case domain.SortHot:
		return "hot"
	case domain.SortTop:
		return "top"
	default:
		return "new"
	}
}

// searchSort maps a query sort onto the search endpoint; empty means new.
func searchSort(s domain.SortOrder) string {
	if s == "" {
		return string(domain.SortNew)
	}
	return string(s)
}

// timeWindow maps a query window; empty means all.
func timeWindow(t domain.TimeWindow) string {
	if t == "" {
		return string(domain.TimeAll)
	}
	return string(t)
}
