package reddit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

const listingJSON = `{
  "kind": "Listing",
  "data": {
    "after": "t3_ccc",
    "children": [
      {"kind": "t3", "data": {"id": "aaa", "title": "Why does &amp; break?", "selftext": "Body &lt;here&gt;",
        "url": "https://www.reddit.com/r/golang/comments/aaa/why/", "permalink": "/r/golang/comments/aaa/why/",
        "subreddit": "golang", "author": "gopher", "created_utc": 1700000000.0, "score": 12, "num_comments": 3, "is_self": true}},
      {"kind": "t3", "data": {"id": "bbb", "title": "Link post", "selftext": "",
        "url": "https://go.dev/blog", "permalink": "/r/golang/comments/bbb/link/",
        "subreddit": "golang", "author": "rob", "created_utc": 1700000100.0, "score": 40, "num_comments": 9, "is_self": false}},
      {"kind": "t3", "data": {"id": "", "title": "no id"}},
      {"kind": "t1", "data": {"id": "comment", "title": "not a post"}}
    ]
  }
}`

func fastLimit() int { return 6000 }

func TestPublicClient_Search_Keyword(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set(HeaderRateRemaining, "95.0")
		w.Header().Set(HeaderRateReset, "120")
		_, _ = w.Write([]byte(listingJSON))
	}))
	defer srv.Close()

	c := NewPublicClient(JSONConfig{BaseURL: srv.URL, UserAgent: "threadsift-test/1.0", RequestsPerMinute: fastLimit()})
	q := domain.NewSearchQuery("golang errors", domain.ScopeKeyword, 25)

	posts, err := c.Search(context.Background(), q)

	require.NoError(t, err)
	assert.Equal(t, "/search.json", gotPath)
	assert.Contains(t, gotQuery, "q=golang+errors")
	assert.Contains(t, gotQuery, "sort=new")
	assert.Contains(t, gotQuery, "limit=25")
	assert.Equal(t, "threadsift-test/1.0", gotUA)

	require.Len(t, posts, 2)
	assert.Equal(t, "aaa", posts[0].ID)
	assert.Equal(t, "Why does & break?", posts[0].Title)
	assert.Equal(t, "Body <here>", posts[0].Body)
	assert.Equal(t, "https://www.reddit.com/r/golang/comments/aaa/why/", posts[0].URL)
	assert.Empty(t, posts[0].LinkURL)
	assert.Equal(t, time.Unix(1700000000, 0).UTC(), posts[0].CreatedAt)
	assert.Equal(t, 3, posts[0].CommentCount)

	assert.Equal(t, "https://go.dev/blog", posts[1].LinkURL)
	assert.False(t, posts[1].HasBody())

	assert.Equal(t, 95.0, c.rateLimiter.Remaining())
	assert.Equal(t, "public", c.Name())
}

func TestPublicClient_Search_SubredditListing(t *testing.T) {
	var gotPath, gotT string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotT = r.URL.Query().Get("t")
		_, _ = w.Write([]byte(`{"kind":"Listing","data":{"children":[]}}`))
	}))
	defer srv.Close()

	c := NewPublicClient(JSONConfig{BaseURL: srv.URL, UserAgent: "ua", RequestsPerMinute: fastLimit()})

	posts, err := c.Search(context.Background(), domain.NewSearchQuery("r/golang", domain.ScopeSubreddit, 10).WithSort(domain.SortTop).WithTime(domain.TimeWeek))

	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.Equal(t, "/r/golang/top.json", gotPath)
	assert.Equal(t, "week", gotT)
}

func TestPublicClient_Search_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		header map[string]string
		kind   domain.ErrorKind
		target error
	}{
		{"429 is rate limited", http.StatusTooManyRequests, map[string]string{HeaderRetryAfter: "7"}, domain.KindRateLimited, domain.ErrRateLimited},
		{"401 is auth failed", http.StatusUnauthorized, nil, domain.KindAuthFailed, domain.ErrAuthFailed},
		{"403 is auth failed", http.StatusForbidden, nil, domain.KindAuthFailed, domain.ErrAuthFailed},
		{"500 is upstream", http.StatusInternalServerError, nil, domain.KindUpstream, domain.ErrUpstream},
		{"404 is upstream", http.StatusNotFound, nil, domain.KindUpstream, domain.ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for k, v := range tt.header {
					w.Header().Set(k, v)
				}
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			c := NewPublicClient(JSONConfig{BaseURL: srv.URL, UserAgent: "ua", RequestsPerMinute: fastLimit()})
			_, err := c.Search(context.Background(), domain.NewSearchQuery("x", domain.ScopeKeyword, 5))

			require.Error(t, err)
			assert.Equal(t, tt.kind, domain.KindOf(err))
			assert.True(t, errors.Is(err, tt.target))

			var se *domain.ServiceError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.Code)
			if tt.status == http.StatusTooManyRequests {
				assert.Equal(t, 7*time.Second, se.RetryAfter)
			}
		})
	}
}

func TestPublicClient_Search_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer srv.Close()

	c := NewPublicClient(JSONConfig{BaseURL: srv.URL, UserAgent: "ua", RequestsPerMinute: fastLimit()})
	_, err := c.Search(context.Background(), domain.NewSearchQuery("x", domain.ScopeKeyword, 5))

	assert.Equal(t, domain.KindUpstream, domain.KindOf(err))
}

func TestPublicClient_Search_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	c := NewPublicClient(JSONConfig{BaseURL: srv.URL, UserAgent: "ua", RequestsPerMinute: fastLimit()})
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Search(ctx, domain.NewSearchQuery("x", domain.ScopeKeyword, 5))

	var se *domain.ServiceError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, domain.KindUpstream, se.Kind)
	assert.Equal(t, domain.CodeTimeout, se.Code)
}

func TestAppClient_Search_UsesClientCredentials(t *testing.T) {
	var tokenCalls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/access_token":
			tokenCalls++
			user, pass, ok := r.BasicAuth()
			if !ok || user != "cid" || pass != "csecret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			assert.Equal(t, "ua-app", r.Header.Get("User-Agent"))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600}`))
		case "/search":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(listingJSON))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := NewAppClient(AppConfig{
		JSONConfig:   JSONConfig{BaseURL: srv.URL, UserAgent: "ua-app", RequestsPerMinute: fastLimit()},
		ClientID:     "cid",
		ClientSecret: "csecret",
		TokenURL:     srv.URL + "/api/v1/access_token",
	})
	require.NoError(t, err)

	posts, err := c.Search(context.Background(), domain.NewSearchQuery("golang", domain.ScopeKeyword, 25))
	require.NoError(t, err)
	assert.Len(t, posts, 2)

	_, err = c.Search(context.Background(), domain.NewSearchQuery("golang", domain.ScopeKeyword, 25))
	require.NoError(t, err)
	assert.Equal(t, 1, tokenCalls, "token must be reused")
	assert.Equal(t, "app", c.Name())
}

func TestAppClient_Search_BadCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message": "Unauthorized", "error": 401}`))
	}))
	defer srv.Close()

	c, err := NewAppClient(AppConfig{
		JSONConfig:   JSONConfig{BaseURL: srv.URL, UserAgent: "ua", RequestsPerMinute: fastLimit()},
		ClientID:     "cid",
		ClientSecret: "wrong",
		TokenURL:     srv.URL + "/api/v1/access_token",
	})
	require.NoError(t, err)

	_, err = c.Search(context.Background(), domain.NewSearchQuery("golang", domain.ScopeKeyword, 25))

	assert.True(t, errors.Is(err, domain.ErrAuthFailed), "got %v", err)
}

func TestNewAppClient_MissingCredentials(t *testing.T) {
	_, err := NewAppClient(AppConfig{ClientID: "only-id"})
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
}
