// Package reddit implements driven.PostSource for Reddit.
//
// Four clients share one normalisation path (listing.go):
//
//   - APIClient: script app through go-reddit (client id, secret, username, password)
//   - JSONClient (app): application-only OAuth against oauth.reddit.com
//   - JSONClient (public): anonymous www.reddit.com/*.json endpoints
//   - MockSource: deterministic fixtures
//
// # Rate Limiting
//
// Every client throttles proactively with a token bucket sized from
// reddit.requests_per_minute and reactively from the X-Ratelimit-Remaining
// and X-Ratelimit-Reset headers. A 429 surfaces as domain.ErrRateLimited
// carrying the Retry-After hint; retrying is the caller's decision.
//
// # Errors
//
// 401 and 403 (and rejected token requests) map to domain.ErrAuthFailed,
// 429 to domain.ErrRateLimited, any other non-2xx or transport failure to
// domain.ErrUpstream with the status code, or "timeout" for deadlines.
package reddit
