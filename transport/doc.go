// Package transport provides the authenticating HTTP gateway: an
// [net/http.RoundTripper] that attaches the bearer credential and a request
// ID to every outbound request and turns a 401 into a coordinated refresh
// plus a single replay of the failed request.
//
// # Refresh-and-retry rules
//
// A 401 answer triggers a refresh unless the request targeted the refresh
// or login endpoint, the caller's current route is one where a 401 is an
// expected business answer (login, forced password change), or the request
// already carries the retry marker. A request is replayed at most once, and
// only when its body can be rebuilt (nil body or GetBody present).
//
// # Architecture boundaries
//
// The gateway never classifies refresh failures and never touches the
// credential store beyond reading the access credential; when a refresh
// fails for any reason the original 401 response is handed back untouched
// and the caller deals with the coordinator's verdict on its next attempt.
//
// # What this package must NOT do
//
//   - Send refresh traffic through itself (the coordinator owns that call
//     on a separate cookie-jar client).
//   - Retry a request twice, or retry on any status other than 401.
//   - Buffer request bodies on behalf of the caller.
package transport
