// Package goSession is the client-side session and authentication core for
// an admin dashboard API: credential storage with a strict volatile/durable
// split, an authenticating HTTP gateway with single-flight refresh-and-retry,
// and a route-level session guard.
//
// The package is designed for concurrent callers: Client methods are safe to
// call from multiple goroutines after initialization through [Builder.Build].
// No matter how many requests observe an expired credential at once, at most
// one refresh call leaves the process.
//
// # Architecture boundaries
//
// goSession is the public surface. It exposes [Client], [Builder], [Config],
// and value types (LoginResult, SessionInfo, MetricsSnapshot, etc.) and
// orchestrates the subpackages: [store] owns credential persistence,
// [refresh] owns refresh coordination and failure classification,
// [transport] owns the authenticating RoundTripper, and [guard] owns
// route-level decisions.
//
// # What this package must NOT do
//
//   - Persist the access credential anywhere durable (it lives in memory
//     only; the refresh credential is an HTTP-only cookie owned by the
//     backend).
//   - Reinterpret refresh failures: only the refresh coordinator classifies
//     terminal versus transient, and only a terminal failure ends the
//     session.
//   - Import any sub-package that re-imports goSession (no import cycles).
//
// # Session lifecycle
//
// Login installs credentials and the cached profile; the gateway keeps the
// session alive transparently by refreshing on 401 and replaying the failed
// request once; Logout, or a terminal refresh failure, clears everything
// atomically. A process restart lands in the needs-refresh state: the cached
// profile survives, the access credential does not, and the next guarded
// request or guard evaluation restores the session through one coordinated
// refresh.
package goSession
