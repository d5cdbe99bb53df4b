// Package refresh serializes credential refresh so that at most one refresh
// request is in flight per client, no matter how many callers notice an
// expired credential at the same time.
//
// # Coordination model
//
// The first caller becomes the leader: it flips the refreshing flag under
// the mutex, performs the network call, writes the result into the
// credential store, and then resolves every queued waiter in FIFO order
// with the shared outcome. Callers arriving while a refresh is in flight
// never dispatch their own request.
//
// # Failure classification
//
// This package is the single owner of refresh failure classification.
// A 401 or 403 from the refresh endpoint is terminal: the refresh
// credential itself is dead, the store is cleared, and callers receive
// [ErrSessionExpired]. Every other failure (network error, timeout, 5xx)
// is transient: the session is preserved and callers receive
// [ErrRefreshUnavailable] wrapping the cause. No other layer may reinterpret
// a refresh error.
//
// # What this package must NOT do
//
//   - Build or send HTTP requests itself (the injected Func does that).
//   - Clear the store on a transient failure.
//   - Resolve waiters before the store has been updated.
package refresh
