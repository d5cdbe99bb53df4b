// Package guard makes route-level access decisions from the client's
// session state. It is the programmatic equivalent of the dashboard's
// AuthGuard/GuestGuard pair.
//
// # State machine
//
// Every evaluation starts in StateChecking and resolves to exactly one of
// StateAuthenticated or StateUnauthenticated:
//
//   - An in-memory access credential resolves immediately, no network.
//   - A cached profile without a credential (the post-restart case) runs
//     one coordinated refresh. A terminal verdict resolves to
//     unauthenticated; a transient one resolves optimistically to
//     authenticated so a backend outage never logs anyone out.
//   - Neither resolves to unauthenticated.
//
// # Decisions
//
// Evaluate never returns an error: callers render from a decision, so every
// outcome maps to Allow or a redirect. The forced-password-change flag is
// re-checked on every evaluation, so revoking it server-side takes effect
// on the next navigation.
//
// # What this package must NOT do
//
//   - Classify refresh failures (it trusts the coordinator's sentinels).
//   - Mutate the credential store.
//   - Issue any network call other than the coordinated refresh.
package guard
