// Package store provides client-side credential persistence with a strict
// volatile/durable split: bearer credentials live in process memory only,
// while the user profile and remember-me preference are written to pluggable
// durable backends.
//
// # Remember-me semantics
//
// Two [Backend] instances back every [Store]: the "remember" backend survives
// process restarts, the "session" backend lives for the process lifetime.
// The rememberMe flag passed to [Store.SetSession] selects the write target;
// reads always consult the remember backend first, then the session backend.
//
// # Architecture boundaries
//
// This package owns credential and profile storage and nothing else. It does
// NOT perform network calls, refresh credentials, or make authentication
// decisions — those responsibilities belong to the refresh coordinator and
// the client.
//
// # What this package must NOT do
//
//   - Write the access credential to any durable backend.
//   - Surface malformed persisted data as an error (it reads as absent).
//   - Import goSession, transport, refresh, or guard (no upward imports).
package store
