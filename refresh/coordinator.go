package refresh

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
)

// ErrSessionExpired is an exported sentinel error returned by goSession APIs to signal a specific failure condition.
// It means the refresh credential was rejected outright; the session is over
// and the store has already been cleared.
var ErrSessionExpired = errors.New("refresh: session expired")

// ErrRefreshUnavailable is an exported sentinel error returned by goSession APIs to signal a specific failure condition.
// It wraps a transient failure (network error, timeout, 5xx); the session
// state is preserved and a later attempt may succeed.
var ErrRefreshUnavailable = errors.New("refresh: temporarily unavailable")

// StatusError reports a non-2xx answer from the refresh endpoint. The
// injected Func returns it so the coordinator can classify the failure.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return "refresh: endpoint returned status " + strconv.Itoa(e.StatusCode)
}

// Credentials is the successful result of one refresh call. Refresh is
// empty unless the endpoint rotated the refresh credential in the body.
type Credentials struct {
	Access  string
	Refresh string
}

// Func performs one refresh network call. Implementations return a
// *StatusError for non-2xx answers and any other error for transport
// failures.
type Func func(ctx context.Context) (Credentials, error)

// CredentialWriter is the slice of the credential store the coordinator
// needs: install refreshed credentials, or clear everything on a terminal
// failure.
type CredentialWriter interface {
	UpdateCredentials(access, refresh string)
	Clear(ctx context.Context) error
}

// Kind labels the outcome of one refresh cycle.
type Kind int

const (
	// KindSuccess is an exported constant or variable used by the session client.
	KindSuccess Kind = iota
	// KindTerminal is an exported constant or variable used by the session client.
	KindTerminal
	// KindTransient is an exported constant or variable used by the session client.
	KindTransient
)

// Outcome describes one completed refresh cycle for observers: its
// classification, the error (nil on success), and how many queued waiters
// shared the result.
type Outcome struct {
	Kind    Kind
	Err     error
	Waiters int
}

// Config wires a Coordinator.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Fn    Func
	Store CredentialWriter
	// OnOutcome, when set, is called once per refresh cycle by the leader
	// after the store has been updated. It must not block.
	OnOutcome func(Outcome)
}

// Coordinator enforces the single-flight refresh invariant.
//
// Coordinator instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Coordinator struct {
	fn        Func
	store     CredentialWriter
	onOutcome func(Outcome)

	mu         sync.Mutex
	refreshing bool
	waiters    []chan result
}

type result struct {
	access string
	err    error
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
func New(cfg Config) (*Coordinator, error) {
	if cfg.Fn == nil {
		return nil, errors.New("refresh: Fn is required")
	}
	if cfg.Store == nil {
		return nil, errors.New("refresh: Store is required")
	}
	return &Coordinator{fn: cfg.Fn, store: cfg.Store, onOutcome: cfg.OnOutcome}, nil
}

// Do returns a fresh access credential, dispatching at most one network
// call regardless of how many goroutines ask concurrently. Joiners block
// until the in-flight cycle resolves; a joiner's context cancellation
// releases that joiner only, never the shared cycle.
func (c *Coordinator) Do(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.refreshing {
		w := make(chan result, 1)
		c.waiters = append(c.waiters, w)
		c.mu.Unlock()
		select {
		case r := <-w:
			return r.access, r.err
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	// The flag flips inside the same critical section that observed it
	// clear, so two callers can never both become the leader.
	c.refreshing = true
	c.mu.Unlock()

	r := c.runCycle(ctx)

	c.mu.Lock()
	waiters := c.waiters
	c.waiters = nil
	c.refreshing = false
	c.mu.Unlock()

	// FIFO: waiters were appended in arrival order. Channels are buffered,
	// so an abandoned waiter cannot stall the rest of the queue.
	for _, w := range waiters {
		w <- r
	}
	if c.onOutcome != nil {
		c.onOutcome(Outcome{Kind: classify(r.err), Err: r.err, Waiters: len(waiters)})
	}
	return r.access, r.err
}

// runCycle performs one refresh and settles the store before anyone is
// woken. Terminal rejections clear the store even when the leader's
// context has already been canceled.
func (c *Coordinator) runCycle(ctx context.Context) result {
	creds, err := c.fn(ctx)
	if err == nil {
		c.store.UpdateCredentials(creds.Access, creds.Refresh)
		return result{access: creds.Access}
	}
	var status *StatusError
	if errors.As(err, &status) && (status.StatusCode == 401 || status.StatusCode == 403) {
		if cerr := c.store.Clear(context.WithoutCancel(ctx)); cerr != nil {
			log.Print("goSession: clearing store after terminal refresh failure: ", cerr)
		}
		return result{err: fmt.Errorf("%w: %w", ErrSessionExpired, err)}
	}
	return result{err: fmt.Errorf("%w: %w", ErrRefreshUnavailable, err)}
}

func classify(err error) Kind {
	switch {
	case err == nil:
		return KindSuccess
	case errors.Is(err, ErrSessionExpired):
		return KindTerminal
	default:
		return KindTransient
	}
}
