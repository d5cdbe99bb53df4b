package guard

import (
	"context"
	"errors"

	"github.com/MrEthical07/goSession/refresh"
	"github.com/MrEthical07/goSession/store"
)

// State defines a public type used by goSession APIs.
//
// State instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type State int

const (
	// StateChecking is an exported constant or variable used by the session client.
	StateChecking State = iota
	// StateAuthenticated is an exported constant or variable used by the session client.
	StateAuthenticated
	// StateUnauthenticated is an exported constant or variable used by the session client.
	StateUnauthenticated
)

func (s State) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Decision defines a public type used by goSession APIs.
//
// Decision instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Decision int

const (
	// DecisionAllow is an exported constant or variable used by the session client.
	DecisionAllow Decision = iota
	// DecisionRedirectLogin is an exported constant or variable used by the session client.
	DecisionRedirectLogin
	// DecisionRedirectChangePassword is an exported constant or variable used by the session client.
	DecisionRedirectChangePassword
	// DecisionRedirectHome is an exported constant or variable used by the session client.
	DecisionRedirectHome
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirectLogin:
		return "redirect_login"
	case DecisionRedirectChangePassword:
		return "redirect_change_password"
	case DecisionRedirectHome:
		return "redirect_home"
	default:
		return "unknown"
	}
}

// Refresher performs one coordinated refresh.
type Refresher interface {
	Do(ctx context.Context) (string, error)
}

// Routes names the redirect targets.
type Routes struct {
	Login          string
	Home           string
	ChangePassword string
}

// Config wires a Guard.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Store     *store.Store
	Refresher Refresher
	Routes    Routes
	// OnDecision, when set, observes every resolved evaluation. It must
	// not block.
	OnDecision func(route string, state State, decision Decision)
}

// Guard defines a public type used by goSession APIs.
//
// Guard instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Guard struct {
	store      *store.Store
	refresher  Refresher
	routes     Routes
	onDecision func(string, State, Decision)
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
func New(cfg Config) (*Guard, error) {
	if cfg.Store == nil {
		return nil, errors.New("guard: Store is required")
	}
	if cfg.Refresher == nil {
		return nil, errors.New("guard: Refresher is required")
	}
	return &Guard{
		store:      cfg.Store,
		refresher:  cfg.Refresher,
		routes:     cfg.Routes,
		onDecision: cfg.OnDecision,
	}, nil
}

// Authenticate resolves StateChecking to a final state. It never returns
// StateChecking.
func (g *Guard) Authenticate(ctx context.Context) State {
	if g.store.IsAuthenticated() {
		return StateAuthenticated
	}
	if !g.store.NeedsRefresh(ctx) {
		return StateUnauthenticated
	}

	_, err := g.refresher.Do(ctx)
	switch {
	case err == nil:
		return StateAuthenticated
	case errors.Is(err, refresh.ErrSessionExpired):
		return StateUnauthenticated
	default:
		// Transient refresh failure: the session may well still be valid,
		// so the user stays in. The next evaluation tries again.
		return StateAuthenticated
	}
}

// Evaluate decides whether the caller may render the given protected
// route. It never returns an error.
func (g *Guard) Evaluate(ctx context.Context, route string) Decision {
	state := g.Authenticate(ctx)
	decision := g.protectedDecision(ctx, state, route)
	if g.onDecision != nil {
		g.onDecision(route, state, decision)
	}
	return decision
}

func (g *Guard) protectedDecision(ctx context.Context, state State, route string) Decision {
	if state != StateAuthenticated {
		return DecisionRedirectLogin
	}
	mustChange := g.store.MustChangePassword(ctx)
	if mustChange && route != g.routes.ChangePassword {
		return DecisionRedirectChangePassword
	}
	if !mustChange && route == g.routes.ChangePassword {
		// The forced-change page is only reachable while the flag is set.
		return DecisionRedirectHome
	}
	return DecisionAllow
}

// EvaluateGuest decides whether the caller may render a guest-only route
// such as the login page: authenticated users are sent away.
func (g *Guard) EvaluateGuest(ctx context.Context) Decision {
	state := g.Authenticate(ctx)
	decision := DecisionAllow
	if state == StateAuthenticated {
		if g.store.MustChangePassword(ctx) {
			decision = DecisionRedirectChangePassword
		} else {
			decision = DecisionRedirectHome
		}
	}
	if g.onDecision != nil {
		g.onDecision(g.routes.Login, state, decision)
	}
	return decision
}
