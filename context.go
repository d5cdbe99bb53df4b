package goSession

import "context"

type routeContextKey struct{}
type requestIDContextKey struct{}

// WithRoute attaches the caller's current UI route to ctx. The client uses
// it for audit logging and to override the tracked route when deciding
// whether a 401 may trigger a refresh.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeContextKey{}, route)
}

// WithRequestID attaches a caller-chosen request identifier to ctx. When
// absent, the gateway generates one per outbound request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

func routeFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	route, _ := ctx.Value(routeContextKey{}).(string)
	return route
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
