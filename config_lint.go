package goSession

import (
	"fmt"
	"strings"
	"time"
)

// LintSeverity defines a public type used by goSession APIs.
//
// LintSeverity instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LintSeverity int

const (
	// LintInfo is an exported constant or variable used by the session client.
	LintInfo LintSeverity = iota
	// LintMedium is an exported constant or variable used by the session client.
	LintMedium
	// LintHigh is an exported constant or variable used by the session client.
	LintHigh
)

// String describes the string operation and its observable behavior.
//
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s LintSeverity) String() string {
	switch s {
	case LintInfo:
		return "INFO"
	case LintMedium:
		return "MEDIUM"
	case LintHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// LintWarning defines a public type used by goSession APIs.
//
// LintWarning instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Message  string
}

// LintWarnings defines a public type used by goSession APIs.
//
// LintWarnings instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LintWarnings []LintWarning

// Codes describes the codes operation and its observable behavior.
//
// Codes does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (ws LintWarnings) Codes() []string {
	codes := make([]string, 0, len(ws))
	for _, w := range ws {
		codes = append(codes, w.Code)
	}
	return codes
}

// BySeverity describes the byseverity operation and its observable behavior.
//
// BySeverity does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (ws LintWarnings) BySeverity(min LintSeverity) LintWarnings {
	out := make(LintWarnings, 0, len(ws))
	for _, w := range ws {
		if w.Severity >= min {
			out = append(out, w)
		}
	}
	return out
}

// AsError describes the aserror operation and its observable behavior.
//
// AsError may return an error when input validation, dependency calls, or security checks fail.
func (ws LintWarnings) AsError(min LintSeverity) error {
	offending := ws.BySeverity(min)
	if len(offending) == 0 {
		return nil
	}
	codes := offending.Codes()
	return fmt.Errorf("config lint: %d warning(s) at or above %s: %s", len(codes), min, strings.Join(codes, ", "))
}

// Lint reports non-fatal configuration smells. It never replaces Validate:
// a config can pass Validate and still carry settings that degrade the
// client in production.
func (c *Config) Lint() LintWarnings {
	var ws LintWarnings

	if c.API.RequestTimeout == 0 {
		ws = append(ws, LintWarning{
			Code:     "request_timeout_unbounded",
			Severity: LintHigh,
			Message:  "API.RequestTimeout of zero lets a stuck backend hold callers forever",
		})
	} else if c.API.RequestTimeout < time.Second {
		ws = append(ws, LintWarning{
			Code:     "request_timeout_short",
			Severity: LintMedium,
			Message:  "API.RequestTimeout under one second will abort slow but healthy requests",
		})
	}

	if c.API.RequestTimeout > 0 && c.Refresh.Timeout > c.API.RequestTimeout {
		ws = append(ws, LintWarning{
			Code:     "refresh_timeout_exceeds_request",
			Severity: LintMedium,
			Message:  "Refresh.Timeout above API.RequestTimeout makes blocked callers wait longer than their own deadline",
		})
	}

	if !strings.HasPrefix(strings.ToLower(c.API.BaseURL), "https://") {
		ws = append(ws, LintWarning{
			Code:     "base_url_not_https",
			Severity: LintHigh,
			Message:  "credentials travel over this connection; use an https base URL",
		})
	}

	if !c.Audit.Enabled {
		ws = append(ws, LintWarning{
			Code:     "audit_disabled",
			Severity: LintInfo,
			Message:  "audit trail is off; session events will not be recorded",
		})
	}
	if c.Audit.Enabled && !c.Audit.DropIfFull && c.Audit.BufferSize < 16 {
		ws = append(ws, LintWarning{
			Code:     "audit_blocking_small_buffer",
			Severity: LintMedium,
			Message:  "a blocking audit queue this small will stall auth operations under a slow sink",
		})
	}

	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		ws = append(ws, LintWarning{
			Code:     "histograms_without_metrics",
			Severity: LintInfo,
			Message:  "latency histograms have no effect while metrics are disabled",
		})
	}

	return ws
}
