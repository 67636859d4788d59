// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// This package defines context keys and getter/setter functions for values
// that are typically set by middleware but consumed by services. By keeping
// this package free of net/http dependencies, services and the Kafka listener
// can import only what they need without pulling in HTTP-related code.
//
// Usage in services (read values):
//
//	actor := requestcontext.Actor(ctx)
//	requestID := requestcontext.RequestID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithActor(ctx, actor)
//	ctx = requestcontext.WithRequestID(ctx, requestID)
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"

	id "caseflow/pkg/domain"
)

// Context key types (unexported for encapsulation).
type (
	actorKey       struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
	requestPathKey struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyActor       = actorKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeyRequestPath = requestPathKey{}
)

// Actor retrieves the authenticated caseworker ident from the context.
// Returns the zero value if not set.
func Actor(ctx context.Context) id.ActorID {
	if actor, ok := ctx.Value(ContextKeyActor).(id.ActorID); ok {
		return actor
	}
	return ""
}

// WithActor injects a caseworker ident into the context.
func WithActor(ctx context.Context, actor id.ActorID) context.Context {
	return context.WithValue(ctx, ContextKeyActor, actor)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestPath retrieves the originating request path, recorded for audit
// entries emitted below the transport layer.
func RequestPath(ctx context.Context) string {
	if path, ok := ctx.Value(ContextKeyRequestPath).(string); ok {
		return path
	}
	return ""
}

// WithRequestPath injects the originating request path into the context.
func WithRequestPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestPath, path)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (for non-HTTP contexts like the
// ingestion listener and tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests that don't run the full HTTP middleware chain, and for the listener
// which pins one timestamp per consumed record.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
