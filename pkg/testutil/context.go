package testutil

import (
	"net/http"

	id "caseflow/pkg/domain"
	"caseflow/pkg/requestcontext"
)

// WithActor stamps the request context with an authenticated caseworker
// ident. This simulates what the auth middleware does, so handler tests can
// run without a real bearer token.
func WithActor(req *http.Request, actorID string) *http.Request {
	actor, err := id.ParseActorID(actorID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}

// WithRequestID stamps the request context with a request id, as the
// request-metadata middleware would.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
