package access

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync/atomic"

	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/circuit"
	"caseflow/pkg/platform/upstream"
)

// Decider answers whether an actor may touch a subject's case data.
// A nil error means permit; CodeForbidden means deny; anything else is a
// failure the gate treats as deny.
type Decider interface {
	Check(ctx context.Context, actorID id.ActorID, subjectID id.SubjectID, superuser bool) error
}

// AuthzClient checks actor access against the authorization service. A
// circuit breaker fails calls fast while the service is down so the gate can
// deny closed without paying a timeout per request. While open, one probe
// request at a time is let through so the circuit can close again.
type AuthzClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *circuit.Breaker
	probing    atomic.Bool
	logger     *slog.Logger
}

func NewAuthzClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *AuthzClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &AuthzClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		breaker:    circuit.New("authz"),
		logger:     logger,
	}
}

func (c *AuthzClient) Check(ctx context.Context, actorID id.ActorID, subjectID id.SubjectID, superuser bool) error {
	if c.breaker.IsOpen() {
		if !c.probing.CompareAndSwap(false, true) {
			return dErrors.New(dErrors.CodeUnavailable, "authorization service circuit open")
		}
		defer c.probing.Store(false)
	}

	path := "/api/v1/access/subject"
	if superuser {
		path = "/api/v1/access/subject/extended"
	}
	endpoint := fmt.Sprintf("%s%s?subject=%s", c.baseURL, path, url.QueryEscape(string(subjectID)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build authorization request")
	}
	req.Header.Set("X-Actor-Id", string(actorID))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFailure(ctx)
		return upstream.WrapTransport("authorization service", err)
	}
	defer upstream.Drain(resp)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.recordSuccess(ctx)
		return nil
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		// A definitive deny is a healthy response from the service.
		c.recordSuccess(ctx)
		return dErrors.New(dErrors.CodeForbidden, "actor not authorized for subject")
	default:
		c.recordFailure(ctx)
		return dErrors.Newf(dErrors.CodeUnavailable, "authorization service responded with status %d", resp.StatusCode)
	}
}

func (c *AuthzClient) recordFailure(ctx context.Context) {
	if _, change := c.breaker.RecordFailure(); change.Opened {
		c.logger.ErrorContext(ctx, "authorization service circuit opened")
	}
}

func (c *AuthzClient) recordSuccess(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed {
		c.logger.InfoContext(ctx, "authorization service circuit closed")
	}
}
