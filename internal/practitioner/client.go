package practitioner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/upstream"
)

// Client fetches practitioner authorization flags from the practitioner
// registry. Transient registry failures are retried under the shared policy;
// a registry that stays down surfaces as a retryable error so the caller can
// park the case instead of blocking it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     upstream.Policy
	logger     *slog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, policy upstream.Policy, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		policy:     policy,
		logger:     logger,
	}
}

type flagsResponse struct {
	Suspended           bool `json:"suspended"`
	UnauthorizedStudent bool `json:"unauthorizedStudent"`
}

// Flags returns the blocking flags for the given practitioner. Unknown
// practitioners are treated as unflagged: the registry only tracks sanctions,
// absence from it is not a violation.
func (c *Client) Flags(ctx context.Context, practitionerID string) (Flags, error) {
	if practitionerID == "" {
		return Flags{}, nil
	}

	endpoint := fmt.Sprintf("%s/api/v1/practitioners/%s/flags", c.baseURL, url.PathEscape(practitionerID))

	var flags Flags
	err := upstream.Retry(ctx, c.policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "build practitioner registry request")
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return upstream.WrapTransport("practitioner registry", err)
		}
		defer upstream.Drain(resp)

		if resp.StatusCode == http.StatusNotFound {
			flags = Flags{}
			return nil
		}
		if err := upstream.ErrorFromStatus("practitioner registry", resp.StatusCode); err != nil {
			return err
		}

		var body flagsResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "decode practitioner registry response")
		}
		flags = Flags{Suspended: body.Suspended, UnauthorizedStudent: body.UnauthorizedStudent}
		return nil
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "practitioner registry lookup failed",
			"practitioner_id", practitionerID,
			"error", err,
		)
		return Flags{}, err
	}
	return flags, nil
}
