// Package archive talks to the document archive holding the scanned
// certificate. The archive owns the document lifecycle; this client only
// updates metadata and drives the record to its terminal state.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/sentinel"
	"caseflow/pkg/platform/upstream"
)

// Status is the archive record lifecycle state.
type Status string

const (
	StatusReceived  Status = "received"
	StatusUnderWork Status = "under_work"
	StatusFinalized Status = "finalized"
)

// Terminal reports whether the record can no longer be mutated upstream.
func (s Status) Terminal() bool { return s == StatusFinalized }

type Document struct {
	ID    id.DocumentID `json:"id"`
	Title string        `json:"title"`
}

// Record is the archive's view of one certificate.
type Record struct {
	ID        id.ArchiveID `json:"id"`
	Status    Status       `json:"status"`
	Title     string       `json:"title"`
	Documents []Document   `json:"documents"`
}

// Update carries the metadata written before finalization.
type Update struct {
	Title     string       `json:"title"`
	SubjectID id.SubjectID `json:"subjectId"`
	CaseID    id.CaseID    `json:"caseId"`
}

// Client wraps the archive HTTP API with the shared failure taxonomy.
// Metadata updates rejected with 400 for case ids on the configured skip
// list are logged and swallowed; those records were hand-patched in the
// archive and a re-update will always be refused.
type Client struct {
	baseURL    string
	httpClient *http.Client
	policy     upstream.Policy
	skip400    map[id.CaseID]bool
	logger     *slog.Logger
}

func NewClient(baseURL string, httpClient *http.Client, policy upstream.Policy, skip400CaseIDs []string, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	skip := make(map[id.CaseID]bool, len(skip400CaseIDs))
	for _, raw := range skip400CaseIDs {
		skip[id.CaseID(raw)] = true
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		policy:     policy,
		skip400:    skip,
		logger:     logger,
	}
}

// Get fetches the record's lifecycle status and document list.
func (c *Client) Get(ctx context.Context, archiveID id.ArchiveID) (Record, error) {
	endpoint := fmt.Sprintf("%s/api/v1/records/%s", c.baseURL, url.PathEscape(string(archiveID)))

	var record Record
	err := upstream.Retry(ctx, c.policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "build archive request")
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return upstream.WrapTransport("archive", err)
		}
		defer upstream.Drain(resp)

		if err := upstream.ErrorFromStatus("archive", resp.StatusCode); err != nil {
			return err
		}
		if err := json.NewDecoder(resp.Body).Decode(&record); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "decode archive record")
		}
		return nil
	})
	if err != nil {
		return Record{}, err
	}
	return record, nil
}

// UpdateMetadata writes subject and title metadata onto the record.
func (c *Client) UpdateMetadata(ctx context.Context, caseID id.CaseID, archiveID id.ArchiveID, update Update) error {
	endpoint := fmt.Sprintf("%s/api/v1/records/%s", c.baseURL, url.PathEscape(string(archiveID)))

	err := c.send(ctx, http.MethodPut, endpoint, update)
	if dErrors.HasCode(err, dErrors.CodeUpstreamClient) && c.skip400[caseID] {
		c.logger.WarnContext(ctx, "archive rejected metadata update for allow-listed case, continuing",
			"case_id", caseID,
			"archive_id", archiveID,
			"error", err,
		)
		return nil
	}
	return err
}

// Finalize moves the record to its terminal state. An already-finalized
// record answers 409; translated to ErrAlreadyFinalized since terminality is
// the only thing this endpoint conflicts on.
func (c *Client) Finalize(ctx context.Context, archiveID id.ArchiveID) error {
	endpoint := fmt.Sprintf("%s/api/v1/records/%s/finalize", c.baseURL, url.PathEscape(string(archiveID)))
	err := c.send(ctx, http.MethodPost, endpoint, nil)
	if errors.Is(err, sentinel.ErrConflict) {
		return fmt.Errorf("archive record %s: %w", archiveID, sentinel.ErrAlreadyFinalized)
	}
	return err
}

// Reject titles the record as rejected. The record stays open so the
// submitter's correction can land on it; rejection never finalizes.
func (c *Client) Reject(ctx context.Context, archiveID id.ArchiveID, reason string) error {
	endpoint := fmt.Sprintf("%s/api/v1/records/%s", c.baseURL, url.PathEscape(string(archiveID)))
	payload := map[string]string{"title": "Avvist: " + reason}
	return c.send(ctx, http.MethodPatch, endpoint, payload)
}

func (c *Client) send(ctx context.Context, method, endpoint string, payload any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "marshal archive payload")
		}
	}

	return upstream.Retry(ctx, c.policy, func() error {
		req, err := http.NewRequestWithContext(ctx, method, endpoint, bytes.NewReader(body))
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "build archive request")
		}
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return upstream.WrapTransport("archive", err)
		}
		defer upstream.Drain(resp)
		return upstream.ErrorFromStatus("archive", resp.StatusCode)
	})
}
