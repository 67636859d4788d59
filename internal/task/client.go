// Package task talks to the agency task queue that tracks the manual
// processing item opened for each ingested certificate. The queue guards
// writes with an optimistic version: every patch must carry the version it
// read, and a stale version answers 409.
package task

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	id "caseflow/pkg/domain"
	dErrors "caseflow/pkg/domain-errors"
	"caseflow/pkg/platform/upstream"
)

// Status of a queue item.
type Status string

const (
	StatusOpened    Status = "opened"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether the item is already closed upstream.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Item is the queue's view of the processing task for one case.
type Item struct {
	ID      string    `json:"id"`
	CaseID  id.CaseID `json:"caseId"`
	Status  Status    `json:"status"`
	Version int       `json:"version"`
}

type patchRequest struct {
	Status  Status `json:"status"`
	Version int    `json:"version"`
	Comment string `json:"comment,omitempty"`
}

// Client wraps the task queue HTTP API with the shared failure taxonomy.
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
	return &Client{baseURL: baseURL, httpClient: httpClient, policy: policy, logger: logger}
}

// Get fetches the item with its current version and status.
func (c *Client) Get(ctx context.Context, taskID string) (Item, error) {
	endpoint := fmt.Sprintf("%s/api/v1/tasks/%s", c.baseURL, url.PathEscape(taskID))

	var item Item
	err := upstream.Retry(ctx, c.policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "build task queue request")
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return upstream.WrapTransport("task queue", err)
		}
		defer upstream.Drain(resp)

		if err := upstream.ErrorFromStatus("task queue", resp.StatusCode); err != nil {
			return err
		}
		if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
			return dErrors.Wrap(err, dErrors.CodeUnavailable, "decode task queue item")
		}
		return nil
	})
	if err != nil {
		return Item{}, err
	}
	return item, nil
}

// Finalize completes the item, carrying the version the caller read. A
// version raced by another writer answers 409, surfaced as a conflict.
func (c *Client) Finalize(ctx context.Context, item Item) error {
	return c.patch(ctx, item.ID, patchRequest{Status: StatusCompleted, Version: item.Version})
}

// Reject cancels the item with the rejection reason as a comment.
func (c *Client) Reject(ctx context.Context, item Item, reason string) error {
	return c.patch(ctx, item.ID, patchRequest{Status: StatusCancelled, Version: item.Version, Comment: reason})
}

func (c *Client) patch(ctx context.Context, taskID string, payload patchRequest) error {
	endpoint := fmt.Sprintf("%s/api/v1/tasks/%s", c.baseURL, url.PathEscape(taskID))

	body, err := json.Marshal(payload)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "marshal task queue patch")
	}

	return upstream.Retry(ctx, c.policy, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPatch, endpoint, bytes.NewReader(body))
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "build task queue request")
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return upstream.WrapTransport("task queue", err)
		}
		defer upstream.Drain(resp)
		return upstream.ErrorFromStatus("task queue", resp.StatusCode)
	})
}
