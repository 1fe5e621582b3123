// Package submission posts booking requests to the marketplace API.
package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	commonhttp "booking-workers/internal/common/http"
	"booking-workers/internal/intake"
	"booking-workers/internal/models"
)

const bookingRequestsPath = "/api/booking-requests"

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Client implements intake.Submitter over HTTP.
type Client struct {
	baseURL string
	http    *commonhttp.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    commonhttp.NewClient(timeout),
	}
}

var _ intake.Submitter = (*Client)(nil)

// Submit posts payload. Non-2xx answers become *intake.RejectionError; a body
// without a readable "error" string becomes intake.ErrUnreadableRejection.
func (c *Client) Submit(ctx context.Context, payload models.BookingRequestPayload) error {
	res, err := c.http.PostJSON(ctx, c.baseURL+bookingRequestsPath, payload)
	if err != nil {
		return fmt.Errorf("post booking request: %w", err)
	}
	if res.IsSuccess() {
		return nil
	}

	var body errorBody
	if err := json.Unmarshal(res.Body, &body); err != nil || body.Error == "" {
		return fmt.Errorf("status %d: %w", res.StatusCode, intake.ErrUnreadableRejection)
	}
	return &intake.RejectionError{
		StatusCode: res.StatusCode,
		Message:    body.Error,
		Code:       body.Code,
	}
}
