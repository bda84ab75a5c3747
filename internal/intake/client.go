package intake

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/carelight/claimsbridge/internal/result"
)

const defaultTimeout = 15 * time.Second

// Client is the HTTP implementation of Provider. The identifier is sent
// to the provider exactly as received, with no format validation.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
}

// upstreamError is the provider's own failure body, when it sends one.
type upstreamError struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
	Message string `json:"message"`
}

// GetIntake fetches one intake record. Business failures (not found,
// upstream rejection) come back as failure envelopes with a code;
// transport and decode problems map to CodeUnreachable.
func (c *Client) GetIntake(ctx context.Context, id string) result.Result[Record] {
	url := fmt.Sprintf("%s/intakes/%s", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result.Fail[Record](fmt.Sprintf("intake request build failed: %v", err), CodeUnreachable)
	}
	req.Header.Set("X-Auth-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return result.Fail[Record](fmt.Sprintf("intake provider unreachable: %v", err), CodeUnreachable)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return result.Fail[Record](fmt.Sprintf("intake response read failed: %v", err), CodeUnreachable)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return result.Fail[Record](fmt.Sprintf("intake %s not found", id), CodeNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return result.Fail[Record](upstreamMessage(body, resp.StatusCode), CodeUpstream)
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return result.Fail[Record](fmt.Sprintf("intake response decode failed: %v", err), CodeUnreachable)
	}

	return result.Ok(rec)
}

// upstreamMessage extracts the provider's error message when the body
// carries one, otherwise reports the status code.
func upstreamMessage(body []byte, status int) string {
	var ue upstreamError
	if err := json.Unmarshal(body, &ue); err == nil {
		if ue.Error.Message != "" {
			return ue.Error.Message
		}
		if ue.Message != "" {
			return ue.Message
		}
	}
	return fmt.Sprintf("intake provider returned status %d", status)
}
