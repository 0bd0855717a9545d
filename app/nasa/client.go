// Package nasa is a single-attempt client for the NASA NeoWs REST API.
package nasa

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lysyi3m/neo-comb/app/metrics"
	"github.com/lysyi3m/neo-comb/app/neo"
)

const (
	DefaultBaseURL = "https://api.nasa.gov"
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 20 << 20

	feedPath   = "/neo/rest/v1/feed"
	objectPath = "/neo/rest/v1/neo/"
)

type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	parser     *neo.Parser
}

func NewClient(baseURL, apiKey string, timeout time.Duration, userAgent string) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:   strings.TrimRight(cmp.Or(baseURL, DefaultBaseURL), "/"),
		apiKey:    apiKey,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		parser: neo.NewParser(),
	}
}

// FetchFeed returns the per-date map of objects approaching between start
// and end (YYYY-MM-DD, inclusive).
func (c *Client) FetchFeed(ctx context.Context, start, end string) (neo.DateMap, error) {
	params := url.Values{}
	params.Set("start_date", start)
	params.Set("end_date", end)

	body, err := c.get(ctx, "feed", feedPath, params)
	if err != nil {
		return nil, err
	}

	feed, err := c.parser.Run(body)
	if err != nil {
		return nil, &FetchError{Message: fallbackErrorMessage, Err: err}
	}
	return feed, nil
}

// FetchDetails looks up a single object by id.
func (c *Client) FetchDetails(ctx context.Context, id string) (neo.Summary, error) {
	body, err := c.get(ctx, "object", objectPath+url.PathEscape(id), url.Values{})
	if err != nil {
		return neo.Summary{}, err
	}

	obj, err := c.parser.RunObject(body)
	if err != nil {
		return neo.Summary{}, &FetchError{Message: fallbackErrorMessage, Err: err}
	}
	return obj, nil
}

func (c *Client) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	params.Set("api_key", c.apiKey)
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, &FetchError{Message: fallbackErrorMessage, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	body, err := c.do(req)
	metrics.ObserveUpstream(endpoint, outcome(err), time.Since(start))

	return body, err
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, transportError(err)
	}
	if len(body) > maxBodyBytes {
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("response exceeds %d byte limit", maxBodyBytes),
		}
	}

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{Message: authErrorMessage}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &RateLimitError{Message: rateLimitErrorMessage}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &FetchError{
			StatusCode: resp.StatusCode,
			Message:    cmp.Or(upstreamMessage(body), fallbackErrorMessage),
		}
	}

	return body, nil
}

func transportError(err error) *FetchError {
	fe := &FetchError{Message: fallbackErrorMessage, Err: err}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		fe.Timeout = true
		fe.Message = "Request to NASA API timed out"
	}
	return fe
}

// upstreamMessage extracts the human-readable message NeoWs and the
// api.nasa.gov gateway put in error bodies.
func upstreamMessage(body []byte) string {
	var payload struct {
		Error        json.RawMessage `json:"error"`
		ErrorMessage string          `json:"error_message"`
		Msg          string          `json:"msg"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	var nested string
	if len(payload.Error) > 0 {
		var obj struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload.Error, &obj); err == nil {
			nested = obj.Message
		} else {
			_ = json.Unmarshal(payload.Error, &nested)
		}
	}
	return strings.TrimSpace(cmp.Or(nested, payload.ErrorMessage, payload.Msg))
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeOK
	}

	var authErr *AuthError
	var rateErr *RateLimitError
	var fetchErr *FetchError
	switch {
	case errors.As(err, &authErr):
		return metrics.OutcomeAuth
	case errors.As(err, &rateErr):
		return metrics.OutcomeRateLimit
	case errors.As(err, &fetchErr) && fetchErr.Timeout:
		return metrics.OutcomeTimeout
	default:
		return metrics.OutcomeError
	}
}
