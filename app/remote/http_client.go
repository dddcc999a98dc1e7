package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/lysyi3m/feed-cache/app/loader"
)

var _ Client = (*NetHTTPClient)(nil)

// NetHTTPClient implements Client on net/http. Each request runs on its own
// goroutine.
type NetHTTPClient struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func NewNetHTTPClient(httpClient *http.Client, userAgent string, timeout time.Duration) *NetHTTPClient {
	return &NetHTTPClient{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

func (c *NetHTTPClient) Get(u *url.URL, completion func(Response, error)) loader.Task {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)

	go func() {
		defer cancel()
		response, err := c.fetch(ctx, u)
		completion(response, err)
	}()

	return loader.TaskFunc(cancel)
}

func (c *NetHTTPClient) fetch(ctx context.Context, u *url.URL) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}

	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("failed to fetch %s: %w", u.Redacted(), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("failed to read response body: %w", err)
	}

	return Response{StatusCode: resp.StatusCode, Data: data}, nil
}
