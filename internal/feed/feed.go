package feed

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"property-sync/internal/httpx"
)

// Client fetches raw feed documents, working through an ordered list of
// relay proxies. The upstream API sits behind strict origin checks, so the
// original consumers reach it via public CORS relays; we keep the same
// rotation so a dead relay (or a direct block) degrades to the next one
// instead of failing the load.
type Client struct {
	HTTP *http.Client

	// Proxies are URL prefixes tried in order; "" means fetch directly.
	// A prefix ending in "=" gets the escaped target appended, anything
	// else gets the raw URL concatenated.
	Proxies []string

	// Timeout bounds each proxy attempt.
	Timeout time.Duration

	Retry httpx.RetryConfig
}

func NewClient(proxies []string, timeout time.Duration) *Client {
	if len(proxies) == 0 {
		proxies = []string{""}
	}
	if timeout <= 0 {
		timeout = 12 * time.Second
	}
	return &Client{
		HTTP:    &http.Client{Timeout: timeout + 3*time.Second},
		Proxies: proxies,
		Timeout: timeout,
		Retry:   httpx.DefaultRetryConfig(),
	}
}

// FetchRaw retrieves the feed document, advancing through the proxy list on
// error or timeout. Only when every candidate fails does it return an
// error; callers can then tell a failed load apart from a legitimately
// empty feed.
func (c *Client) FetchRaw(ctx context.Context, feedURL string) ([]byte, error) {
	var lastErr error
	for _, proxy := range c.Proxies {
		attemptCtx, cancel := context.WithTimeout(ctx, c.Timeout)
		body, err := c.fetchOnce(attemptCtx, proxied(proxy, feedURL))
		cancel()
		if err == nil {
			return body, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("feed: all %d fetch routes failed: %w", len(c.Proxies), lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, fetchURL string) ([]byte, error) {
	buildReq := func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/xml, text/xml")
		req.Header.Set("Accept-Encoding", "gzip, br")
		return req, nil
	}
	_, body, err := httpx.DoWithRetry(ctx, c.HTTP, buildReq, c.Retry)
	return body, err
}

// proxied builds the relayed URL for one proxy prefix.
func proxied(prefix, target string) string {
	if prefix == "" {
		return target
	}
	if strings.HasSuffix(prefix, "=") {
		return prefix + url.QueryEscape(target)
	}
	return prefix + target
}
