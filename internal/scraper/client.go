package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	DefaultFeedURL = "https://ctxlivetheatre.com/rss/all/"
	UserAgent      = "ctx-theatre-browser/1.0 (github.com/gordoncheme/ctx-theatre-browser)"
	Timeout        = 30 * time.Second
	RetryWait      = 500 * time.Millisecond
)

// ErrStatus is returned when a page answers with a non-200 status
var ErrStatus = errors.New("unexpected status code")

// Options configures a Client. Zero values fall back to the package defaults.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	Retries   int
}

// Client fetches feed and detail pages over HTTP
type Client struct {
	http *resty.Client
}

// NewClient creates a new Client
func NewClient(opts Options) *Client {
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = Timeout
	}

	client := resty.New()
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)
	if opts.Retries > 0 {
		client.SetRetryCount(opts.Retries)
		client.SetRetryWaitTime(RetryWait)
		client.AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	}

	return &Client{http: client}
}

// Fetch returns the body of url. Any status other than 200 is an error
// wrapping ErrStatus.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %w: %d", url, ErrStatus, resp.StatusCode())
	}
	return resp.Body(), nil
}
