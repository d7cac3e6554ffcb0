// Package ingest pulls advertiser and promotion-link data from the CJ
// affiliate-network XML APIs and upserts it into the local document store.
// It is the upstream producer for the cleaning pipeline: partially-synced
// data (missing geo fields, absent names) is a normal outcome here and the
// cleaner is built to tolerate it.
package ingest

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	advertiserLookupEndpoint = "https://advertiser-lookup.api.cj.com/v2/advertiser-lookup"
	linkSearchEndpoint       = "https://link-search.api.cj.com/v2/link-search"

	defaultPageSize = 100
	defaultMaxPages = 50
)

// Client talks to the CJ APIs with retry/backoff on transport errors and
// rate limits.
type Client struct {
	RequestorCID string // CJ company id, advertiser lookup only
	Token        string // personal access token
	WebsiteID    string // PID, link search only

	PageSize int
	MaxPages int

	advertiserLookupURL string
	linkSearchURL       string

	http *retryablehttp.Client
}

func NewClient(cid, token, websiteID string) *Client {
	rc := retryablehttp.NewClient()
	rc.Logger = stdlog.New(io.Discard, "", 0)
	rc.RetryMax = 8
	rc.RetryWaitMax = 30 * time.Second

	return &Client{
		RequestorCID: cid,
		Token:        token,
		WebsiteID:    websiteID,
		PageSize:     defaultPageSize,
		MaxPages:     defaultMaxPages,

		advertiserLookupURL: advertiserLookupEndpoint,
		linkSearchURL:       linkSearchEndpoint,

		http: rc,
	}
}

// fetchXML performs one authenticated GET and returns the raw body. Non-2xx
// responses after retries are an upstream failure; the body snippet is kept
// for the operator.
func (c *Client) fetchXML(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cj api returned %d: %s", resp.StatusCode, snippet(body, 500))
	}
	return body, nil
}

func snippet(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

func nowISO() string {
	return time.Now().UTC().Format(time.RFC3339)
}
