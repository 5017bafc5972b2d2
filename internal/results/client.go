package results

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bichocore/settler/internal/domain"
)

// Client fetches raw result pages from the upstream publisher. The
// endpoint is a form-encoded POST keyed by lottery code and ISO date;
// results older than the free visitor window need a session cookie.
type Client struct {
	baseURL      string
	sessionToken string
	httpClient   *http.Client
}

// NewClient creates an upstream result client.
//
// baseURL is the publisher's result endpoint root. sessionToken is the
// optional PHPSESSID value for historical access; empty disables it.
func NewClient(baseURL, sessionToken string) *Client {
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		sessionToken: sessionToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchRaw posts for one (lottery code, ISO date) pair and returns the
// raw body. The two known negative responses come back as typed errors
// instead of being parsed.
func (c *Client) FetchRaw(ctx context.Context, code, isoDate string) ([]byte, error) {
	form := url.Values{}
	form.Set("l", code)
	form.Set("d", isoDate)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("results: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; Settler/1.0)")
	if c.sessionToken != "" {
		req.AddCookie(&http.Cookie{Name: "PHPSESSID", Value: c.sessionToken})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("results: fetch %s/%s: %w", code, isoDate, domain.ErrUpstreamTimeout)
		}
		var uerr *url.Error
		if errors.As(err, &uerr) && uerr.Timeout() {
			return nil, fmt.Errorf("results: fetch %s/%s: %w", code, isoDate, domain.ErrUpstreamTimeout)
		}
		return nil, fmt.Errorf("results: fetch %s/%s: %w", code, isoDate, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("results: fetch %s/%s: unexpected status %d", code, isoDate, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("results: read body: %w", err)
	}

	text := string(body)
	if strings.Contains(text, "Sem resultados para esta data") {
		return nil, fmt.Errorf("results: %s/%s: %w", code, isoDate, domain.ErrUpstreamNoResults)
	}
	if strings.Contains(text, "Só é possível visualizar resultados dos últimos") {
		return nil, fmt.Errorf("results: %s/%s: %w", code, isoDate, domain.ErrUpstreamDateTooOld)
	}
	return body, nil
}
