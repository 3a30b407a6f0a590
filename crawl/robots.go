package crawl

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// fetchRobots loads robots.txt for the start URL's host and returns the
// group that applies to userAgent.
func fetchRobots(ctx context.Context, client *http.Client, start *url.URL, userAgent string) (*robotstxt.Group, error) {
	robotsURL := (&url.URL{Scheme: start.Scheme, Host: start.Host, Path: "/robots.txt"}).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating robots.txt request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching robots.txt: %w", err)
	}
	data, err := robotstxt.FromResponse(resp)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("parsing robots.txt: %w", err)
	}
	return data.FindGroup(userAgent), nil
}
