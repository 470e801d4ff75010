package crawler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/temoto/robotstxt"
)

// loadRobots fetches robots.txt for the origin and returns the group that
// applies to the spider's User-Agent. It returns nil when robots.txt
// cannot be retrieved, which allows every path.
func (s *Spider) loadRobots(ctx context.Context, origin *url.URL) *robotstxt.Group {
	robotsURL := origin.Scheme + "://" + origin.Host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", s.userAgent)
	s.applyHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Debug("robots.txt unavailable", "url", robotsURL, "error", err)
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		s.logger.Debug("robots.txt unparseable", "url", robotsURL, "error", err)
		return nil
	}
	return data.FindGroup(s.userAgent)
}

// allowedByRobots reports whether group permits crawling rawURL.
func allowedByRobots(group *robotstxt.Group, rawURL string) bool {
	if group == nil {
		return true
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return group.Test(path)
}
