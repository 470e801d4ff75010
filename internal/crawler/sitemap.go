package crawler

import (
	"context"
	"encoding/xml"
	"errors"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/nao1215/linkweave/internal/model"
)

// FetchSitemap downloads a sitemap and returns every <loc> value in
// document order. Both urlset and sitemapindex documents are accepted;
// nested sitemaps are returned as plain entries, not followed.
//
// A transport failure or non-2xx status yields a *model.FetchError.
// A document without any <loc> entry yields a *model.ParseError.
func (s *Spider) FetchSitemap(ctx context.Context, sitemapURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sitemapURL, nil)
	if err != nil {
		return nil, &model.FetchError{URL: sitemapURL, Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/xml,text/xml;q=0.9,*/*;q=0.8")
	s.applyHeaders(req)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &model.FetchError{URL: sitemapURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &model.FetchError{URL: sitemapURL, StatusCode: resp.StatusCode}
	}

	locs, err := parseSitemap(io.LimitReader(resp.Body, s.maxBodySize))
	if len(locs) == 0 {
		return nil, &model.ParseError{URL: sitemapURL, Message: "no pages found", Err: err}
	}
	if err != nil {
		s.logger.Warn("sitemap is malformed, using entries read so far",
			"url", sitemapURL,
			"entries", len(locs),
			"error", err,
		)
	}

	return locs, nil
}

// parseSitemap collects the text of every <loc> element. Entries read
// before a syntax error are returned together with the error.
func parseSitemap(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)
	decoder.Strict = false
	decoder.CharsetReader = charset.NewReaderLabel

	locs := make([]string, 0)
	var (
		inLoc bool
		text  strings.Builder
	)

	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return locs, nil
		}
		if err != nil {
			return locs, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if strings.EqualFold(t.Name.Local, "loc") {
				inLoc = true
				text.Reset()
			}
		case xml.CharData:
			if inLoc {
				text.Write(t)
			}
		case xml.EndElement:
			if inLoc && strings.EqualFold(t.Name.Local, "loc") {
				inLoc = false
				if loc := strings.TrimSpace(text.String()); loc != "" {
					locs = append(locs, loc)
				}
			}
		}
	}
}
