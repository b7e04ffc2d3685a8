// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/paper-rag/pkg/types"
)

// arxivAPIBase is the arXiv query endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivFeed fetches recently submitted papers from the arXiv API.
type ArxivFeed struct {
	client    *http.Client
	userAgent string
	// now is stubbed in tests for a stable days-back cutoff.
	now func() time.Time
}

// NewArxivFeed builds a feed client from cfg.
func NewArxivFeed(cfg types.FeedConfig) *ArxivFeed {
	return &ArxivFeed{
		client:    &http.Client{Timeout: cfg.Timeout},
		userAgent: cfg.UserAgent,
		now:       time.Now,
	}
}

// Fetch returns the newest submissions in the given categories, newest
// first. daysBack > 0 drops papers published before the cutoff.
func (f *ArxivFeed) Fetch(ctx context.Context, categories []string, maxResults, daysBack int) ([]types.Paper, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("no feed categories configured")
	}
	if maxResults <= 0 {
		maxResults = 50
	}

	catParts := make([]string, len(categories))
	for i, c := range categories {
		catParts[i] = "cat:" + c
	}
	query := strings.Join(catParts, "+OR+")

	url := fmt.Sprintf("%s?search_query=%s&start=0&max_results=%d&sortBy=submittedDate&sortOrder=descending",
		arxivAPIBase, query, maxResults)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &types.ExternalError{Service: "arxiv", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &types.ExternalError{
			Service:     "arxiv",
			RateLimited: resp.StatusCode == http.StatusTooManyRequests,
			Err:         fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode),
		}
	}

	var feed arxivAtomFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, &types.ExternalError{Service: "arxiv", Err: fmt.Errorf("parsing feed: %w", err)}
	}

	var cutoff time.Time
	if daysBack > 0 {
		cutoff = f.now().UTC().AddDate(0, 0, -daysBack)
	}

	var papers []types.Paper
	for _, entry := range feed.Entries {
		arxivID := extractArxivID(entry.ID)
		if arxivID == "" {
			continue
		}

		published, parseErr := time.Parse(time.RFC3339, entry.Published)
		if parseErr != nil {
			continue
		}
		if !cutoff.IsZero() && published.Before(cutoff) {
			continue
		}

		p := types.Paper{
			ID:            arxivID,
			Title:         collapseWhitespace(entry.Title),
			Abstract:      collapseWhitespace(entry.Summary),
			PublishedDate: published.UTC().Format("2006-01-02"),
			SourceURL:     "https://arxiv.org/abs/" + arxivID,
			PDFURL:        "https://arxiv.org/pdf/" + arxivID,
		}
		for _, a := range entry.Authors {
			p.Authors = append(p.Authors, strings.TrimSpace(a.Name))
		}
		for _, c := range entry.Categories {
			if c.Term != "" {
				p.Categories = append(p.Categories, c.Term)
			}
		}

		papers = append(papers, p)
	}
	return papers, nil
}

// collapseWhitespace flattens the newline-wrapped text arXiv returns
// into single-spaced prose.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// arXiv Atom feed XML structures.
type arxivAtomFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID         string          `xml:"id"`
	Title      string          `xml:"title"`
	Summary    string          `xml:"summary"`
	Published  string          `xml:"published"`
	Authors    []arxivAuthor   `xml:"author"`
	Categories []arxivCategory `xml:"category"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
