// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-rag/pkg/types"
)

const arxivFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/2301.07041v2</id>
    <title>Scaling Laws for
  Sparse Models</title>
    <summary>We study scaling
  behavior of sparse networks.</summary>
    <published>2023-01-17T12:00:00Z</published>
    <author><name>A. Author</name></author>
    <author><name>B. Writer</name></author>
    <category term="cs.LG"/>
    <category term="cs.AI"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/2201.00001v1</id>
    <title>Old Paper</title>
    <summary>Published long before the cutoff.</summary>
    <published>2022-01-01T00:00:00Z</published>
    <author><name>C. Elder</name></author>
    <category term="cs.CL"/>
  </entry>
</feed>`

func testFeed(t *testing.T, handler http.HandlerFunc) *ArxivFeed {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	saved := arxivAPIBase
	arxivAPIBase = server.URL
	t.Cleanup(func() { arxivAPIBase = saved })

	feed := NewArxivFeed(types.FeedConfig{
		HTTPConfig: types.HTTPConfig{Timeout: 5 * time.Second, UserAgent: "paper-rag-test/0.1"},
	})
	feed.now = func() time.Time {
		return time.Date(2023, 1, 20, 0, 0, 0, 0, time.UTC)
	}
	return feed
}

func TestFetch(t *testing.T) {
	var gotQuery string
	feed := testFeed(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(arxivFeedXML))
	})

	papers, err := feed.Fetch(context.Background(), []string{"cs.AI", "cs.LG"}, 25, 0)
	require.NoError(t, err)
	require.Len(t, papers, 2)

	p := papers[0]
	assert.Equal(t, "2301.07041", p.ID, "version suffix stripped")
	assert.Equal(t, "Scaling Laws for Sparse Models", p.Title, "newlines collapsed")
	assert.Equal(t, "We study scaling behavior of sparse networks.", p.Abstract)
	assert.Equal(t, "2023-01-17", p.PublishedDate)
	assert.Equal(t, []string{"A. Author", "B. Writer"}, p.Authors)
	assert.Equal(t, []string{"cs.LG", "cs.AI"}, p.Categories)
	assert.Equal(t, "https://arxiv.org/abs/2301.07041", p.SourceURL)
	assert.Equal(t, "https://arxiv.org/pdf/2301.07041", p.PDFURL)

	assert.Contains(t, gotQuery, "search_query=cat:cs.AI+OR+cat:cs.LG")
	assert.Contains(t, gotQuery, "max_results=25")
	assert.Contains(t, gotQuery, "sortBy=submittedDate")
}

func TestFetchDaysBackCutoff(t *testing.T) {
	feed := testFeed(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(arxivFeedXML))
	})

	papers, err := feed.Fetch(context.Background(), []string{"cs.AI"}, 25, 7)
	require.NoError(t, err)
	require.Len(t, papers, 1, "paper before cutoff dropped")
	assert.Equal(t, "2301.07041", papers[0].ID)
}

func TestFetchNoCategories(t *testing.T) {
	feed := NewArxivFeed(types.FeedConfig{})
	_, err := feed.Fetch(context.Background(), nil, 10, 0)
	require.Error(t, err)
}

func TestFetchServerError(t *testing.T) {
	feed := testFeed(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	})

	_, err := feed.Fetch(context.Background(), []string{"cs.AI"}, 10, 0)
	require.Error(t, err)

	var extErr *types.ExternalError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "arxiv", extErr.Service)
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"http://arxiv.org/abs/2301.07041v12", "2301.07041"},
		{"http://example.com/no-abs-path", ""},
	}
	for _, tt := range tests {
		if got := extractArxivID(tt.in); got != tt.want {
			t.Errorf("extractArxivID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
