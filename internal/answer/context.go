// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"fmt"
	"strings"

	"github.com/pdiddy/paper-rag/pkg/types"
)

const contextSeparator = "\n\n---\n\n"

// maxListedAuthors is how many authors appear before "et al.".
const maxListedAuthors = 3

// BuildContext renders ranked sources into the bounded text block the
// prompt templates embed. One entry per source, numbered from 1 so the
// model can cite by index.
func BuildContext(sources []types.RankedSource) string {
	if len(sources) == 0 {
		return "No relevant papers found."
	}

	parts := make([]string, 0, len(sources))
	for i, s := range sources {
		entry := fmt.Sprintf(`Paper %d:
Title: %s
Authors: %s
Published: %s
Citations: %d
Abstract: %s
URL: %s`,
			i+1, s.Title, formatAuthors(s.Authors), s.PublishedDate,
			s.CitationCount, s.Abstract, s.SourceURL)
		parts = append(parts, entry)
	}
	return strings.Join(parts, contextSeparator)
}

// formatAuthors lists up to three authors and collapses the rest into an
// "et al." suffix carrying the hidden count.
func formatAuthors(authors []string) string {
	if len(authors) <= maxListedAuthors {
		return strings.Join(authors, ", ")
	}
	listed := strings.Join(authors[:maxListedAuthors], ", ")
	return fmt.Sprintf("%s et al. (+%d)", listed, len(authors)-maxListedAuthors)
}
