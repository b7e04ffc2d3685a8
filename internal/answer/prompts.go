// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package answer

import (
	"strings"
	"text/template"
)

// systemPrompt frames every completion request.
const systemPrompt = "You are an expert AI research assistant. Provide accurate, well-cited answers based on the research papers provided."

// The three user-prompt templates. Selection is keyword-driven and
// mutually exclusive: trend keywords win over comparison keywords, and
// everything else gets the default citation-answering template.
var (
	defaultPromptTmpl = template.Must(template.New("default").Parse(`You are an AI research assistant helping users discover and understand AI research papers. You have access to a database of recent research papers and your task is to provide accurate, helpful answers based on the provided papers.

User Question: {{.Query}}

Relevant Research Papers:
{{.Context}}

Instructions:
1. Answer the user's question based ONLY on the provided papers above
2. Cite papers by their number (e.g., "According to Paper 1...")
3. If the papers don't contain enough information to fully answer the question, acknowledge this
4. Highlight key findings, methodologies, or trends mentioned in the papers
5. Be concise but thorough - aim for 2-4 paragraphs
6. Use clear, accessible language

Your Answer:`))

	trendPromptTmpl = template.Must(template.New("trend").Parse(`You are an AI research assistant specializing in identifying research trends. Analyze the provided papers to identify patterns, emerging themes, and developments.

User Question: {{.Query}}

Relevant Research Papers:
{{.Context}}

Instructions:
1. Identify common themes and trends across the papers
2. Highlight emerging methodologies or approaches
3. Note any significant shifts or developments in the field
4. Cite specific papers when discussing trends (e.g., "Paper 1 and Paper 3 both explore...")
5. Organize your response by trend or theme
6. Be specific and data-driven

Your Analysis:`))

	comparisonPromptTmpl = template.Must(template.New("comparison").Parse(`You are an AI research assistant helping users compare different research approaches or papers.

User Question: {{.Query}}

Relevant Research Papers:
{{.Context}}

Instructions:
1. Compare and contrast the approaches described in the papers
2. Highlight similarities and differences
3. Discuss advantages and limitations of each approach
4. Cite specific papers for each point (e.g., "Paper 1 uses X while Paper 2 uses Y...")
5. Provide a balanced comparison
6. Be specific about technical details

Your Comparison:`))
)

var (
	trendKeywords      = []string{"trend", "emerging", "recent developments", "latest", "evolution"}
	comparisonKeywords = []string{"compare", "difference", "versus", "vs", "contrast"}
)

// promptKind names the selected template for logging and tests.
type promptKind string

const (
	promptDefault    promptKind = "default"
	promptTrend      promptKind = "trend"
	promptComparison promptKind = "comparison"
)

// selectTemplate picks a template from the query wording. Deterministic
// and side-effect free; no learned classification.
func selectTemplate(query string) (*template.Template, promptKind) {
	q := strings.ToLower(query)
	for _, kw := range trendKeywords {
		if strings.Contains(q, kw) {
			return trendPromptTmpl, promptTrend
		}
	}
	for _, kw := range comparisonKeywords {
		if strings.Contains(q, kw) {
			return comparisonPromptTmpl, promptComparison
		}
	}
	return defaultPromptTmpl, promptDefault
}

// buildPrompt renders the selected template with the query and context.
func buildPrompt(query, context string) (string, promptKind, error) {
	tmpl, kind := selectTemplate(query)

	var b strings.Builder
	err := tmpl.Execute(&b, struct {
		Query   string
		Context string
	}{Query: query, Context: context})
	if err != nil {
		return "", kind, err
	}
	return b.String(), kind, nil
}
