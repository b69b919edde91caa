package reviewer

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"smartmr/internal/review"
)

// maxExcerptChars bounds how much file content goes into a prompt.
// Truncation is flagged inside the prompt so the model knows the
// excerpt is partial.
const maxExcerptChars = 3000

var promptTemplate = template.Must(template.New("review").Parse(`As an expert code reviewer, analyze this {{.Language}} code change and provide constructive feedback.

FILE: {{.FilePath}}
LANGUAGE: {{.Language}}

DIFF:
` + "```diff" + `
{{.Diff}}
` + "```" + `

FULL FILE CONTENT (for context):
` + "```{{.Language}}" + `
{{.Excerpt}}{{if .Truncated}}...{{end}}
` + "```" + `

Please analyze and provide feedback on:
1. **Code Quality**: Style, readability, maintainability
2. **Security**: Potential vulnerabilities or security concerns
3. **Performance**: Efficiency and optimization opportunities
4. **Best Practices**: Language-specific conventions and patterns
5. **Error Handling**: Robustness and edge case handling
6. **Testing**: Testability and test coverage considerations

For each issue found, provide:
- Specific line numbers if applicable
- Clear description of the issue
- Suggested improvement
- Severity (high/medium/low)

Also identify:
- Whether this introduces breaking changes
- Performance impact (positive/negative/neutral)
- Required follow-up actions

Respond in JSON format:
{
  "summary": "Overall assessment summary",
  "issues": [
    {
      "line": 123,
      "severity": "medium",
      "category": "performance",
      "description": "Issue description",
      "suggestion": "Specific improvement suggestion"
    }
  ],
  "positive_aspects": ["List of good practices found"],
  "has_breaking_changes": false,
  "performance_impact": "neutral",
  "follow_up_actions": ["List of recommended actions"]
}
Return ONLY the JSON object, no additional text.`))

// BuildPrompt composes the bounded review request for one file change.
func BuildPrompt(change review.FileChange) (string, error) {
	excerpt := change.Content
	truncated := false
	if len(excerpt) > maxExcerptChars {
		excerpt = excerpt[:maxExcerptChars]
		truncated = true
	}

	data := map[string]interface{}{
		"FilePath":  change.Path,
		"Language":  LanguageFor(change.Path),
		"Diff":      change.Diff,
		"Excerpt":   excerpt,
		"Truncated": truncated,
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// LanguageFor infers the language name from the file extension.
func LanguageFor(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}
