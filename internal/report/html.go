package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"smartmr/internal/review"
	"smartmr/internal/scan"
)

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>smartmr Review Report</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 20px; background: #f5f5f5; }
        .container { max-width: 1200px; margin: 0 auto; background: white; padding: 20px; border-radius: 8px; }
        .header { text-align: center; color: #2d7ff9; margin-bottom: 30px; }
        .stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(200px, 1fr)); gap: 20px; margin: 20px 0; }
        .stat-card { background: #f8f9fa; padding: 15px; border-radius: 8px; text-align: center; }
        .stat-number { font-size: 2em; font-weight: bold; color: #2d7ff9; }
        .security { color: #dc3545; }
        .issue-list { margin: 20px 0; }
        .issue-item { background: #fff3cd; padding: 10px; margin: 5px 0; border-left: 4px solid #ffc107; }
        .high-severity { border-left-color: #dc3545; background: #f8d7da; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>🤖 smartmr Review Report</h1>
            <p>Generated on {{.Generated}}</p>
        </div>

        <div class="stats">
            <div class="stat-card">
                <div class="stat-number">{{.Status.TotalFiles}}</div>
                <div>Files Reviewed</div>
            </div>
            <div class="stat-card">
                <div class="stat-number">{{.Status.TotalIssues}}</div>
                <div>Issues Found</div>
            </div>
            <div class="stat-card">
                <div class="stat-number security">{{.Status.HighSeverityIssues}}</div>
                <div>High Severity</div>
            </div>
            <div class="stat-card">
                <div class="stat-number security">{{.Status.SecurityIssueCount}}</div>
                <div>Security Issues</div>
            </div>
        </div>

        <h2>🔍 Review Details</h2>
        {{range .Files}}
        <div class="file-review">
            <h3>📁 {{.File}}</h3>
            <p><strong>Summary:</strong> {{.Summary}}</p>
            {{if .Issues}}
            <div class="issue-list">
                {{range .Issues}}
                <div class="issue-item{{if .High}} high-severity{{end}}">
                    <strong>Line {{.Line}}</strong> ({{.Severity}}): {{.Description}}
                </div>
                {{end}}
            </div>
            {{end}}
        </div>
        {{end}}

        {{if .Findings}}
        <h2>🔒 Security Findings</h2>
        <div class="issue-list">
            {{range .Findings}}
            <div class="issue-item high-severity">
                <strong>{{.File}}</strong> (Line {{.Line}}): {{.Description}}
            </div>
            {{end}}
        </div>
        {{end}}
    </div>
</body>
</html>
`))

type htmlIssue struct {
	Line        string
	Severity    string
	Description string
	High        bool
}

type htmlFile struct {
	File    string
	Summary string
	Issues  []htmlIssue
}

// RenderHTML produces the standalone report page from already-computed
// results. Files that failed review are omitted, matching the summary
// page's focus on reviewable content.
func RenderHTML(status review.Status, results []review.Result, findings []scan.Finding) (string, error) {
	var files []htmlFile
	for _, result := range results {
		if result.Error != "" {
			continue
		}

		file := htmlFile{File: result.File, Summary: result.Summary}
		if file.Summary == "" {
			file.Summary = "No summary"
		}

		for _, issue := range result.Issues {
			file.Issues = append(file.Issues, htmlIssue{
				Line:        lineLabel(issue.Line),
				Severity:    string(issue.Severity),
				Description: issue.Description,
				High:        issue.Severity == review.SeverityHigh,
			})
		}

		files = append(files, file)
	}

	data := map[string]interface{}{
		"Generated": time.Now().Format("2006-01-02 15:04:05"),
		"Status":    status,
		"Files":     files,
		"Findings":  findings,
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render HTML report: %w", err)
	}
	return buf.String(), nil
}
