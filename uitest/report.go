package uitest

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"
)

// Report collects test results and generates HTML
type Report struct {
	Timestamp string
	Steps     []Step
	OutputDir string
}

// Step is one entry of the report, in the order it happened: either a
// check result or a screen snapshot.
type Step struct {
	Label    string
	Snapshot string // Screen content, empty for results
	Result   bool   // Set for results
	Passed   bool
}

// NewReport creates a new test report
func NewReport(outputDir string) *Report {
	return &Report{
		Timestamp: time.Now().Format("20060102-150405"),
		OutputDir: outputDir,
	}
}

// AddResult adds a test result
func (r *Report) AddResult(name string, passed bool) {
	r.Steps = append(r.Steps, Step{Label: name, Result: true, Passed: passed})
}

// AddSnapshot adds a screen snapshot
func (r *Report) AddSnapshot(label string, content string) {
	r.Steps = append(r.Steps, Step{Label: label, Snapshot: content})
}

// Total returns the number of recorded results
func (r *Report) Total() int {
	n := 0
	for _, s := range r.Steps {
		if s.Result {
			n++
		}
	}
	return n
}

// Passed returns count of passed tests
func (r *Report) Passed() int {
	n := 0
	for _, s := range r.Steps {
		if s.Result && s.Passed {
			n++
		}
	}
	return n
}

// Failed returns count of failed tests
func (r *Report) Failed() int {
	return r.Total() - r.Passed()
}

var reportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>pixelperfect test report - {{.Timestamp}}</title>
    <style>
        body {
            font-family: 'SF Mono', 'Menlo', 'Cascadia Code', 'DejaVu Sans Mono', monospace;
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
            background: #0f172a;
            color: #e2e8f0;
        }
        h1 { color: #34d399; }
        h2 { color: #94a3b8; border-bottom: 1px solid #334155; padding-bottom: 10px; }
        .summary { background: #1e293b; padding: 20px; border-radius: 8px; margin-bottom: 20px; }
        .summary.pass { border-left: 4px solid #34d399; }
        .summary.fail { border-left: 4px solid #ef4444; }
        .stats { display: flex; gap: 30px; margin-top: 15px; }
        .stat { text-align: center; }
        .stat-value { font-size: 2em; font-weight: bold; }
        .stat-label { color: #94a3b8; font-size: 0.9em; }
        .pass .stat-value, .stat-value.pass { color: #34d399; }
        .stat-value.fail { color: #ef4444; }
        .result { padding: 8px 15px; margin: 5px 0; border-radius: 4px; }
        .result.pass { background: #064e3b; color: #34d399; }
        .result.fail { background: #450a0a; color: #ef4444; }
        .snapshot { margin: 20px 0; background: #1e293b; border-radius: 8px; overflow: hidden; }
        .snapshot h3 { background: #0f172a; margin: 0; padding: 10px 15px; color: #cbd5e1; }
        .snapshot pre { margin: 0; padding: 15px; overflow-x: auto; font-size: 14px; line-height: 1.2; background: #020617; color: #60a5fa; }
        .timestamp { color: #64748b; font-size: 0.9em; }
    </style>
</head>
<body>
    <h1>pixelperfect test report</h1>
    <p class="timestamp">{{.Timestamp}}</p>

    <div class="summary {{if .Failed}}fail{{else}}pass{{end}}">
        <strong>{{if .Failed}}{{.Failed}} test(s) failed{{else}}All tests passed{{end}}</strong>
        <div class="stats">
            <div class="stat"><div class="stat-value">{{.Total}}</div><div class="stat-label">Total</div></div>
            <div class="stat"><div class="stat-value pass">{{.Passed}}</div><div class="stat-label">Passed</div></div>
            <div class="stat"><div class="stat-value fail">{{.Failed}}</div><div class="stat-label">Failed</div></div>
        </div>
    </div>

    <h2>Test Progress</h2>
{{range .Steps}}{{if .Result}}    <div class="result {{if .Passed}}pass{{else}}fail{{end}}">{{if .Passed}}✓{{else}}✗{{end}} {{.Label}}</div>
{{else}}    <div class="snapshot"><h3>{{.Label}}</h3><pre>{{.Snapshot}}</pre></div>
{{end}}{{end}}</body>
</html>
`))

// Generate writes the HTML report to disk
func (r *Report) Generate() (string, error) {
	if err := os.MkdirAll(r.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output dir: %w", err)
	}

	filename := filepath.Join(r.OutputDir, fmt.Sprintf("test-%s.html", r.Timestamp))
	f, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	defer f.Close()

	if err := reportTemplate.Execute(f, r); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}
	return filename, nil
}
