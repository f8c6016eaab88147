package codec

import (
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"workforce/internal/domain"
)

// HTMLCodec exports reports as a standalone HTML page
type HTMLCodec struct {
	tmpl *template.Template
}

// NewHTMLCodec creates a new HTML codec
func NewHTMLCodec() *HTMLCodec {
	return &HTMLCodec{tmpl: htmlTemplate}
}

// Format returns the codec format identifier
func (c *HTMLCodec) Format() string {
	return "html"
}

// Export writes the report as HTML
func (c *HTMLCodec) Export(report *domain.Report, w io.Writer) error {
	if report == nil {
		report = &domain.Report{}
	}
	if err := c.tmpl.Execute(w, report); err != nil {
		return fmt.Errorf("failed to render HTML: %w", err)
	}
	return nil
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"status": status,
	"join":   strings.Join,
	"rfc3339": func(t time.Time) string {
		return t.Format(time.RFC3339)
	},
	"position": positionName,
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Workforce Validation Report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #ccc; padding: 4px 8px; text-align: left; }
.PASS { color: #1a7f37; }
.FAIL { color: #cf222e; }
</style>
</head>
<body>
<h1>Workforce Validation Report</h1>
<p>Run <code>{{.RunID}}</code> generated {{rfc3339 .GeneratedAt}}: <strong class="{{status .IsValid}}">{{status .IsValid}}</strong></p>
{{with .Consistency}}
<h2>Cross-Source Consistency</h2>
<p class="{{status .IsValid}}">{{status .IsValid}} across {{len .Summary.PagesCovered}} source(s): {{join .Summary.PagesCovered ", "}}</p>
<table>
<tr><th>Positions</th><th>Valid</th><th>Inconsistent</th><th>Direct</th><th>Indirect</th><th>OH</th></tr>
<tr><td>{{.Summary.TotalPositions}}</td><td>{{.Summary.ValidPositions}}</td><td>{{.Summary.InconsistentPositions}}</td><td>{{.Summary.ClassificationCounts.Direct}}</td><td>{{.Summary.ClassificationCounts.Indirect}}</td><td>{{.Summary.ClassificationCounts.OH}}</td></tr>
</table>
{{if .Inconsistencies}}
<h3>Inconsistencies</h3>
<table>
<tr><th>Department</th><th>Level</th><th>Position</th><th>Expected</th><th>Actual</th><th>Source</th><th>Pages</th><th>Reason</th></tr>
{{range .Inconsistencies}}<tr><td>{{.Department}}</td><td>{{.Level}}</td><td>{{position .Subtitle .Title}}</td><td>{{.ExpectedClassification}}</td><td>{{.ActualClassification}}</td><td>{{.Source}}</td><td>{{join .Pages ", "}}</td><td>{{.Reason}}</td></tr>
{{end}}</table>
{{end}}{{end}}
{{with .Aggregation}}
<h2>Aggregation</h2>
<p class="{{status .IsValid}}">{{status .IsValid}}</p>
<table>
<tr><th></th><th>Direct</th><th>Indirect + OH</th><th>OH</th><th>Total</th></tr>
<tr><td>Detailed view</td><td>{{.Expected.Direct}}</td><td>{{.Expected.Indirect}} + {{.Expected.OH}}</td><td>{{.Expected.OH}}</td><td>{{.DetailedViewTotal}}</td></tr>
<tr><td>Aggregation pages</td><td>{{.DirectPageTotal}}</td><td>{{.IndirectPageTotal}}</td><td>{{.OHPageTotal}}</td><td></td></tr>
</table>
{{if .Mismatches}}
<h3>Mismatches</h3>
<table>
<tr><th>Department</th><th>Level</th><th>Classification</th><th>Detailed</th><th>Aggregated</th><th>Reason</th></tr>
{{range .Mismatches}}<tr><td>{{.Department}}</td><td>{{.Level}}</td><td>{{.Classification}}</td><td>{{.DetailedCount}}</td><td>{{.AggregatedCount}}</td><td>{{.Reason}}</td></tr>
{{end}}</table>
{{end}}
{{if .Drift}}
<h3>Breakdown drift</h3>
<table>
<tr><th>Department</th><th>Level</th><th>Classification</th><th>Detailed</th><th>Aggregated</th><th>Reason</th></tr>
{{range .Drift}}<tr><td>{{.Department}}</td><td>{{.Level}}</td><td>{{.Classification}}</td><td>{{.DetailedCount}}</td><td>{{.AggregatedCount}}</td><td>{{.Reason}}</td></tr>
{{end}}</table>
{{end}}{{end}}
{{if .Positions}}
<h2>Classification</h2>
<table>
<tr><th>Department</th><th>Level</th><th>Position</th><th>Classification</th><th>Confidence</th><th>Warnings</th></tr>
{{range .Positions}}<tr><td>{{.Position.Department}}</td><td>{{.Position.Level}}</td><td>{{position .Position.Subtitle .Position.Title}}</td><td>{{.Classification}}</td><td>{{.Confidence}}</td><td>{{join .Warnings "; "}}</td></tr>
{{end}}</table>
{{end}}
</body>
</html>
`))
