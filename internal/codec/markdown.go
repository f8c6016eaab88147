package codec

import (
	"fmt"
	"io"
	"strings"
	"time"

	"workforce/internal/domain"
)

// MarkdownCodec exports reports as Markdown
type MarkdownCodec struct{}

// NewMarkdownCodec creates a new Markdown codec
func NewMarkdownCodec() *MarkdownCodec {
	return &MarkdownCodec{}
}

// Format returns the codec format identifier
func (c *MarkdownCodec) Format() string {
	return "markdown"
}

// Export writes the report as Markdown
func (c *MarkdownCodec) Export(report *domain.Report, w io.Writer) error {
	if _, err := io.WriteString(w, RenderMarkdown(report)); err != nil {
		return fmt.Errorf("failed to write Markdown: %w", err)
	}
	return nil
}

// RenderMarkdown renders a report as a Markdown document
func RenderMarkdown(report *domain.Report) string {
	var sb strings.Builder

	sb.WriteString("# Workforce Validation Report\n\n")
	if report == nil {
		sb.WriteString("_No report._\n")
		return sb.String()
	}

	fmt.Fprintf(&sb, "- **Run:** `%s`\n", report.RunID)
	fmt.Fprintf(&sb, "- **Generated:** %s\n", report.GeneratedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "- **Result:** %s\n\n", status(report.IsValid()))

	if r := report.Consistency; r != nil {
		writeConsistency(&sb, r)
	}
	if r := report.Aggregation; r != nil {
		writeAggregation(&sb, r)
	}
	if len(report.Positions) > 0 || report.Batch != nil {
		writePositions(&sb, report.Positions, report.Batch)
	}

	return sb.String()
}

func writeConsistency(sb *strings.Builder, r *domain.ValidationReport) {
	s := r.Summary
	sb.WriteString("## Cross-Source Consistency\n\n")
	fmt.Fprintf(sb, "**%s** across %d source(s): %s\n\n", status(r.IsValid), len(s.PagesCovered), cell(strings.Join(s.PagesCovered, ", ")))

	sb.WriteString("| Positions | Valid | Inconsistent | Direct | Indirect | OH |\n")
	sb.WriteString("|---:|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(sb, "| %d | %d | %d | %d | %d | %d |\n\n",
		s.TotalPositions, s.ValidPositions, s.InconsistentPositions,
		s.ClassificationCounts.Direct, s.ClassificationCounts.Indirect, s.ClassificationCounts.OH)

	if len(r.Inconsistencies) == 0 {
		return
	}

	sb.WriteString("### Inconsistencies\n\n")
	sb.WriteString("| Department | Level | Position | Expected | Actual | Source | Pages | Reason |\n")
	sb.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, inc := range r.Inconsistencies {
		fmt.Fprintf(sb, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			cell(inc.Department), cell(string(inc.Level)), cell(positionName(inc.Subtitle, inc.Title)),
			inc.ExpectedClassification, inc.ActualClassification,
			cell(inc.Source), cell(strings.Join(inc.Pages, ", ")), cell(inc.Reason))
	}
	sb.WriteString("\n")
}

func writeAggregation(sb *strings.Builder, r *domain.AggregationValidationResult) {
	sb.WriteString("## Aggregation\n\n")
	fmt.Fprintf(sb, "**%s**\n\n", status(r.IsValid))

	sb.WriteString("| | Direct | Indirect | OH | Total |\n")
	sb.WriteString("|---|---:|---:|---:|---:|\n")
	fmt.Fprintf(sb, "| Detailed view | %d | %d | %d | %d |\n",
		r.Expected.Direct, r.Expected.Indirect, r.Expected.OH, r.DetailedViewTotal)
	fmt.Fprintf(sb, "| Aggregation pages | %d | %d | %d | %d |\n\n",
		r.DirectPageTotal, r.IndirectPageTotal-r.OHPageTotal, r.OHPageTotal, r.DirectPageTotal+r.IndirectPageTotal)

	writeMismatches(sb, "Mismatches", r.Mismatches)
	writeMismatches(sb, "Breakdown drift", r.Drift)
}

func writeMismatches(sb *strings.Builder, heading string, mismatches []domain.AggregationMismatch) {
	if len(mismatches) == 0 {
		return
	}

	fmt.Fprintf(sb, "### %s\n\n", heading)
	sb.WriteString("| Department | Level | Classification | Detailed | Aggregated | Reason |\n")
	sb.WriteString("|---|---|---|---:|---:|---|\n")
	for _, m := range mismatches {
		fmt.Fprintf(sb, "| %s | %s | %s | %d | %d | %s |\n",
			cell(m.Department), cell(string(m.Level)), m.Classification,
			m.DetailedCount, m.AggregatedCount, cell(m.Reason))
	}
	sb.WriteString("\n")
}

func writePositions(sb *strings.Builder, positions []domain.ClassifiedPosition, summary *domain.BatchSummary) {
	sb.WriteString("## Classification\n\n")
	if summary != nil {
		fmt.Fprintf(sb, "%d total, %d successful, %d with warnings, %d via fallback\n\n",
			summary.Total, summary.Successful, summary.WithWarnings, summary.WithFallback)
	}

	if len(positions) > 0 {
		sb.WriteString("| Department | Level | Position | Classification | Confidence | Warnings |\n")
		sb.WriteString("|---|---|---|---|---|---|\n")
		for _, cp := range positions {
			p := cp.Position
			fmt.Fprintf(sb, "| %s | %s | %s | %s | %s | %s |\n",
				cell(p.Department), cell(string(p.Level)), cell(positionName(p.Subtitle, p.Title)),
				cp.Classification, cp.Confidence, cell(strings.Join(cp.Warnings, "; ")))
		}
		sb.WriteString("\n")
	}

	if summary != nil && len(summary.Errors) > 0 {
		sb.WriteString("### Errors\n\n")
		for _, e := range summary.Errors {
			fmt.Fprintf(sb, "- %s\n", e)
		}
		sb.WriteString("\n")
	}
}

func status(ok bool) string {
	if ok {
		return "PASS"
	}
	return "FAIL"
}

func positionName(subtitle, title string) string {
	switch {
	case subtitle != "" && title != "" && subtitle != title:
		return subtitle + " / " + title
	case subtitle != "":
		return subtitle
	}
	return title
}

// cell makes a value safe for a Markdown table cell
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
