package cli

import (
	"fmt"

	"github.com/fatih/color"

	"workforce/internal/codec"
	"workforce/internal/domain"
	"workforce/internal/report"
)

// writeReport renders the report to stdout in the configured format and a
// one-line verdict to stderr. It returns ErrValidationFailed for an invalid
// report.
func (a *App) writeReport(rep *domain.Report) error {
	exporter, err := codec.ExporterFor(string(a.Config.Output.Format), a.color)
	if err != nil {
		return err
	}
	if err := exporter.Export(rep, a.out); err != nil {
		return err
	}

	a.printVerdict(rep)
	if report.ExitCode(rep) != ExitOK {
		return ErrValidationFailed
	}
	return nil
}

func (a *App) printVerdict(rep *domain.Report) {
	pass := a.paint(color.FgGreen, color.Bold)
	fail := a.paint(color.FgRed, color.Bold)
	dim := a.paint(color.FgHiBlack)

	if c := rep.Consistency; c != nil {
		if c.IsValid {
			pass.Fprint(a.errOut, "PASS")
		} else {
			fail.Fprint(a.errOut, "FAIL")
		}
		fmt.Fprintf(a.errOut, " consistency: %d positions, %d inconsistent ", c.Summary.TotalPositions, c.Summary.InconsistentPositions)
		dim.Fprintf(a.errOut, "(%d sources)\n", len(c.Summary.PagesCovered))
	}
	if g := rep.Aggregation; g != nil {
		if g.IsValid {
			pass.Fprint(a.errOut, "PASS")
		} else {
			fail.Fprint(a.errOut, "FAIL")
		}
		fmt.Fprintf(a.errOut, " aggregation: %d detailed, %d direct + %d indirect, %d mismatches\n",
			g.DetailedViewTotal, g.DirectPageTotal, g.IndirectPageTotal, len(g.Mismatches))
	}
	if b := rep.Batch; b != nil {
		warn := a.paint(colorWarning...)
		fmt.Fprintf(a.errOut, "classified %d positions: ", b.Total)
		warn.Fprintf(a.errOut, "%d with warnings, %d via fallback, %d errors\n", b.WithWarnings, b.WithFallback, len(b.Errors))
	}
}

var colorWarning = []color.Attribute{color.FgYellow}

// paint returns a color that is disabled when output color is off
func (a *App) paint(attrs ...color.Attribute) *color.Color {
	c := color.New(attrs...)
	if a.color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

// classColor picks a color per classification
func (a *App) classColor(class domain.Classification) *color.Color {
	switch class {
	case domain.ClassificationDirect:
		return a.paint(color.FgHiGreen)
	case domain.ClassificationIndirect:
		return a.paint(color.FgYellow)
	case domain.ClassificationOH:
		return a.paint(color.FgCyan)
	}
	return a.paint(color.FgWhite)
}
