package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"workforce/internal/classifier"
	"workforce/internal/config"
	"workforce/internal/domain"
)

type classifyOutput struct {
	Position       domain.Position       `json:"position" yaml:"position"`
	Classification domain.Classification `json:"classification" yaml:"classification"`
	Confidence     domain.Confidence     `json:"confidence" yaml:"confidence"`
	Warnings       []string              `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Decision       *classifier.Decision  `json:"decision,omitempty" yaml:"decision,omitempty"`
}

func classifyCmd(app *App) *cobra.Command {
	var (
		p       domain.Position
		level   string
		explain bool
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify a single position",
		Long: `Classify one position given by its fields.

Examples:
  workforce classify --department CE --level TM --subtitle Mixing
  workforce classify --department "FG WH" --level TM --title "Shipping Clerk" --explain`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p.Level = domain.Level(strings.TrimSpace(level))
			rec := app.Engine.ClassifyWithRecovery(p)
			app.Metrics.ObserveClassification(rec.Classification, rec.UsedFallback)

			out := classifyOutput{
				Position:       p,
				Classification: rec.Classification,
				Confidence:     rec.Confidence,
				Warnings:       rec.Warnings,
			}
			if explain {
				out.Decision = &rec.Decision
			}
			return app.writeClassification(out)
		},
	}

	cmd.Flags().StringVar(&p.Department, "department", "", "department name (required)")
	cmd.Flags().StringVar(&level, "level", "", "job level: PM, LM, VSM, A.VSM, GL, TL, TM, DEPT (required)")
	cmd.Flags().StringVar(&p.ProcessType, "process", "", "process type")
	cmd.Flags().StringVar(&p.Subtitle, "subtitle", "", "position subtitle")
	cmd.Flags().StringVar(&p.Title, "title", "", "position title")
	cmd.Flags().BoolVar(&explain, "explain", false, "show which rule decided")
	_ = cmd.MarkFlagRequired("department")
	_ = cmd.MarkFlagRequired("level")

	return cmd
}

func (a *App) writeClassification(out classifyOutput) error {
	switch a.Config.Output.Format {
	case config.FormatJSON:
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case config.FormatYAML:
		enc := yaml.NewEncoder(a.out)
		enc.SetIndent(2)
		if err := enc.Encode(out); err != nil {
			return err
		}
		return enc.Close()
	}

	a.classColor(out.Classification).Fprint(a.out, string(out.Classification))
	fmt.Fprintf(a.out, " (%s confidence)\n", out.Confidence)
	if d := out.Decision; d != nil {
		rule := ""
		if d.Rule != "" {
			rule = " " + d.Rule
		}
		fmt.Fprintf(a.out, "  decided by %s%s: %s\n", d.Tier, rule, d.Reason)
	}
	warn := a.paint(colorWarning...)
	for _, w := range out.Warnings {
		warn.Fprintf(a.out, "  warning: %s\n", w)
	}
	return nil
}
