package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"workforce/internal/classifier"
	"workforce/internal/config"
	"workforce/internal/loader"
	"workforce/internal/logging"
)

// loadRuleSet builds the effective rule set: the built-in rules, patched by
// or replaced with the configured rules file
func loadRuleSet(cfg *config.Config, logger logging.Logger) (*classifier.RuleSet, error) {
	base := classifier.DefaultRuleSet()
	if cfg.RulesFile == "" {
		return base, nil
	}

	rules, err := loader.LoadYAML(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("load rules %s: %w", cfg.RulesFile, err)
	}
	logger.LogInfo("loaded rules", map[string]any{
		"path":        cfg.RulesFile,
		"mode":        string(cfg.RulesMode),
		"departments": len(rules.Departments),
		"exceptions":  len(rules.Exceptions),
	})

	if cfg.RulesMode == config.RulesModeReplace {
		return classifier.NewRuleSet(rules), nil
	}
	return base.Merge(rules), nil
}

func rulesCmd(app *App) *cobra.Command {
	var departments bool

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the effective rule set",
		Long: `Print the rule set in effect as YAML, after applying any rules file.

The output is itself a valid rules file, so it can be saved, edited and
passed back with --rules --rules-mode replace.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rs := app.Engine.Rules()
			if departments {
				for _, name := range rs.DepartmentNames() {
					fmt.Fprintln(app.out, name)
				}
				return nil
			}

			data, err := loader.ExportYAML(rs)
			if err != nil {
				return err
			}
			_, err = app.out.Write(data)
			return err
		},
	}

	cmd.Flags().BoolVar(&departments, "departments", false, "list only the departments with explicit rules")

	return cmd
}
