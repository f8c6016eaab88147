package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"workforce/internal/report"
	"workforce/internal/watcher"
)

func watchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE...",
		Short: "Re-run the consistency check whenever a file changes",
		Long: `Run "check" on the given files, then again each time one of them (or the
configured rules file) changes. Stops on interrupt.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			builder := app.Builder()
			app.runCheck(cmd.Context(), builder, args)

			watched := append([]string{}, args...)
			var rulesPath string
			if app.Config.RulesFile != "" {
				rulesPath, _ = filepath.Abs(app.Config.RulesFile)
				watched = append(watched, app.Config.RulesFile)
			}

			w := watcher.New(watched, func(changed []string) {
				for _, path := range changed {
					if path == rulesPath {
						app.reloadRules()
					}
				}
				fmt.Fprintf(app.errOut, "\n%s changed\n", time.Now().Format(time.TimeOnly))
				app.runCheck(cmd.Context(), builder, args)
			}).WithDebounce(app.Config.Watch.Debounce.Duration()).WithLogger(app.Logger)

			err := w.Watch(cmd.Context())
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}

// runCheck runs one consistency pass. Failures are reported, not returned,
// so the watch keeps going.
func (a *App) runCheck(ctx context.Context, builder *report.Builder, paths []string) {
	sets, err := readPositionFiles(ctx, paths)
	if err != nil {
		a.Logger.LogSystemError(err, "watch")
		fmt.Fprintln(a.errOut, "Error:", err)
		return
	}
	sources, err := bySource(sets)
	if err != nil {
		fmt.Fprintln(a.errOut, "Error:", err)
		return
	}

	rep, err := builder.Build(report.Input{Sources: sources})
	if err != nil {
		fmt.Fprintln(a.errOut, "Error:", err)
		return
	}
	if err := a.writeReport(rep); err != nil && !errors.Is(err, ErrValidationFailed) {
		fmt.Fprintln(a.errOut, "Error:", err)
	}
}

// reloadRules swaps in the rules file's current contents. A broken file
// keeps the previous rules.
func (a *App) reloadRules() {
	rs, err := loadRuleSet(a.Config, a.Logger)
	if err != nil {
		a.Logger.LogSystemError(err, "reload rules")
		fmt.Fprintln(a.errOut, "Error:", err, "(keeping previous rules)")
		return
	}
	a.Engine.Replace(rs)
	a.Logger.LogInfo("rules reloaded", map[string]any{"path": a.Config.RulesFile})
}
