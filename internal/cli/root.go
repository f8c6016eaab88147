// Package cli implements the workforce command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"workforce/internal/classifier"
	"workforce/internal/config"
	"workforce/internal/logging"
	"workforce/internal/metrics"
	"workforce/internal/report"
	"workforce/internal/service"
)

// ErrValidationFailed is returned by commands whose report is not valid
var ErrValidationFailed = errors.New("validation failed")

// Exit codes
const (
	ExitOK      = 0
	ExitInvalid = 1 // a check ran and found problems
	ExitError   = 2 // bad input, config or I/O
)

type globalOptions struct {
	configPath  string
	rulesFile   string
	rulesMode   string
	format      string
	logLevel    string
	noColor     bool
	metricsFile string
}

// App holds what every command needs. It is set up once per invocation,
// after flags are parsed.
type App struct {
	Config     *config.Config
	ConfigPath string
	Engine     *classifier.Engine
	Metrics    *metrics.Recorder
	Logger     logging.Logger

	zap    *zap.Logger
	events *service.EventBus
	drain  chan service.Event
	done   chan struct{}
	out    io.Writer
	errOut io.Writer
	color  bool
}

// Run executes the command line and returns the process exit code
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := &App{}
	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := app.Close(); cerr != nil && err == nil {
		err = cerr
	}

	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrValidationFailed):
		return ExitInvalid
	default:
		fmt.Fprintln(stderr, "Error:", err)
		return ExitError
	}
}

// NewRootCmd builds the command tree. app is populated before any
// subcommand runs.
func NewRootCmd(app *App) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "workforce",
		Short: "Classify workforce positions and validate org chart views",
		Long: `workforce assigns each position a labor classification (direct, indirect
or OH) from its department, level and process, and checks that every view
of an org chart classifies the same position the same way.

Position files are JSON or YAML, either {"source": ..., "positions": [...]}
or a bare list of positions. A file without a source is named after the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd, opts)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: search $WORKFORCE_CONFIG, ./workforce.yaml, ~/.config/workforce)")
	flags.StringVar(&opts.rulesFile, "rules", "", "YAML rules file")
	flags.StringVar(&opts.rulesMode, "rules-mode", "", "how the rules file applies: merge or replace")
	flags.StringVarP(&opts.format, "format", "f", "", "output format: text, json, yaml, markdown, html")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile on exit")

	root.AddCommand(classifyCmd(app))
	root.AddCommand(batchCmd(app))
	root.AddCommand(checkCmd(app))
	root.AddCommand(aggregateCmd(app))
	root.AddCommand(reportCmd(app))
	root.AddCommand(rulesCmd(app))
	root.AddCommand(watchCmd(app))
	root.AddCommand(configCmd(app))

	return root
}

func (a *App) init(cmd *cobra.Command, opts *globalOptions) error {
	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()

	cfg, path, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg, opts); err != nil {
		return err
	}
	a.Config = cfg
	a.ConfigPath = path

	zl, err := logging.New(logging.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	if err != nil {
		return err
	}
	a.zap = zl
	a.Logger = logging.Safe(logging.NewZap(zl))
	if path != "" {
		a.Logger.LogInfo("loaded config", map[string]any{"path": path})
	}

	if zl.Core().Enabled(zap.DebugLevel) {
		a.traceEvents()
	}

	rs, err := loadRuleSet(cfg, a.Logger)
	if err != nil {
		return err
	}
	a.Engine = classifier.NewEngine(rs)
	a.Metrics = metrics.NewRecorder()
	a.color = !opts.noColor && cfg.ColorEnabled(!color.NoColor)

	return nil
}

func loadConfig(path string) (*config.Config, string, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// applyFlags lets explicitly set flags override the config file
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts *globalOptions) error {
	flags := cmd.Flags()
	if flags.Changed("rules") {
		cfg.RulesFile = opts.rulesFile
	}
	if flags.Changed("rules-mode") {
		cfg.RulesMode = config.RulesMode(opts.rulesMode)
	}
	if flags.Changed("format") {
		format, ok := config.ParseFormat(opts.format)
		if !ok {
			return fmt.Errorf("unknown format %q", opts.format)
		}
		cfg.Output.Format = format
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("metrics-file") {
		cfg.Metrics.Textfile = opts.metricsFile
	}
	return cfg.Validate()
}

// traceEvents logs every validation event at debug level
func (a *App) traceEvents() {
	a.events = service.NewEventBus()
	a.drain = make(chan service.Event, 256)
	a.done = make(chan struct{})
	a.events.Subscribe(a.drain)

	go func() {
		defer close(a.done)
		for ev := range a.drain {
			a.zap.Debug("event", zap.String("type", string(ev.Type)), zap.Any("payload", ev.Payload))
		}
	}()
}

// Builder returns a report builder over the app's engine
func (a *App) Builder() *report.Builder {
	return report.NewBuilder(a.Engine, a.Metrics, a.Logger, a.events)
}

// Close writes the metrics textfile if configured and flushes the logger
func (a *App) Close() error {
	if a.drain != nil {
		a.events.Unsubscribe(a.drain)
		close(a.drain)
		<-a.done
		a.drain = nil
	}

	var err error
	if a.Config != nil && a.Config.Metrics.Textfile != "" && a.Metrics != nil {
		err = a.Metrics.WriteTextfile(a.Config.Metrics.Textfile)
	}
	if a.zap != nil {
		// Sync on a terminal stderr returns EINVAL on some platforms
		_ = a.zap.Sync()
	}
	return err
}
