package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"workforce/internal/report"
)

func batchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "batch FILE...",
		Short: "Classify every position in the given files",
		Long: `Classify every position in the given files with confidence grading.

Positions missing a department or level still get a classification but are
listed as errors in the summary. Batch classification never fails the run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, err := readPositionFiles(cmd.Context(), args)
			if err != nil {
				return err
			}

			rep, err := app.Builder().Build(report.Input{Classify: flatten(sets)})
			if err != nil {
				return err
			}
			return app.writeReport(rep)
		},
	}
}

func checkCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE...",
		Short: "Check that positions are classified the same way in every view",
		Long: `Treat each file as one view (source) of the org chart and check that every
position shown in more than one view has the same classification in each.

Exits with status 1 when an inconsistency is found.

Examples:
  workforce check page1.json page2.json
  workforce check --format markdown views/*.yaml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sets, err := readPositionFiles(cmd.Context(), args)
			if err != nil {
				return err
			}
			sources, err := bySource(sets)
			if err != nil {
				return err
			}

			rep, err := app.Builder().Build(report.Input{Sources: sources})
			if err != nil {
				return err
			}
			return app.writeReport(rep)
		},
	}
}

func aggregateCmd(app *App) *cobra.Command {
	var direct, indirect, detailed string

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Check the aggregation pages against the detailed view",
		Long: `Check that the direct page lists exactly the direct positions of the detailed
view, and the indirect page exactly its indirect and OH positions.

Exits with status 1 when a mismatch is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, i, v, err := readPages(cmd.Context(), direct, indirect, detailed)
			if err != nil {
				return err
			}

			rep, err := app.Builder().Build(report.Input{Direct: d, Indirect: i, Detailed: v})
			if err != nil {
				return err
			}
			return app.writeReport(rep)
		},
	}

	cmd.Flags().StringVar(&direct, "direct", "", "direct aggregation page (required)")
	cmd.Flags().StringVar(&indirect, "indirect", "", "indirect and OH aggregation page (required)")
	cmd.Flags().StringVar(&detailed, "detailed", "", "detailed view (required)")
	_ = cmd.MarkFlagRequired("direct")
	_ = cmd.MarkFlagRequired("indirect")
	_ = cmd.MarkFlagRequired("detailed")

	return cmd
}

func reportCmd(app *App) *cobra.Command {
	var (
		sources                    []string
		classify                   []string
		direct, indirect, detailed string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run consistency, aggregation and classification checks together",
		Long: `Build one combined report. Each --source file is a view for the consistency
check; --direct, --indirect and --detailed enable the aggregation check;
--classify files are batch classified.

Exits with status 1 when any check fails.

Example:
  workforce report --source page1.json --source page2.json \
    --direct direct.json --indirect indirect.json --detailed detailed.json \
    --format html > report.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(sources) == 0 && len(classify) == 0 && direct == "" {
				return errors.New("nothing to report: give --source, --classify or the aggregation pages")
			}

			var in report.Input
			if len(sources) > 0 {
				sets, err := readPositionFiles(cmd.Context(), sources)
				if err != nil {
					return err
				}
				if in.Sources, err = bySource(sets); err != nil {
					return err
				}
			}
			if direct != "" {
				d, i, v, err := readPages(cmd.Context(), direct, indirect, detailed)
				if err != nil {
					return err
				}
				in.Direct, in.Indirect, in.Detailed = d, i, v
			}
			if len(classify) > 0 {
				sets, err := readPositionFiles(cmd.Context(), classify)
				if err != nil {
					return err
				}
				in.Classify = flatten(sets)
			}

			rep, err := app.Builder().Build(in)
			if err != nil {
				return err
			}
			return app.writeReport(rep)
		},
	}

	cmd.Flags().StringArrayVar(&sources, "source", nil, "view file for the consistency check (repeatable)")
	cmd.Flags().StringArrayVar(&classify, "classify", nil, "file to batch classify (repeatable)")
	cmd.Flags().StringVar(&direct, "direct", "", "direct aggregation page")
	cmd.Flags().StringVar(&indirect, "indirect", "", "indirect and OH aggregation page")
	cmd.Flags().StringVar(&detailed, "detailed", "", "detailed view")
	cmd.MarkFlagsRequiredTogether("direct", "indirect", "detailed")

	return cmd
}
