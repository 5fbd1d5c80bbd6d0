package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compcheck/pkg/errors"
	"github.com/matzehuels/compcheck/pkg/pipeline"
	"github.com/matzehuels/compcheck/pkg/report"
)

// Report formats.
const (
	formatText = "text"
	formatJSON = "json"
)

type checkOptions struct {
	format         string
	output         string
	failOnFindings bool
	parallelism    int
}

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	opts := checkOptions{format: formatText, failOnFindings: true}

	cmd := &cobra.Command{
		Use:   "check [root]",
		Short: "Check a source tree for component composition errors",
		Long: `Check parses every TypeScript and JavaScript file under root (default: the
current directory), builds the cross-file component registry and reports
composition errors.

Exit status is 1 when findings are reported (unless --fail-on-findings=false)
and 2 when the check could not run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCheck(cmd, rootArg(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "report format: text or json")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.failOnFindings, "fail-on-findings", opts.failOnFindings, "exit 1 when findings are reported")
	cmd.Flags().IntVarP(&opts.parallelism, "jobs", "j", 0, "parallel parse and check workers (default: number of CPUs)")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{formatText, formatJSON}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runCheck(cmd *cobra.Command, root string, opts checkOptions) error {
	if opts.format != formatText && opts.format != formatJSON {
		return errors.New(errors.ErrCodeInvalidInput, "invalid format %q (must be text or json)", opts.format)
	}
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig(ctx, root)
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, pipeline.Options{Root: root, Config: cfg, ConfigPath: c.configUsed, Parallelism: opts.parallelism})
	if err != nil {
		return err
	}
	prog.done("checked", "files", res.Stats.Checked, "findings", len(res.Findings))

	r := report.New(res)
	if err := writeReport(r, opts); err != nil {
		return err
	}
	if opts.failOnFindings && r.Total() > 0 {
		return ErrFindings
	}
	return nil
}

// createFile opens report outputs; tests replace it.
var createFile = func(name string) (io.WriteCloser, error) { return os.Create(name) }

func writeReport(r report.Report, opts checkOptions) error {
	if opts.output == "" {
		if opts.format == formatJSON {
			return report.WriteJSON(os.Stdout, r)
		}
		printReport(os.Stdout, r)
		printStats(r)
		return nil
	}

	f, err := createFile(opts.output)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", opts.output)
	}
	if opts.format == formatJSON {
		err = report.WriteJSON(f, r)
	} else {
		err = report.WriteText(f, r)
	}
	if err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "close %s", opts.output)
	}
	printSuccess("Wrote report")
	printFile(opts.output)
	return nil
}
