package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compcheck/pkg/errors"
	"github.com/matzehuels/compcheck/pkg/pipeline"
	"github.com/matzehuels/compcheck/pkg/report"
	"github.com/matzehuels/compcheck/pkg/watch"
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var opts watch.Options

	cmd := &cobra.Command{
		Use:   "watch [root]",
		Short: "Re-check whenever sources change",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := rootArg(args)
			ctx := cmd.Context()

			cfg, err := c.loadConfig(ctx, root)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(ctx, cfg)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts.Logger = loggerFromContext(ctx)
			w := watch.New(runner, pipeline.Options{Root: root, Config: cfg, ConfigPath: c.configUsed}, opts)
			printInfo("Watching %s %s", StyleValue.Render(root), StyleDim.Render("(Ctrl+C to stop)"))

			return w.Run(ctx, func(res *pipeline.Result, changed []string, err error) {
				if len(changed) > 0 {
					printInfo("Changed: %s", strings.Join(changed, ", "))
				}
				if err != nil {
					printError("%s", errors.UserMessage(err))
					return
				}
				printReport(os.Stdout, report.New(res))
				printDetail("run %s", res.RunID)
			})
		},
	}

	cmd.Flags().DurationVar(&opts.Debounce, "debounce", watch.DefaultDebounce, "quiet period before re-checking")
	return cmd
}
