package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compcheck/pkg/errors"
	"github.com/matzehuels/compcheck/pkg/pipeline"
	"github.com/matzehuels/compcheck/pkg/render"
)

type graphOptions struct {
	format    string
	output    string
	conflicts bool
	detailed  bool
	focus     []string
}

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOptions{format: string(render.FormatDOT), conflicts: true}

	cmd := &cobra.Command{
		Use:   "graph [root]",
		Short: "Export the component constraint graph",
		Long: `Graph builds the component registry of root and exports the dependency and
conflict graph. Dependencies are solid arrows, conflicts dashed red edges and
components on a dependency cycle are outlined in red.

DOT is written to stdout unless --output is set; SVG and PNG require --output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, rootArg(args), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg or png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file")
	cmd.Flags().BoolVar(&opts.conflicts, "conflicts", opts.conflicts, "include conflict edges")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show dependency and conflict counts in labels")
	cmd.Flags().StringSliceVar(&opts.focus, "focus", nil, "only show these components and their dependencies")
	_ = cmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{string(render.FormatDOT), string(render.FormatSVG), string(render.FormatPNG)}, cobra.ShellCompDirectiveNoFileComp))

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, root string, opts graphOptions) error {
	format, err := render.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if format != render.FormatDOT && opts.output == "" {
		return errors.New(errors.ErrCodeInvalidInput, "--output is required for %s", format)
	}
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

	res, err := runner.Execute(ctx, pipeline.Options{Root: root, Config: cfg, ConfigPath: c.configUsed})
	if err != nil {
		return err
	}

	g := res.Graph()
	for _, name := range opts.focus {
		if !g.IsKnown(name) {
			printWarning("Unknown component %s", name)
		}
	}
	dot := render.ToDOT(g, render.Options{
		Conflicts: opts.conflicts,
		Detailed:  opts.detailed,
		Focus:     opts.focus,
	})
	data, err := render.Render(ctx, dot, format)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", opts.output)
	}
	printSuccess("Rendered %d components", len(g.Components()))
	printFile(opts.output)
	return nil
}
