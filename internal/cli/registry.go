package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/compcheck/pkg/io"
	"github.com/matzehuels/compcheck/pkg/pipeline"
)

// registryCommand creates the registry command.
func (c *CLI) registryCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "registry [root]",
		Short: "Dump the component registry as JSON",
		Long: `Registry builds the cross-file component registry of root and writes it as
JSON: every component with declared dependencies or conflicts, plus every
component name mentioned anywhere.`,
		Args: cobra.MaximumNArgs(1),
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

			res, err := runner.Execute(ctx, pipeline.Options{Root: root, Config: cfg, ConfigPath: c.configUsed})
			if err != nil {
				return err
			}

			if output == "" {
				return io.WriteJSON(res.Registry, os.Stdout)
			}
			if err := io.ExportJSON(res.Registry, output); err != nil {
				return err
			}
			stats := res.Registry.Stats()
			printSuccess("Exported %d components (%d known)", stats.Constrained, stats.Known)
			printFile(output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
