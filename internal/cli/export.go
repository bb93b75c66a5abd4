package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export a session as JSON",
		Long: `Export a session as JSON. A draft session exports the full session
object; a finalized session exports its draft alone, holes pruned.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			e, cleanup, err := openEngine(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			data, err := e.Export(cmd.Context(), args[0])
			if err != nil {
				return formatter.fail(err)
			}
			if out != "" {
				if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
					return formatter.fail(fmt.Errorf("write %s: %w", out, err))
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "output", "o", "", "write to file instead of stdout")
	return cmd
}
