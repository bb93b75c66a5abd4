package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <session-id>",
		Short:         "Destroy a session",
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

			if err := e.Delete(cmd.Context(), args[0]); err != nil {
				return formatter.fail(err)
			}
			return formatter.Success(map[string]string{"deleted": args[0]}, func(w io.Writer) {
				fmt.Fprintf(w, "deleted %s\n", args[0])
			})
		},
	}
}
