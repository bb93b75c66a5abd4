package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "get <session-id>",
		Short:         "Show a session",
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

			s, err := e.Get(cmd.Context(), args[0])
			if err != nil {
				return formatter.fail(err)
			}
			return formatter.Success(s, func(w io.Writer) { printSession(w, s) })
		},
	}
}
