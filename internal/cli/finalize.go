package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewFinalizeCommand creates the finalize command.
func NewFinalizeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "finalize <session-id>",
		Short: "Freeze a session",
		Long: `Freeze a session: no holes may remain open and the draft must be
valid. Runs validation first when the status is stale. Finalization is
one-way; the draft becomes immutable.`,
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

			s, err := e.Finalize(cmd.Context(), args[0])
			if err != nil {
				return formatter.fail(err)
			}
			return formatter.Success(s, func(w io.Writer) { printSession(w, s) })
		},
	}
}
