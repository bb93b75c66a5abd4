package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <session-id>",
		Short: "Run both validators over the current draft",
		Long: `Run the semantic validator and the constraint validator over the
session's current draft and derive its validation status.`,
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

			s, err := e.Validate(cmd.Context(), args[0])
			if err != nil {
				return formatter.fail(err)
			}
			return formatter.Success(s, func(w io.Writer) { printSession(w, s) })
		},
	}
}
