package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List sessions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			e, cleanup, err := openEngine(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			sums, err := e.List(cmd.Context())
			if err != nil {
				return formatter.fail(err)
			}
			return formatter.Success(sums, func(w io.Writer) {
				if len(sums) == 0 {
					fmt.Fprintln(w, "no sessions")
					return
				}
				for _, s := range sums {
					fmt.Fprintf(w, "%s  [%s/%s]  validation=%s  open=%d\n",
						s.ID, s.OriginKind, s.State, s.ValidationStatus, s.OpenHoles)
				}
			})
		},
	}
}
