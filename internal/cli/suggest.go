package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
)

// NewSuggestCommand creates the suggest command.
func NewSuggestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <session-id> [hole-id...]",
		Short: "Propose resolution text for open holes",
		Long: `Ask the drafter for candidate resolution text. Suggestions are
advisory; nothing is applied. Without hole ids, the whole ambiguity set
is consulted.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			e, cleanup, err := openEngine(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			sug, err := e.Suggest(cmd.Context(), args[0], args[1:])
			if err != nil {
				return formatter.fail(err)
			}
			return formatter.Success(sug, func(w io.Writer) {
				if len(sug) == 0 {
					fmt.Fprintln(w, "no suggestions")
					return
				}
				ids := make([]string, 0, len(sug))
				for id := range sug {
					ids = append(ids, id)
				}
				sort.Strings(ids)
				for _, id := range ids {
					for _, text := range sug[id] {
						fmt.Fprintf(w, "%s: %s\n", id, text)
					}
				}
			})
		},
	}
}
