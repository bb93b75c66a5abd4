package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mortise/tenon/internal/session"
)

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	var rt string

	cmd := &cobra.Command{
		Use:   "resolve <session-id> <hole-id> <text...>",
		Short: "Resolve one hole",
		Long: `Resolve one hole with the given text.

The resolution type must match the hole's kind:
  clarify_intent    intent holes
  refine_signature  signature holes
  specify_effect    effect holes
  add_constraint    assertion holes

Text may embed {?...?} markers; each spawns a follow-up hole.`,
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			e, cleanup, err := openEngine(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			text := strings.Join(args[2:], " ")
			s, err := e.Resolve(cmd.Context(), args[0], args[1], text, session.ResolutionType(rt))
			if err != nil {
				return formatter.fail(err)
			}
			return formatter.Success(s, func(w io.Writer) { printSession(w, s) })
		},
	}

	cmd.Flags().StringVarP(&rt, "type", "t", "", "resolution type (required)")
	cmd.MarkFlagRequired("type")
	return cmd
}
