package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mortise/tenon/internal/ir"
	"github.com/mortise/tenon/internal/session"
)

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var fromIR, fromSource string

	cmd := &cobra.Command{
		Use:   "create [prompt...]",
		Short: "Start a refinement session",
		Long: `Start a refinement session from prompt text.

With --from-ir, the session starts from a pre-built draft instead
(reverse mode); the file must contain the JSON form of a draft.
With --from-source, the draft is lifted out of a source file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(rootOpts, cmd, strings.Join(args, " "), fromIR, fromSource)
		},
	}

	cmd.Flags().StringVar(&fromIR, "from-ir", "", "draft JSON file for reverse mode")
	cmd.Flags().StringVar(&fromSource, "from-source", "", "source file to lift a draft from")
	cmd.MarkFlagsMutuallyExclusive("from-ir", "from-source")
	return cmd
}

func runCreate(opts *RootOptions, cmd *cobra.Command, prompt, fromIR, fromSource string) error {
	formatter := newFormatter(opts, cmd)
	e, cleanup, err := openEngine(opts, cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	var s *session.Session
	switch {
	case fromIR != "":
		data, err := os.ReadFile(fromIR)
		if err != nil {
			return formatter.fail(fmt.Errorf("read draft: %w", err))
		}
		var draft ir.IR
		if err := json.Unmarshal(data, &draft); err != nil {
			return formatter.fail(fmt.Errorf("parse draft: %w", err))
		}
		s, err = e.CreateFromIR(cmd.Context(), &draft, fromIR)
		if err != nil {
			return formatter.fail(err)
		}
	case fromSource != "":
		data, err := os.ReadFile(fromSource)
		if err != nil {
			return formatter.fail(fmt.Errorf("read source: %w", err))
		}
		s, err = e.CreateFromSource(cmd.Context(), string(data))
		if err != nil {
			return formatter.fail(err)
		}
	default:
		s, err = e.Create(cmd.Context(), prompt)
		if err != nil {
			return formatter.fail(err)
		}
	}

	return formatter.Success(s, func(w io.Writer) { printSession(w, s) })
}
