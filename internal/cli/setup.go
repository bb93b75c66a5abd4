package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mortise/tenon/internal/engine"
	"github.com/mortise/tenon/internal/store"
)

// openEngine builds the engine for one command invocation. The returned
// cleanup closes the underlying database when one was opened.
func openEngine(opts *RootOptions, cmd *cobra.Command) (*engine.Engine, func(), error) {
	log := newLogger(opts, cmd.ErrOrStderr())

	if opts.DB == "" || opts.DB == "memory" {
		e := engine.New(store.NewMemoryStore(), engine.WithLogger(log))
		return e, func() {}, nil
	}

	st, err := store.Open(opts.DB)
	if err != nil {
		return nil, nil, &ExitError{
			Code:    ExitCommandError,
			Message: fmt.Sprintf("open database %s", opts.DB),
			Err:     err,
		}
	}
	e := engine.New(st, engine.WithLogger(log))
	return e, func() { st.Close() }, nil
}

// newFormatter builds the output formatter for one command invocation.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}
