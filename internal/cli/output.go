package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/mortise/tenon/internal/session"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Refinement failure (guard rejected finalize, bad resolution, ...)
	ExitCommandError = 2 // Command error (unknown session, unreadable files, ...)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
	Verbose   bool
}

// CLIResponse is the standard JSON response envelope.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success outputs a successful result in the configured format. In text
// mode, textFn renders the payload; a nil textFn prints the payload with
// Println.
func (f *OutputFormatter) Success(data any, textFn func(io.Writer)) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	if textFn != nil {
		textFn(f.Writer)
		return nil
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// fail renders a refinement error and converts it into an ExitError.
// Structured errors keep their code in the output; anything else is
// reported as a command error.
func (f *OutputFormatter) fail(err error) error {
	var se *session.Error
	if errors.As(err, &se) {
		var details any
		if se.Result != nil {
			details = se.Result
		}
		_ = f.Error(string(se.Code), se.Message, details)
		return &ExitError{Code: exitCodeFor(se.Code), Message: se.Message, Err: err}
	}
	_ = f.Error("COMMAND_ERROR", err.Error(), nil)
	return &ExitError{Code: ExitCommandError, Message: err.Error(), Err: err}
}

func exitCodeFor(code session.ErrorCode) int {
	switch code {
	case session.ErrCodeSessionNotFound, session.ErrCodeHoleNotFound:
		return ExitCommandError
	default:
		return ExitFailure
	}
}

// printSession renders the one-session text view: header line, open
// holes, and the latest validation findings.
func printSession(w io.Writer, s *session.Session) {
	fmt.Fprintf(w, "session %s  [%s]  validation=%s  open=%d\n",
		s.ID, s.State, s.ValidationStatus, len(s.Ambiguities))
	for _, id := range s.Ambiguities {
		h, ok := s.Draft.HoleByID(id)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "  hole %s  (%s)  %s\n", h.ID, h.Detail.Kind(), h.Description)
	}
	if s.LastValidation == nil {
		return
	}
	for _, iss := range s.LastValidation.SemanticIssues {
		fmt.Fprintf(w, "  %s %s: %s\n", iss.Severity, iss.Code, iss.Message)
	}
	for _, v := range s.LastValidation.SolverVerdicts {
		fmt.Fprintf(w, "  solver %s", v.Outcome)
		if v.Witness != "" {
			fmt.Fprintf(w, ": %s", v.Witness)
		}
		fmt.Fprintln(w)
	}
}
