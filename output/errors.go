package output

import (
	"errors"
	"fmt"

	"github.com/fatih/color"

	"postpilot/api"
	"postpilot/generator"
)

const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitUsageError  = 2
	ExitAPIError    = 3
	ExitConfigError = 4
)

// CLIError is a structured error with user-facing context.
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
}

func (e *CLIError) Error() string {
	return e.Summary
}

// FromError maps validation and API failures onto CLIError.
func FromError(err error) *CLIError {
	if err == nil {
		return nil
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}
	var vErr *generator.ValidationError
	if errors.As(err, &vErr) {
		return &CLIError{Summary: vErr.Title, Detail: vErr.Message, ExitCode: ExitUsageError}
	}
	if apiErr, ok := api.AsAPIError(err); ok {
		e := &CLIError{Summary: apiErr.Message, ExitCode: ExitAPIError}
		if apiErr.Status == 0 {
			e.Suggestion = "Check that the PostPilot API is reachable (postpilot health, --server)."
		} else {
			e.Detail = fmt.Sprintf("HTTP %d", apiErr.Status)
		}
		return e
	}
	return &CLIError{Summary: err.Error(), ExitCode: ExitGeneral}
}

func (p *Printer) FormatError(e *CLIError) {
	if p.useColors {
		color.New(color.FgRed, color.Bold).Fprintf(p.err, "Error: %s\n", e.Summary)
	} else {
		fmt.Fprintf(p.err, "[ERROR] %s\n", e.Summary)
	}
	if e.Detail != "" {
		fmt.Fprintf(p.err, "  Cause: %s\n", e.Detail)
	}
	if e.Suggestion != "" {
		if p.useColors {
			color.New(color.FgCyan).Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		} else {
			fmt.Fprintf(p.err, "  Suggestion: %s\n", e.Suggestion)
		}
	}
}
