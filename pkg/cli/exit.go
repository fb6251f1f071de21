package cli

import (
	"errors"
	"fmt"

	"github.com/sanma/boundvar/pkg/compress"
	"github.com/sanma/boundvar/pkg/diagnostics"
	"github.com/sanma/boundvar/pkg/evaluator"
	"github.com/sanma/boundvar/pkg/runtime"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitUsage       = 1
	ExitDiagnostics = 2
	ExitExhausted   = 3
	ExitStuck       = 4
	ExitCompress    = 5
)

// ExitError is an error that carries a specific process exit code.
// Cobra's RunE returns this to signal the desired exit code to main.
type ExitError struct {
	Code    int
	Message string

	// Reported is set when diagnostics were already written to stderr.
	Reported bool
}

func (e *ExitError) Error() string {
	return e.Message
}

// exitError creates a new ExitError with the given code and formatted message.
func exitError(code int, format string, args ...any) *ExitError {
	return &ExitError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func exitCodeForDiag(code string) int {
	switch code {
	case diagnostics.EResource:
		return ExitExhausted
	case diagnostics.EType, diagnostics.EStuck, diagnostics.EUnbound:
		return ExitStuck
	case diagnostics.ECompress:
		return ExitCompress
	case diagnostics.EIO, diagnostics.EConfig:
		return ExitUsage
	default:
		return ExitDiagnostics
	}
}

// asExit maps a runtime error onto its exit code and the diagnostics to
// print for it.
func asExit(err error) (int, []diagnostics.Diagnostic) {
	var (
		diagErr   *runtime.DiagnosticError
		rtErr     *evaluator.RuntimeError
		verifyErr *compress.VerifyError
	)
	switch {
	case errors.As(err, &diagErr):
		code := ExitDiagnostics
		for _, d := range diagErr.Diagnostics {
			code = max(code, exitCodeForDiag(d.Code))
		}
		return code, diagErr.Diagnostics
	case errors.As(err, &rtErr):
		return exitCodeForDiag(rtErr.Code), []diagnostics.Diagnostic{diagnostics.MakeDiag(rtErr.Code, rtErr.Message, nil, "")}
	case errors.As(err, &verifyErr):
		return ExitCompress, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.ECompress, verifyErr.Error(), nil, "")}
	case errors.Is(err, compress.ErrMalformedSolution):
		return ExitDiagnostics, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.ESolution, err.Error(), nil,
			"a solution reads \"solve <puzzle> <sequence>\"")}
	}
	return ExitUsage, []diagnostics.Diagnostic{diagnostics.MakeDiag(diagnostics.EIO, err.Error(), nil, "")}
}
