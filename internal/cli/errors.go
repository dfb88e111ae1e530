package cli

import (
	"errors"
	"fmt"

	"github.com/agisilaos/gfare/internal/model"
	"github.com/agisilaos/gfare/internal/provider"
)

const (
	ExitSuccess         = 0
	ExitGenericFailure  = 1
	ExitInvalidUsage    = 2
	ExitAuthRequired    = 3
	ExitProviderFailure = 4
	ExitNoMatches       = 5
)

type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

func (e ExitError) Unwrap() error {
	return e.Err
}

type unknownCommandError struct {
	Name        string
	Suggestions []string
}

func (e unknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Name)
}

func newExitError(code int, format string, args ...any) error {
	return ExitError{Code: code, Err: fmt.Errorf(format, args...)}
}

func wrapExitError(code int, err error) error {
	if err == nil {
		return nil
	}
	var ex ExitError
	if errors.As(err, &ex) {
		return err
	}
	return ExitError{Code: code, Err: err}
}

func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var unknown unknownCommandError
	if errors.As(err, &unknown) {
		return ExitInvalidUsage
	}
	var ex ExitError
	if errors.As(err, &ex) {
		if ex.Code <= 0 {
			return ExitGenericFailure
		}
		return ex.Code
	}
	return ExitGenericFailure
}

func wrapProviderError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, provider.ErrAuthRequired) {
		return wrapExitError(ExitAuthRequired, err)
	}
	return wrapExitError(ExitProviderFailure, err)
}

// ErrorHints suggests follow-up commands for err.
func ErrorHints(err error) []string {
	if err == nil {
		return nil
	}
	var unknown unknownCommandError
	if errors.As(err, &unknown) {
		hints := make([]string, 0, len(unknown.Suggestions)+1)
		for _, s := range unknown.Suggestions {
			hints = append(hints, "gfare "+s)
		}
		return append(hints, "gfare --help")
	}
	switch {
	case errors.Is(err, provider.ErrAuthRequired):
		return []string{"export AMADEUS_CLIENT_ID and AMADEUS_CLIENT_SECRET, or run gfare auth login", "gfare auth status --check"}
	case errors.Is(err, provider.ErrRateLimited), errors.Is(err, provider.ErrServiceUnavailable), errors.Is(err, provider.ErrTimedOut):
		return []string{"retry in a moment", "gfare doctor"}
	case errors.Is(err, provider.ErrConnection):
		return []string{"gfare config get amadeus_base_url", "gfare doctor"}
	case errors.Is(err, model.ErrInvalidRequest):
		return []string{"gfare search --from RGN --to BKK --date 2026-05-10"}
	}
	if ExitCode(err) == ExitInvalidUsage {
		return []string{"gfare --help"}
	}
	return nil
}
