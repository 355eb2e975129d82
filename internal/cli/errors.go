package cli

import (
	"errors"
	"fmt"
)

// ExitError asks the process to exit with Code. The command has already
// explained the failure to the user.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an Execute result to a process exit status: 0 on success,
// the carried code for an ExitError, and 1 for anything else.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
