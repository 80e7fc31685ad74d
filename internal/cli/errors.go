package cli

import (
	"errors"
	"fmt"

	"github.com/mark3labs/apimeta/internal/definition"
)

// ErrUsage marks errors caused by bad flags, config or input paths.
var ErrUsage = errors.New("cli usage error")

type usageError struct {
	msg string
}

func newUsageError(msg string) error {
	return usageError{msg: msg}
}

func (e usageError) Error() string {
	return e.msg
}

func (e usageError) Is(target error) bool {
	return target == ErrUsage
}

// describeLoadError turns a single definition failure into a usage error
// that names the file at fault. Other errors pass through.
func describeLoadError(err error) error {
	var le *definition.LoadError
	if !errors.As(err, &le) {
		return err
	}
	msg := fmt.Sprintf("definition %s: %s", le.Resource, le.Message)
	if le.Reference != "" {
		msg = fmt.Sprintf("%s\nReference: %s", msg, le.Reference)
	}
	return newUsageError(fmt.Sprintf("%s\nCode: %s", msg, le.Code))
}
