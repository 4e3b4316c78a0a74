package toolset

import (
	"errors"
	"fmt"
	"strings"
)

// Dispatcher error kinds.
const (
	KindUnknownTool      = "UnknownToolError"
	KindInvalidArguments = "InvalidArgumentsError"
	KindInternal         = "InternalError"
)

// Kinded is implemented by errors that carry a stable kind string.
type Kinded interface {
	ErrorKind() string
}

// KindOf returns the kind of the first error in err's chain that has one.
func KindOf(err error) string {
	var k Kinded
	if errors.As(err, &k) {
		return k.ErrorKind()
	}
	return KindInternal
}

// UnknownToolError is returned by Invoke for a name that is not registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

func (e *UnknownToolError) ErrorKind() string { return KindUnknownTool }

// InvalidArgumentsError is returned when arguments do not satisfy the tool's
// input schema or a handler rejects a parameter value.
type InvalidArgumentsError struct {
	Tool     string
	Problems []string
	Err      error
}

func (e *InvalidArgumentsError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, strings.Join(e.Problems, "; "))
}

func (e *InvalidArgumentsError) Unwrap() error { return e.Err }

func (e *InvalidArgumentsError) ErrorKind() string { return KindInvalidArguments }

// InvocationError wraps an error raised by a tool handler. Kind is taken from
// the handler error, e.g. PodNotFoundError.
type InvocationError struct {
	Tool string
	Kind string
	Err  error
}

func (e *InvocationError) Error() string {
	return e.Err.Error()
}

func (e *InvocationError) Unwrap() error { return e.Err }

func (e *InvocationError) ErrorKind() string { return e.Kind }
