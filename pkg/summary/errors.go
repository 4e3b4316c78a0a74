package summary

import (
	"errors"
	"fmt"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// Kind classifies translator failures. The string values are surfaced to tool callers.
type Kind string

const (
	KindClusterQuery       Kind = "ClusterQueryError"
	KindPodNotFound        Kind = "PodNotFoundError"
	KindAmbiguousContainer Kind = "AmbiguousContainerError"
	KindLogFetch           Kind = "LogFetchError"
)

// Sentinels for errors.Is matching against an *Error of the same kind.
var (
	ErrClusterQuery       = errors.New("cluster query failed")
	ErrPodNotFound        = errors.New("pod not found")
	ErrAmbiguousContainer = errors.New("pod has more than one container, container_name is required")
	ErrLogFetch           = errors.New("failed to fetch logs")
)

// Error is returned by every Translator operation that fails.
type Error struct {
	Kind      Kind
	Op        string
	Namespace string
	Name      string
	Err       error
}

func (e *Error) Error() string {
	msg := e.sentinel().Error()
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if target := e.target(); target != "" {
		return fmt.Sprintf("%s %s: %s", e.Op, target, msg)
	}
	return fmt.Sprintf("%s: %s", e.Op, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	return target == e.sentinel()
}

// ErrorKind returns the kind as a plain string.
func (e *Error) ErrorKind() string {
	return string(e.Kind)
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindPodNotFound:
		return ErrPodNotFound
	case KindAmbiguousContainer:
		return ErrAmbiguousContainer
	case KindLogFetch:
		return ErrLogFetch
	default:
		return ErrClusterQuery
	}
}

func (e *Error) target() string {
	switch {
	case e.Namespace != "" && e.Name != "":
		return e.Namespace + "/" + e.Name
	case e.Name != "":
		return e.Name
	case e.Namespace != "":
		return "namespace " + e.Namespace
	default:
		return ""
	}
}

// queryError wraps a failed list or read call. A not-found response for a pod
// read becomes KindPodNotFound, everything else KindClusterQuery.
func queryError(op, namespace, name string, err error) error {
	kind := KindClusterQuery
	if name != "" && apierrors.IsNotFound(err) {
		kind = KindPodNotFound
	}
	return &Error{Kind: kind, Op: op, Namespace: namespace, Name: name, Err: err}
}
