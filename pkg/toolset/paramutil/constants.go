package paramutil

import "errors"

// Format constants
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatTable = "table"
)

// Parameter name constants
const (
	ParamPodName       = "pod_name"
	ParamNamespace     = "namespace"
	ParamContainerName = "container_name"
	ParamTailLines     = "tail_lines"
	ParamSince         = "since"
)

// MaxTailLines bounds tail_lines.
const MaxTailLines = 1 << 20

// Error definitions
var (
	ErrMissingParameter = errors.New("missing required parameter")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrInvalidFormat    = errors.New("invalid output format")
)
