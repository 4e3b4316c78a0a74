package toolset

import (
	"fmt"

	"github.com/futuretea/k8stools-mcp-server/pkg/output"
	"github.com/futuretea/k8stools-mcp-server/pkg/toolset/paramutil"
)

// Result is the successful outcome of an invocation.
type Result struct {
	// Value is what the handler returned.
	Value interface{}
	// Structured is true when the tool declares an output schema.
	Structured bool

	table TableFunc
}

// StructuredContent wraps Value as {"result": Value}, the object shape the
// output schemas describe. Nil for text tools.
func (r *Result) StructuredContent() map[string]interface{} {
	if !r.Structured {
		return nil
	}
	return map[string]interface{}{"result": r.Value}
}

// Text renders the result. Text tools return their value unchanged; structured
// results are rendered as json, yaml or table.
func (r *Result) Text(format string) (string, error) {
	if !r.Structured {
		if s, ok := r.Value.(string); ok {
			return s, nil
		}
		return fmt.Sprint(r.Value), nil
	}

	formatter := output.NewFormatter()
	if format == paramutil.FormatTable && r.table != nil {
		headers, rows := r.table(r.Value)
		return formatter.FormatTable(headers, rows), nil
	}
	return formatter.Format(r.Value, format)
}
