package kubernetes

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var (
	stringProp   = map[string]any{"type": "string"}
	integerProp  = map[string]any{"type": "integer"}
	durationProp = map[string]any{
		"type":        "string",
		"description": "Go duration string, e.g. 72h0m0s",
	}
	timestampProp = map[string]any{
		"type":   "string",
		"format": "date-time",
	}
)

func inputSchema(required []string, properties map[string]any) mcp.ToolInputSchema {
	if properties == nil {
		properties = map[string]any{}
	}
	return mcp.ToolInputSchema{Type: "object", Properties: properties, Required: required}
}

// listOutput describes {"result": [item, ...]}.
func listOutput(item map[string]any) mcp.ToolOutputSchema {
	return mcp.ToolOutputSchema{
		Type: "object",
		Properties: map[string]any{
			"result": map[string]any{
				"type":  "array",
				"items": item,
			},
		},
		Required: []string{"result"},
	}
}

func object(required []string, properties map[string]any) map[string]any {
	o := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		o["required"] = required
	}
	return o
}

var podNameProp = map[string]any{
	"type":        "string",
	"description": "Name of the pod",
}

var namespaceProp = map[string]any{
	"type":        "string",
	"description": "Namespace of the pod",
}

var optionalNamespaceProp = map[string]any{
	"type":        "string",
	"description": "Namespace to list from; omit for all namespaces",
}

var namespaceItem = object(
	[]string{"name", "status", "age"},
	map[string]any{
		"name":   stringProp,
		"status": stringProp,
		"age":    durationProp,
	},
)

var podSummaryItem = object(
	[]string{"name", "namespace", "total_containers", "ready_containers", "age"},
	map[string]any{
		"name":             stringProp,
		"namespace":        stringProp,
		"total_containers": integerProp,
		"ready_containers": integerProp,
		"age":              durationProp,
	},
)

var containerStateSchema = object(
	[]string{"kind"},
	map[string]any{
		"kind": map[string]any{
			"type": "string",
			"enum": []string{"running", "waiting", "terminated", "none"},
		},
		"running": object(nil, map[string]any{
			"started_at": timestampProp,
		}),
		"waiting": object(nil, map[string]any{
			"reason":  stringProp,
			"message": stringProp,
		}),
		"terminated": object([]string{"exit_code"}, map[string]any{
			"exit_code":   integerProp,
			"reason":      stringProp,
			"message":     stringProp,
			"started_at":  timestampProp,
			"finished_at": timestampProp,
		}),
	},
)

var containerStatusItem = object(
	[]string{"container_name", "ready", "restart_count", "state", "last_state"},
	map[string]any{
		"container_name": stringProp,
		"image":          stringProp,
		"ready":          map[string]any{"type": "boolean"},
		"restart_count":  map[string]any{"type": "integer", "minimum": 0},
		"state":          containerStateSchema,
		"last_state":     containerStateSchema,
	},
)

var podEventItem = object(
	[]string{"object", "type", "reason", "message", "last_seen"},
	map[string]any{
		"object":    stringProp,
		"type":      stringProp,
		"reason":    stringProp,
		"message":   stringProp,
		"last_seen": durationProp,
	},
)

var deploymentItem = object(
	[]string{"name", "namespace", "total_replicas", "ready_replicas", "up_to_date_replicas", "available_replicas", "age"},
	map[string]any{
		"name":                stringProp,
		"namespace":           stringProp,
		"total_replicas":      integerProp,
		"ready_replicas":      integerProp,
		"up_to_date_replicas": integerProp,
		"available_replicas":  integerProp,
		"age":                 durationProp,
	},
)

var podSpecOutput = mcp.ToolOutputSchema{
	Type: "object",
	Properties: map[string]any{
		"result": map[string]any{
			"type":                 "object",
			"description":          "The pod spec as returned by the API server",
			"additionalProperties": true,
		},
	},
	Required: []string{"result"},
}
