// Package kubernetes provides the read-only Kubernetes inspection toolset.
package kubernetes

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/futuretea/k8stools-mcp-server/pkg/summary"
	"github.com/futuretea/k8stools-mcp-server/pkg/toolset"
	"github.com/futuretea/k8stools-mcp-server/pkg/toolset/paramutil"
)

// Tool names
const (
	ToolGetNamespaces             = "get_namespaces"
	ToolGetPodSummaries           = "get_pod_summaries"
	ToolGetPodContainerStatuses   = "get_pod_container_statuses"
	ToolGetPodEvents              = "get_pod_events"
	ToolGetPodSpec                = "get_pod_spec"
	ToolGetLogsForPodAndContainer = "get_logs_for_pod_and_container"
	ToolGetDeploymentSummaries    = "get_deployment_summaries"
)

// Toolset implements the Kubernetes inspection toolset
type Toolset struct{}

var _ toolset.Toolset = (*Toolset)(nil)

// GetName returns the name of the toolset
func (t *Toolset) GetName() string {
	return "kubernetes"
}

// GetDescription returns the description of the toolset
func (t *Toolset) GetDescription() string {
	return "Read-only inspection of namespaces, pods, deployments, events and logs"
}

// GetTools returns the tools provided by this toolset
func (t *Toolset) GetTools(translator *summary.Translator) []toolset.ServerTool {
	h := &handlers{translator: translator}

	return []toolset.ServerTool{
		{
			Tool: mcp.Tool{
				Name: ToolGetNamespaces,
				Description: "Return a summary of the namespaces for this Kubernetes cluster, similar to what " +
					"is returned by `kubectl get namespace`.",
				InputSchema:  inputSchema(nil, nil),
				OutputSchema: listOutput(namespaceItem),
				Annotations:  toolset.ReadOnlyAnnotations("Get Namespaces"),
			},
			Handler: h.getNamespaces,
			Table:   namespaceTable,
		},
		{
			Tool: mcp.Tool{
				Name: ToolGetPodSummaries,
				Description: "Retrieves a list of PodSummary objects for pods in a given namespace or all namespaces.\n\n" +
					"Each summary has the pod name and namespace, the number of declared containers, the number of " +
					"ready containers and the pod age, similar to `kubectl get pods`.",
				InputSchema: inputSchema(nil, map[string]any{
					paramutil.ParamNamespace: optionalNamespaceProp,
				}),
				OutputSchema: listOutput(podSummaryItem),
				Annotations:  toolset.ReadOnlyAnnotations("Get Pod Summaries"),
			},
			Handler: h.getPodSummaries,
			Table:   podSummaryTable,
		},
		{
			Tool: mcp.Tool{
				Name: ToolGetPodContainerStatuses,
				Description: "Get the status for all containers in a specified Kubernetes pod.\n\n" +
					"Each entry has the container name, readiness, restart count, the current state and the last " +
					"state, where a state is one of running, waiting, terminated or none.",
				InputSchema: inputSchema([]string{paramutil.ParamPodName, paramutil.ParamNamespace}, map[string]any{
					paramutil.ParamPodName:   podNameProp,
					paramutil.ParamNamespace: namespaceProp,
				}),
				OutputSchema: listOutput(containerStatusItem),
				Annotations:  toolset.ReadOnlyAnnotations("Get Pod Container Statuses"),
			},
			Handler: h.getPodContainerStatuses,
			Table:   containerStatusTable,
		},
		{
			Tool: mcp.Tool{
				Name: ToolGetPodEvents,
				Description: "Get events for a specific Kubernetes pod, in the order the API server returns them. " +
					"This is equivalent to the events section of `kubectl describe pod`.",
				InputSchema: inputSchema([]string{paramutil.ParamPodName, paramutil.ParamNamespace}, map[string]any{
					paramutil.ParamPodName:   podNameProp,
					paramutil.ParamNamespace: namespaceProp,
				}),
				OutputSchema: listOutput(podEventItem),
				Annotations:  toolset.ReadOnlyAnnotations("Get Pod Events"),
			},
			Handler: h.getPodEvents,
			Table:   podEventTable,
		},
		{
			Tool: mcp.Tool{
				Name: ToolGetPodSpec,
				Description: "Retrieves the spec for a given pod in a specific namespace.\n\n" +
					"The spec is returned as a plain JSON object with the same field names as the Kubernetes API, " +
					"including the declared containers with their names and images.",
				InputSchema: inputSchema([]string{paramutil.ParamPodName, paramutil.ParamNamespace}, map[string]any{
					paramutil.ParamPodName:   podNameProp,
					paramutil.ParamNamespace: namespaceProp,
				}),
				OutputSchema: podSpecOutput,
				Annotations:  toolset.ReadOnlyAnnotations("Get Pod Spec"),
			},
			Handler: h.getPodSpec,
		},
		{
			Tool: mcp.Tool{
				Name: ToolGetLogsForPodAndContainer,
				Description: "Get logs for a specific pod and container, with each line prefixed by its timestamp.\n\n" +
					"container_name may be omitted when the pod has exactly one container. tail_lines limits the " +
					"output to the most recent lines and since limits it to a recent time window such as 10m or 1h.",
				InputSchema: inputSchema([]string{paramutil.ParamPodName, paramutil.ParamNamespace}, map[string]any{
					paramutil.ParamPodName:   podNameProp,
					paramutil.ParamNamespace: namespaceProp,
					paramutil.ParamContainerName: map[string]any{
						"type":        "string",
						"description": "Name of the container; required when the pod has more than one",
					},
					paramutil.ParamTailLines: map[string]any{
						"type":        "integer",
						"minimum":     1,
						"maximum":     paramutil.MaxTailLines,
						"description": "Number of lines from the end of the log to return",
					},
					paramutil.ParamSince: map[string]any{
						"type":        "string",
						"description": "Only return logs newer than this duration, e.g. 10m or 1h",
					},
				}),
				Annotations: toolset.ReadOnlyAnnotations("Get Logs For Pod And Container"),
			},
			Handler: h.getLogsForPodAndContainer,
		},
		{
			Tool: mcp.Tool{
				Name: ToolGetDeploymentSummaries,
				Description: "Retrieves a list of DeploymentSummary objects for deployments in a given namespace or " +
					"all namespaces, similar to `kubectl get deployments`.",
				InputSchema: inputSchema(nil, map[string]any{
					paramutil.ParamNamespace: optionalNamespaceProp,
				}),
				OutputSchema: listOutput(deploymentItem),
				Annotations:  toolset.ReadOnlyAnnotations("Get Deployment Summaries"),
			},
			Handler: h.getDeploymentSummaries,
			Table:   deploymentTable,
		},
	}
}
