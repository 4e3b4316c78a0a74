package kubernetes

import (
	"context"

	"github.com/futuretea/k8stools-mcp-server/pkg/summary"
	"github.com/futuretea/k8stools-mcp-server/pkg/toolset/paramutil"
)

type handlers struct {
	translator *summary.Translator
}

// getNamespaces handles the get_namespaces tool
func (h *handlers) getNamespaces(ctx context.Context, _ map[string]interface{}) (interface{}, error) {
	return h.translator.ListNamespaces(ctx)
}

// getPodSummaries handles the get_pod_summaries tool
func (h *handlers) getPodSummaries(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	namespace := paramutil.ExtractOptionalString(params, paramutil.ParamNamespace)
	return h.translator.ListPodSummaries(ctx, namespace)
}

// getPodContainerStatuses handles the get_pod_container_statuses tool
func (h *handlers) getPodContainerStatuses(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	name, namespace, err := podTarget(params)
	if err != nil {
		return nil, err
	}
	return h.translator.GetPodContainerStatuses(ctx, name, namespace)
}

// getPodEvents handles the get_pod_events tool
func (h *handlers) getPodEvents(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	name, namespace, err := podTarget(params)
	if err != nil {
		return nil, err
	}
	return h.translator.GetPodEvents(ctx, name, namespace)
}

// getPodSpec handles the get_pod_spec tool
func (h *handlers) getPodSpec(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	name, namespace, err := podTarget(params)
	if err != nil {
		return nil, err
	}
	return h.translator.GetPodSpec(ctx, name, namespace)
}

// getLogsForPodAndContainer handles the get_logs_for_pod_and_container tool
func (h *handlers) getLogsForPodAndContainer(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	name, namespace, err := podTarget(params)
	if err != nil {
		return nil, err
	}
	tailLines, err := paramutil.ExtractPositiveInt64(params, paramutil.ParamTailLines)
	if err != nil {
		return nil, err
	}
	since, err := paramutil.ExtractOptionalDuration(params, paramutil.ParamSince)
	if err != nil {
		return nil, err
	}

	return h.translator.GetLogsForPodAndContainer(ctx, name, namespace, summary.LogRequest{
		Container: paramutil.ExtractOptionalString(params, paramutil.ParamContainerName),
		TailLines: tailLines,
		Since:     since,
	})
}

// getDeploymentSummaries handles the get_deployment_summaries tool
func (h *handlers) getDeploymentSummaries(ctx context.Context, params map[string]interface{}) (interface{}, error) {
	namespace := paramutil.ExtractOptionalString(params, paramutil.ParamNamespace)
	return h.translator.ListDeploymentSummaries(ctx, namespace)
}

func podTarget(params map[string]interface{}) (name, namespace string, err error) {
	name, err = paramutil.ExtractRequiredString(params, paramutil.ParamPodName)
	if err != nil {
		return "", "", err
	}
	namespace, err = paramutil.ExtractRequiredString(params, paramutil.ParamNamespace)
	if err != nil {
		return "", "", err
	}
	return name, namespace, nil
}
