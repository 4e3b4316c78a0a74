package kubernetes

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/futuretea/k8stools-mcp-server/pkg/summary"
	"github.com/futuretea/k8stools-mcp-server/pkg/summary/summarytest"
	"github.com/futuretea/k8stools-mcp-server/pkg/toolset"
	"github.com/futuretea/k8stools-mcp-server/pkg/toolset/paramutil"
)

var expectedTools = []string{
	"get_namespaces",
	"get_pod_summaries",
	"get_pod_container_statuses",
	"get_pod_events",
	"get_pod_spec",
	"get_logs_for_pod_and_container",
	"get_deployment_summaries",
}

func newRegistry(t *testing.T, reader summary.ClusterReader) *toolset.Registry {
	t.Helper()
	translator := summary.NewTranslator(reader, testingclock.NewFakePassiveClock(summarytest.Now))
	r, err := toolset.NewRegistry((&Toolset{}).GetTools(translator)...)
	require.NoError(t, err)
	return r
}

func TestToolNames(t *testing.T) {
	r := newRegistry(t, summarytest.NewFixture())

	descriptors := r.ListTools()
	names := make([]string, 0, len(descriptors))
	seen := map[string]bool{}
	for _, d := range descriptors {
		assert.False(t, seen[d.Name], "duplicate tool %s", d.Name)
		seen[d.Name] = true
		names = append(names, d.Name)
	}
	assert.Equal(t, expectedTools, names)
	assert.Equal(t, names, r.Names(), "listing should be stable")
}

func TestToolDescriptors(t *testing.T) {
	r := newRegistry(t, summarytest.NewFixture())

	for _, d := range r.ListTools() {
		t.Run(d.Name, func(t *testing.T) {
			assert.NotEmpty(t, d.Title)
			assert.NotEmpty(t, d.Description)
			assert.Equal(t, "object", d.InputSchema["type"])

			if d.Name == ToolGetLogsForPodAndContainer {
				assert.Nil(t, d.OutputSchema, "raw log text has no output schema")
				return
			}
			require.NotNil(t, d.OutputSchema)
			assert.Equal(t, []interface{}{"result"}, d.OutputSchema["required"])
		})
	}

	for _, tool := range r.Tools() {
		require.NotNil(t, tool.Tool.Annotations.ReadOnlyHint, tool.Tool.Name)
		assert.True(t, *tool.Tool.Annotations.ReadOnlyHint, tool.Tool.Name)
	}
}

func TestRequiredParameters(t *testing.T) {
	r := newRegistry(t, summarytest.NewFixture())
	byName := map[string]toolset.ToolDescriptor{}
	for _, d := range r.ListTools() {
		byName[d.Name] = d
	}

	podTools := []string{ToolGetPodContainerStatuses, ToolGetPodEvents, ToolGetPodSpec, ToolGetLogsForPodAndContainer}
	for _, name := range podTools {
		assert.Equal(t, []interface{}{"pod_name", "namespace"}, byName[name].InputSchema["required"], name)
	}
	for _, name := range []string{ToolGetNamespaces, ToolGetPodSummaries, ToolGetDeploymentSummaries} {
		assert.NotContains(t, byName[name].InputSchema, "required", name)
	}
}

func TestInvokeGetPodEvents(t *testing.T) {
	r := newRegistry(t, summarytest.NewFixture())

	result, err := r.Invoke(context.Background(), ToolGetPodEvents, map[string]interface{}{
		"pod_name":  "pod-1",
		"namespace": "default",
	})
	require.NoError(t, err)
	require.True(t, result.Structured)

	events, ok := result.Value.([]summary.PodEvent)
	require.True(t, ok, "unexpected result type %T", result.Value)
	require.Len(t, events, 2)
	assert.Equal(t, "Normal", events[0].Type)
	assert.Equal(t, "Started", events[0].Reason)
	assert.Equal(t, "pod-1", events[0].Object)
	assert.Equal(t, "Warning", events[1].Type)
	assert.Equal(t, "Failed", events[1].Reason)
	assert.Equal(t, "pod-1", events[1].Object)

	text, err := result.Text(paramutil.FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, text, `"last_seen": "1h0m0s"`)
}

func TestInvokeGetLogs(t *testing.T) {
	reader := summarytest.NewFixture()
	r := newRegistry(t, reader)

	result, err := r.Invoke(context.Background(), ToolGetLogsForPodAndContainer, map[string]interface{}{
		"pod_name":       "pod-1",
		"namespace":      "default",
		"container_name": "container-1",
		"tail_lines":     50,
		"since":          "10m",
	})
	require.NoError(t, err)
	assert.False(t, result.Structured)
	assert.Nil(t, result.StructuredContent())

	logs, err := result.Text(paramutil.FormatTable)
	require.NoError(t, err)
	first := strings.Index(logs, "container-1 log line 1")
	second := strings.Index(logs, "container-1 log line 2")
	require.GreaterOrEqual(t, first, 0)
	require.GreaterOrEqual(t, second, 0)
	assert.Less(t, first, second)

	opts := reader.LastLogOptions()
	require.NotNil(t, opts.TailLines)
	assert.Equal(t, int64(50), *opts.TailLines)
	require.NotNil(t, opts.SinceSeconds)
	assert.Equal(t, int64((10 * time.Minute).Seconds()), *opts.SinceSeconds)
	assert.True(t, opts.Timestamps)
}

func TestInvokeGetLogsInvalidArguments(t *testing.T) {
	r := newRegistry(t, summarytest.NewFixture())

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing pod name", map[string]interface{}{"namespace": "default"}},
		{"zero tail lines", map[string]interface{}{"pod_name": "pod-1", "namespace": "default", "tail_lines": 0}},
		{"huge tail lines", map[string]interface{}{"pod_name": "pod-1", "namespace": "default", "tail_lines": 1e19}},
		{"tail lines above maximum", map[string]interface{}{"pod_name": "pod-1", "namespace": "default", "tail_lines": paramutil.MaxTailLines + 1}},
		{"bad since", map[string]interface{}{"pod_name": "pod-1", "namespace": "default", "since": "a while"}},
		{"empty pod name", map[string]interface{}{"pod_name": "", "namespace": "default"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Invoke(context.Background(), ToolGetLogsForPodAndContainer, tt.args)
			require.Error(t, err)
			assert.Equal(t, toolset.KindInvalidArguments, toolset.KindOf(err))
		})
	}
}

func TestInvokeErrorKinds(t *testing.T) {
	r := newRegistry(t, summarytest.NewFixture())

	tests := []struct {
		name     string
		tool     string
		args     map[string]interface{}
		wantKind string
	}{
		{"pod not found", ToolGetPodSpec, map[string]interface{}{"pod_name": "ghost", "namespace": "default"}, "PodNotFoundError"},
		{"ambiguous container", ToolGetLogsForPodAndContainer, map[string]interface{}{"pod_name": "pod-2", "namespace": "test"}, "AmbiguousContainerError"},
		{"unknown tool", "unknown_tool", map[string]interface{}{}, "UnknownToolError"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Invoke(context.Background(), tt.tool, tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, toolset.KindOf(err))
		})
	}
}

func TestInvokeDeploymentSummaries(t *testing.T) {
	r := newRegistry(t, summarytest.NewFixture())

	result, err := r.Invoke(context.Background(), ToolGetDeploymentSummaries, map[string]interface{}{"namespace": "default"})
	require.NoError(t, err)

	deployments := result.Value.([]summary.DeploymentSummary)
	require.Len(t, deployments, 1)
	d := deployments[0]
	assert.Equal(t, "nginx-deployment", d.Name)
	assert.Equal(t, int32(3), d.TotalReplicas)
	assert.Equal(t, int32(2), d.ReadyReplicas)
	assert.Equal(t, int32(3), d.UpToDateReplicas)
	assert.Equal(t, int32(2), d.AvailableReplicas)

	table, err := result.Text(paramutil.FormatTable)
	require.NoError(t, err)
	assert.Contains(t, table, "nginx-deployment")
	assert.Contains(t, table, "2/3")
	assert.Contains(t, table, "2d")
	assert.NotContains(t, table, "app-deployment")
}

func TestInvokePodSpecStructuredContent(t *testing.T) {
	r := newRegistry(t, summarytest.NewFixture())

	result, err := r.Invoke(context.Background(), ToolGetPodSpec, map[string]interface{}{"pod_name": "pod-1", "namespace": "default"})
	require.NoError(t, err)

	content := result.StructuredContent()
	spec, ok := content["result"].(summary.PodSpec)
	require.True(t, ok, "unexpected result type %T", content["result"])
	containers := spec["containers"].([]interface{})
	require.Len(t, containers, 1)
	assert.Equal(t, "container-1", containers[0].(map[string]interface{})["name"])
	assert.Equal(t, "nginx:latest", containers[0].(map[string]interface{})["image"])
}

func TestInvokeConcurrent(t *testing.T) {
	r := newRegistry(t, summarytest.NewFixture())

	type outcome struct {
		result *toolset.Result
		err    error
	}
	calls := []struct {
		tool     string
		args     map[string]interface{}
		wantKind string
	}{
		{tool: ToolGetPodSummaries, args: map[string]interface{}{}},
		{tool: ToolGetDeploymentSummaries, args: map[string]interface{}{"namespace": "test"}},
		{tool: ToolGetPodContainerStatuses, args: map[string]interface{}{"pod_name": "pod-2", "namespace": "test"}},
		{tool: ToolGetPodSpec, args: map[string]interface{}{"pod_name": "ghost", "namespace": "default"}, wantKind: "PodNotFoundError"},
		{tool: ToolGetPodEvents, args: map[string]interface{}{"namespace": "default"}, wantKind: toolset.KindInvalidArguments},
	}

	outcomes := make([]outcome, 10*len(calls))
	var wg sync.WaitGroup
	for i := range outcomes {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			call := calls[i%len(calls)]
			result, err := r.Invoke(context.Background(), call.tool, call.args)
			outcomes[i] = outcome{result, err}
		}(i)
	}
	wg.Wait()

	for i, o := range outcomes {
		call := calls[i%len(calls)]
		if call.wantKind != "" {
			require.Error(t, o.err, call.tool)
			assert.Equal(t, call.wantKind, toolset.KindOf(o.err), call.tool)
			continue
		}
		require.NoError(t, o.err, call.tool)
		switch v := o.result.Value.(type) {
		case []summary.PodSummary:
			assert.Len(t, v, 2)
		case []summary.DeploymentSummary:
			require.Len(t, v, 1)
			assert.Equal(t, "app-deployment", v[0].Name)
		case []summary.ContainerStatus:
			assert.Len(t, v, 2)
		default:
			t.Errorf("%s: unexpected result type %T", call.tool, o.result.Value)
		}
	}
}

func TestTables(t *testing.T) {
	headers, rows := containerStatusTable([]summary.ContainerStatus{{
		ContainerName: "app",
		Ready:         true,
		RestartCount:  2,
		State:         summary.ContainerState{Kind: summary.StateWaiting, Waiting: &summary.WaitingState{Reason: "CrashLoopBackOff"}},
		LastState:     summary.ContainerState{Kind: summary.StateTerminated, Terminated: &summary.TerminatedState{ExitCode: 1, Reason: "Error"}},
	}})
	assert.Equal(t, []string{"container", "ready", "restarts", "state", "last_state"}, headers)
	assert.Equal(t, [][]string{{"app", "true", "2", "Waiting (CrashLoopBackOff)", "Terminated (Error, exit 1)"}}, rows)

	_, rows = podSummaryTable([]summary.PodSummary{{Name: "p", Namespace: "ns", TotalContainers: 3, ReadyContainers: 1}})
	assert.Equal(t, "1/3", rows[0][2])
	assert.Equal(t, "<unknown>", rows[0][3])
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "<unknown>"},
		{45 * time.Second, "45s"},
		{30 * time.Minute, "30m"},
		{5 * 24 * time.Hour, "5d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatAge(tt.d), tt.d.String())
	}
}
