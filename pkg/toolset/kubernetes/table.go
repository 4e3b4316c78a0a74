package kubernetes

import (
	"fmt"
	"strconv"
	"time"

	"k8s.io/apimachinery/pkg/util/duration"

	"github.com/futuretea/k8stools-mcp-server/pkg/summary"
)

func namespaceTable(v interface{}) ([]string, [][]string) {
	items, _ := v.([]summary.NamespaceSummary)
	rows := make([][]string, 0, len(items))
	for _, ns := range items {
		rows = append(rows, []string{ns.Name, ns.Status, formatAge(ns.Age.Duration)})
	}
	return []string{"name", "status", "age"}, rows
}

func podSummaryTable(v interface{}) ([]string, [][]string) {
	items, _ := v.([]summary.PodSummary)
	rows := make([][]string, 0, len(items))
	for _, pod := range items {
		rows = append(rows, []string{
			pod.Namespace,
			pod.Name,
			fmt.Sprintf("%d/%d", pod.ReadyContainers, pod.TotalContainers),
			formatAge(pod.Age.Duration),
		})
	}
	return []string{"namespace", "name", "ready", "age"}, rows
}

func containerStatusTable(v interface{}) ([]string, [][]string) {
	items, _ := v.([]summary.ContainerStatus)
	rows := make([][]string, 0, len(items))
	for _, cs := range items {
		rows = append(rows, []string{
			cs.ContainerName,
			strconv.FormatBool(cs.Ready),
			strconv.Itoa(int(cs.RestartCount)),
			describeState(cs.State),
			describeState(cs.LastState),
		})
	}
	return []string{"container", "ready", "restarts", "state", "last_state"}, rows
}

func podEventTable(v interface{}) ([]string, [][]string) {
	items, _ := v.([]summary.PodEvent)
	rows := make([][]string, 0, len(items))
	for _, evt := range items {
		rows = append(rows, []string{formatAge(evt.LastSeen.Duration), evt.Type, evt.Reason, evt.Object, evt.Message})
	}
	return []string{"last_seen", "type", "reason", "object", "message"}, rows
}

func deploymentTable(v interface{}) ([]string, [][]string) {
	items, _ := v.([]summary.DeploymentSummary)
	rows := make([][]string, 0, len(items))
	for _, dep := range items {
		rows = append(rows, []string{
			dep.Namespace,
			dep.Name,
			fmt.Sprintf("%d/%d", dep.ReadyReplicas, dep.TotalReplicas),
			strconv.Itoa(int(dep.UpToDateReplicas)),
			strconv.Itoa(int(dep.AvailableReplicas)),
			formatAge(dep.Age.Duration),
		})
	}
	return []string{"namespace", "name", "ready", "up_to_date", "available", "age"}, rows
}

func describeState(s summary.ContainerState) string {
	switch s.Kind {
	case summary.StateWaiting:
		if s.Waiting != nil && s.Waiting.Reason != "" {
			return "Waiting (" + s.Waiting.Reason + ")"
		}
		return "Waiting"
	case summary.StateTerminated:
		if s.Terminated != nil {
			if s.Terminated.Reason != "" {
				return fmt.Sprintf("Terminated (%s, exit %d)", s.Terminated.Reason, s.Terminated.ExitCode)
			}
			return fmt.Sprintf("Terminated (exit %d)", s.Terminated.ExitCode)
		}
		return "Terminated"
	case summary.StateRunning:
		return "Running"
	default:
		return "-"
	}
}

// formatAge renders a duration the way kubectl prints ages.
func formatAge(d time.Duration) string {
	if d <= 0 {
		return "<unknown>"
	}
	return duration.HumanDuration(d)
}
