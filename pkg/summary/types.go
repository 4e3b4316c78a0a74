package summary

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// NamespaceSummary is the flattened view of a namespace.
type NamespaceSummary struct {
	Name   string          `json:"name"`
	Status string          `json:"status"`
	Age    metav1.Duration `json:"age"`
}

// PodSummary is the flattened view of a pod.
//
// TotalContainers comes from the declared spec while ReadyContainers comes from
// the reported statuses, so a pod whose runtime has not reported yet shows 0 of N.
type PodSummary struct {
	Name            string          `json:"name"`
	Namespace       string          `json:"namespace"`
	TotalContainers int             `json:"total_containers"`
	ReadyContainers int             `json:"ready_containers"`
	Age             metav1.Duration `json:"age"`
}

// StateKind names the active variant of a ContainerState.
type StateKind string

const (
	StateRunning    StateKind = "running"
	StateWaiting    StateKind = "waiting"
	StateTerminated StateKind = "terminated"
	StateNone       StateKind = "none"
)

// ContainerState holds exactly one active variant, identified by Kind.
type ContainerState struct {
	Kind       StateKind        `json:"kind"`
	Running    *RunningState    `json:"running,omitempty"`
	Waiting    *WaitingState    `json:"waiting,omitempty"`
	Terminated *TerminatedState `json:"terminated,omitempty"`
}

type RunningState struct {
	StartedAt *metav1.Time `json:"started_at,omitempty"`
}

type WaitingState struct {
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

type TerminatedState struct {
	ExitCode   int32        `json:"exit_code"`
	Reason     string       `json:"reason,omitempty"`
	Message    string       `json:"message,omitempty"`
	StartedAt  *metav1.Time `json:"started_at,omitempty"`
	FinishedAt *metav1.Time `json:"finished_at,omitempty"`
}

// ContainerStatus is the flattened view of one reported container status.
type ContainerStatus struct {
	ContainerName string         `json:"container_name"`
	Image         string         `json:"image,omitempty"`
	Ready         bool           `json:"ready"`
	RestartCount  int32          `json:"restart_count"`
	State         ContainerState `json:"state"`
	LastState     ContainerState `json:"last_state"`
}

// PodEvent is the flattened view of an event about a pod.
type PodEvent struct {
	Object   string          `json:"object"`
	Type     string          `json:"type"`
	Reason   string          `json:"reason"`
	Message  string          `json:"message"`
	LastSeen metav1.Duration `json:"last_seen"`
}

// DeploymentSummary is the flattened view of a deployment.
type DeploymentSummary struct {
	Name              string          `json:"name"`
	Namespace         string          `json:"namespace"`
	TotalReplicas     int32           `json:"total_replicas"`
	ReadyReplicas     int32           `json:"ready_replicas"`
	UpToDateReplicas  int32           `json:"up_to_date_replicas"`
	AvailableReplicas int32           `json:"available_replicas"`
	Age               metav1.Duration `json:"age"`
}

// PodSpec is the declared pod spec as a generic JSON-shaped mapping.
type PodSpec map[string]interface{}
