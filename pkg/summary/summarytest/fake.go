// Package summarytest provides an in-memory summary.ClusterReader and a small
// cluster fixture for tests.
package summarytest

import (
	"context"
	"sync"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/futuretea/k8stools-mcp-server/pkg/summary"
)

// Now is the instant the fixture's timestamps are relative to.
var Now = time.Date(2025, 7, 12, 12, 0, 0, 0, time.UTC)

// FakeReader implements summary.ClusterReader over in-memory objects.
type FakeReader struct {
	Namespaces  []corev1.Namespace
	Pods        []corev1.Pod
	Deployments []appsv1.Deployment
	Events      []corev1.Event
	Logs        map[string]string // "namespace/pod/container" -> text

	ListNamespacesErr  error
	ListPodsErr        error
	GetPodErr          error
	ListDeploymentsErr error
	ListEventsErr      error
	GetPodLogsErr      error

	mu                sync.Mutex
	lastFieldSelector string
	lastLogOptions    summary.LogOptions
	getPodCalls       int
}

var _ summary.ClusterReader = (*FakeReader)(nil)

func (f *FakeReader) ListNamespaces(_ context.Context) ([]corev1.Namespace, error) {
	if f.ListNamespacesErr != nil {
		return nil, f.ListNamespacesErr
	}
	return f.Namespaces, nil
}

func (f *FakeReader) ListPods(_ context.Context, namespace string) ([]corev1.Pod, error) {
	if f.ListPodsErr != nil {
		return nil, f.ListPodsErr
	}
	var pods []corev1.Pod
	for _, pod := range f.Pods {
		if namespace == "" || pod.Namespace == namespace {
			pods = append(pods, pod)
		}
	}
	return pods, nil
}

func (f *FakeReader) GetPod(_ context.Context, namespace, name string) (*corev1.Pod, error) {
	f.mu.Lock()
	f.getPodCalls++
	f.mu.Unlock()
	if f.GetPodErr != nil {
		return nil, f.GetPodErr
	}
	for i := range f.Pods {
		if f.Pods[i].Namespace == namespace && f.Pods[i].Name == name {
			pod := f.Pods[i]
			return &pod, nil
		}
	}
	return nil, apierrors.NewNotFound(corev1.Resource("pods"), name)
}

func (f *FakeReader) ListDeployments(_ context.Context, namespace string) ([]appsv1.Deployment, error) {
	if f.ListDeploymentsErr != nil {
		return nil, f.ListDeploymentsErr
	}
	var deps []appsv1.Deployment
	for _, dep := range f.Deployments {
		if namespace == "" || dep.Namespace == namespace {
			deps = append(deps, dep)
		}
	}
	return deps, nil
}

// ListEvents ignores the field selector, as the API server may for some
// selectors, and only scopes by namespace.
func (f *FakeReader) ListEvents(_ context.Context, namespace, fieldSelector string) ([]corev1.Event, error) {
	f.mu.Lock()
	f.lastFieldSelector = fieldSelector
	f.mu.Unlock()
	if f.ListEventsErr != nil {
		return nil, f.ListEventsErr
	}
	var events []corev1.Event
	for _, evt := range f.Events {
		if evt.Namespace == namespace {
			events = append(events, evt)
		}
	}
	return events, nil
}

func (f *FakeReader) GetPodLogs(_ context.Context, namespace, pod string, opts summary.LogOptions) (string, error) {
	f.mu.Lock()
	f.lastLogOptions = opts
	f.mu.Unlock()
	if f.GetPodLogsErr != nil {
		return "", f.GetPodLogsErr
	}
	return f.Logs[namespace+"/"+pod+"/"+opts.Container], nil
}

// LastFieldSelector returns the selector of the most recent ListEvents call.
func (f *FakeReader) LastFieldSelector() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastFieldSelector
}

// LastLogOptions returns the options of the most recent GetPodLogs call.
func (f *FakeReader) LastLogOptions() summary.LogOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastLogOptions
}

// GetPodCalls returns how many times GetPod was called.
func (f *FakeReader) GetPodCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getPodCalls
}

// NewFixture returns a reader holding two namespaces, two pods, two
// deployments, two events for pod-1 and logs for pod-1/container-1.
func NewFixture() *FakeReader {
	ago := func(d time.Duration) metav1.Time { return metav1.NewTime(Now.Add(-d)) }
	replicas := func(n int32) *int32 { return &n }

	running := corev1.ContainerStatus{
		Name:         "container-1",
		Image:        "nginx:latest",
		Ready:        true,
		RestartCount: 1,
		State: corev1.ContainerState{
			Running: &corev1.ContainerStateRunning{StartedAt: ago(24 * time.Hour)},
		},
		LastTerminationState: corev1.ContainerState{
			Terminated: &corev1.ContainerStateTerminated{
				ExitCode:   137,
				Reason:     "OOMKilled",
				StartedAt:  ago(3 * time.Hour),
				FinishedAt: ago(2 * time.Hour),
			},
		},
	}
	container1 := corev1.Container{Name: "container-1", Image: "nginx:latest"}
	container2 := corev1.Container{Name: "container-2", Image: "busybox:latest"}

	return &FakeReader{
		Namespaces: []corev1.Namespace{
			{
				ObjectMeta: metav1.ObjectMeta{Name: "default", CreationTimestamp: ago(5 * 24 * time.Hour)},
				Status:     corev1.NamespaceStatus{Phase: corev1.NamespaceActive},
			},
			{
				ObjectMeta: metav1.ObjectMeta{Name: "test", CreationTimestamp: ago(2 * 24 * time.Hour)},
				Status:     corev1.NamespaceStatus{Phase: corev1.NamespaceActive},
			},
		},
		Pods: []corev1.Pod{
			{
				ObjectMeta: metav1.ObjectMeta{Name: "pod-1", Namespace: "default", CreationTimestamp: ago(24 * time.Hour)},
				Spec:       corev1.PodSpec{Containers: []corev1.Container{container1}},
				Status:     corev1.PodStatus{ContainerStatuses: []corev1.ContainerStatus{running}},
			},
			{
				ObjectMeta: metav1.ObjectMeta{Name: "pod-2", Namespace: "test", CreationTimestamp: ago(12 * time.Hour)},
				Spec:       corev1.PodSpec{Containers: []corev1.Container{container1, container2}},
				Status:     corev1.PodStatus{ContainerStatuses: []corev1.ContainerStatus{running, running}},
			},
		},
		Deployments: []appsv1.Deployment{
			{
				ObjectMeta: metav1.ObjectMeta{Name: "nginx-deployment", Namespace: "default", CreationTimestamp: ago(48 * time.Hour)},
				Spec:       appsv1.DeploymentSpec{Replicas: replicas(3)},
				Status:     appsv1.DeploymentStatus{ReadyReplicas: 2, UpdatedReplicas: 3, AvailableReplicas: 2},
			},
			{
				ObjectMeta: metav1.ObjectMeta{Name: "app-deployment", Namespace: "test", CreationTimestamp: ago(6 * time.Hour)},
				Spec:       appsv1.DeploymentSpec{Replicas: replicas(1)},
				Status:     appsv1.DeploymentStatus{ReadyReplicas: 1, UpdatedReplicas: 1, AvailableReplicas: 1},
			},
		},
		Events: []corev1.Event{
			{
				ObjectMeta:     metav1.ObjectMeta{Name: "pod-1.started", Namespace: "default"},
				InvolvedObject: corev1.ObjectReference{Kind: "Pod", Name: "pod-1"},
				Type:           corev1.EventTypeNormal,
				Reason:         "Started",
				Message:        "Pod started successfully.",
				LastTimestamp:  ago(time.Hour),
			},
			{
				ObjectMeta:     metav1.ObjectMeta{Name: "pod-1.failed", Namespace: "default"},
				InvolvedObject: corev1.ObjectReference{Kind: "Pod", Name: "pod-1"},
				Type:           corev1.EventTypeWarning,
				Reason:         "Failed",
				Message:        "Pod failed to start.",
				LastTimestamp:  ago(30 * time.Minute),
			},
		},
		Logs: map[string]string{
			"default/pod-1/container-1": "2025-07-12T00:00:00Z container-1 log line 1\n2025-07-12T00:01:00Z container-1 log line 2",
		},
	}
}
