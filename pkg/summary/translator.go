// Package summary maps native Kubernetes objects into flat, display-ready records.
//
// Every operation captures "now" once, so all records in one response share the
// same reference instant for their ages.
package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/utils/clock"
)

// Translator runs the read-only inspection operations against a ClusterReader.
type Translator struct {
	reader ClusterReader
	clock  clock.PassiveClock
}

// NewTranslator creates a Translator. A nil clock means the wall clock.
func NewTranslator(reader ClusterReader, clk clock.PassiveClock) *Translator {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &Translator{reader: reader, clock: clk}
}

// LogRequest holds the optional parts of a log read.
type LogRequest struct {
	Container string
	TailLines *int64
	Since     time.Duration
}

func (t *Translator) now() time.Time {
	return t.clock.Now().UTC()
}

// ListNamespaces returns every namespace in the order the API returned them.
func (t *Translator) ListNamespaces(ctx context.Context) ([]NamespaceSummary, error) {
	now := t.now()
	items, err := t.reader.ListNamespaces(ctx)
	if err != nil {
		return nil, queryError("list namespaces", "", "", err)
	}
	return lo.Map(items, func(ns corev1.Namespace, _ int) NamespaceSummary {
		return NamespaceSummary{
			Name:   ns.Name,
			Status: string(ns.Status.Phase),
			Age:    age(now, ns.CreationTimestamp.Time),
		}
	}), nil
}

// ListPodSummaries returns pods in namespace, or in all namespaces when it is empty.
func (t *Translator) ListPodSummaries(ctx context.Context, namespace string) ([]PodSummary, error) {
	now := t.now()
	items, err := t.reader.ListPods(ctx, namespace)
	if err != nil {
		return nil, queryError("list pods", namespace, "", err)
	}
	return lo.Map(items, func(pod corev1.Pod, _ int) PodSummary {
		return PodSummary{
			Name:            pod.Name,
			Namespace:       pod.Namespace,
			TotalContainers: len(pod.Spec.Containers),
			ReadyContainers: lo.CountBy(pod.Status.ContainerStatuses, func(cs corev1.ContainerStatus) bool {
				return cs.Ready
			}),
			Age: age(now, pod.CreationTimestamp.Time),
		}
	}), nil
}

// GetPodContainerStatuses returns one record per reported container status.
func (t *Translator) GetPodContainerStatuses(ctx context.Context, name, namespace string) ([]ContainerStatus, error) {
	pod, err := t.getPod(ctx, "get container statuses", name, namespace)
	if err != nil {
		return nil, err
	}
	return lo.Map(pod.Status.ContainerStatuses, func(cs corev1.ContainerStatus, _ int) ContainerStatus {
		return ContainerStatus{
			ContainerName: cs.Name,
			Image:         cs.Image,
			Ready:         cs.Ready,
			RestartCount:  cs.RestartCount,
			State:         convertState(cs.State),
			LastState:     convertState(cs.LastTerminationState),
		}
	}), nil
}

// GetPodEvents returns the events whose involved object is the named pod, in
// the order the API returned them.
func (t *Translator) GetPodEvents(ctx context.Context, name, namespace string) ([]PodEvent, error) {
	now := t.now()
	items, err := t.reader.ListEvents(ctx, namespace, "involvedObject.name="+name)
	if err != nil {
		return nil, queryError("list events", namespace, "", err)
	}
	matching := lo.Filter(items, func(evt corev1.Event, _ int) bool {
		return evt.InvolvedObject.Name == name
	})
	return lo.Map(matching, func(evt corev1.Event, _ int) PodEvent {
		return PodEvent{
			Object:   evt.InvolvedObject.Name,
			Type:     evt.Type,
			Reason:   evt.Reason,
			Message:  evt.Message,
			LastSeen: age(now, lastSeen(evt)),
		}
	}), nil
}

// GetPodSpec returns the declared spec of a pod as a generic mapping.
func (t *Translator) GetPodSpec(ctx context.Context, name, namespace string) (PodSpec, error) {
	pod, err := t.getPod(ctx, "get pod spec", name, namespace)
	if err != nil {
		return nil, err
	}
	spec, err := runtime.DefaultUnstructuredConverter.ToUnstructured(&pod.Spec)
	if err != nil {
		return nil, &Error{Kind: KindClusterQuery, Op: "get pod spec", Namespace: namespace, Name: name,
			Err: fmt.Errorf("failed to convert pod spec: %w", err)}
	}
	return PodSpec(spec), nil
}

// GetLogsForPodAndContainer returns raw, timestamp-prefixed log text.
//
// Without a container name the pod must declare exactly one container.
func (t *Translator) GetLogsForPodAndContainer(ctx context.Context, name, namespace string, req LogRequest) (string, error) {
	const op = "get logs"

	container := req.Container
	if container == "" {
		pod, err := t.reader.GetPod(ctx, namespace, name)
		if err != nil {
			if apierrors.IsNotFound(err) {
				return "", &Error{Kind: KindPodNotFound, Op: op, Namespace: namespace, Name: name, Err: err}
			}
			return "", &Error{Kind: KindLogFetch, Op: op, Namespace: namespace, Name: name, Err: err}
		}
		if pod == nil {
			return "", &Error{Kind: KindPodNotFound, Op: op, Namespace: namespace, Name: name}
		}
		switch len(pod.Spec.Containers) {
		case 1:
			container = pod.Spec.Containers[0].Name
		case 0:
			return "", &Error{Kind: KindLogFetch, Op: op, Namespace: namespace, Name: name,
				Err: fmt.Errorf("pod declares no containers")}
		default:
			names := lo.Map(pod.Spec.Containers, func(c corev1.Container, _ int) string { return c.Name })
			return "", &Error{Kind: KindAmbiguousContainer, Op: op, Namespace: namespace, Name: name,
				Err: fmt.Errorf("choose one of %v", names)}
		}
	}

	opts := LogOptions{
		Container:  container,
		TailLines:  req.TailLines,
		Timestamps: true,
	}
	if req.Since > 0 {
		seconds := int64(req.Since.Round(time.Second) / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		opts.SinceSeconds = &seconds
	}

	logs, err := t.reader.GetPodLogs(ctx, namespace, name, opts)
	if err != nil {
		return "", &Error{Kind: KindLogFetch, Op: op, Namespace: namespace, Name: name + "/" + container, Err: err}
	}
	return logs, nil
}

// ListDeploymentSummaries returns deployments in namespace, or in all namespaces
// when it is empty.
func (t *Translator) ListDeploymentSummaries(ctx context.Context, namespace string) ([]DeploymentSummary, error) {
	now := t.now()
	items, err := t.reader.ListDeployments(ctx, namespace)
	if err != nil {
		return nil, queryError("list deployments", namespace, "", err)
	}
	return lo.Map(items, func(dep appsv1.Deployment, _ int) DeploymentSummary {
		return DeploymentSummary{
			Name:              dep.Name,
			Namespace:         dep.Namespace,
			TotalReplicas:     lo.FromPtr(dep.Spec.Replicas),
			ReadyReplicas:     dep.Status.ReadyReplicas,
			UpToDateReplicas:  dep.Status.UpdatedReplicas,
			AvailableReplicas: dep.Status.AvailableReplicas,
			Age:               age(now, dep.CreationTimestamp.Time),
		}
	}), nil
}

func (t *Translator) getPod(ctx context.Context, op, name, namespace string) (*corev1.Pod, error) {
	pod, err := t.reader.GetPod(ctx, namespace, name)
	if err != nil {
		return nil, queryError(op, namespace, name, err)
	}
	if pod == nil {
		return nil, &Error{Kind: KindPodNotFound, Op: op, Namespace: namespace, Name: name}
	}
	return pod, nil
}

func convertState(state corev1.ContainerState) ContainerState {
	switch {
	case state.Terminated != nil:
		return ContainerState{
			Kind: StateTerminated,
			Terminated: &TerminatedState{
				ExitCode:   state.Terminated.ExitCode,
				Reason:     state.Terminated.Reason,
				Message:    state.Terminated.Message,
				StartedAt:  timePtr(state.Terminated.StartedAt),
				FinishedAt: timePtr(state.Terminated.FinishedAt),
			},
		}
	case state.Waiting != nil:
		return ContainerState{
			Kind:    StateWaiting,
			Waiting: &WaitingState{Reason: state.Waiting.Reason, Message: state.Waiting.Message},
		}
	case state.Running != nil:
		return ContainerState{
			Kind:    StateRunning,
			Running: &RunningState{StartedAt: timePtr(state.Running.StartedAt)},
		}
	default:
		return ContainerState{Kind: StateNone}
	}
}

// lastSeen prefers lastTimestamp, then the newer eventTime, then creation time.
func lastSeen(evt corev1.Event) time.Time {
	switch {
	case !evt.LastTimestamp.IsZero():
		return evt.LastTimestamp.Time
	case !evt.EventTime.IsZero():
		return evt.EventTime.Time
	default:
		return evt.CreationTimestamp.Time
	}
}

func age(now, then time.Time) metav1.Duration {
	if then.IsZero() {
		return metav1.Duration{}
	}
	d := now.Sub(then)
	if d < 0 {
		d = 0
	}
	return metav1.Duration{Duration: d.Truncate(time.Second)}
}

func timePtr(t metav1.Time) *metav1.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
