package summary

import (
	"context"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
)

// LogOptions narrows a log read.
type LogOptions struct {
	Container    string
	TailLines    *int64
	SinceSeconds *int64
	Timestamps   bool
}

// ClusterReader is the set of read operations the translator needs from a cluster.
// An empty namespace means all namespaces. Not-found conditions must be reported
// with k8s.io/apimachinery/pkg/api/errors so they can be told apart from
// connectivity failures.
type ClusterReader interface {
	ListNamespaces(ctx context.Context) ([]corev1.Namespace, error)
	ListPods(ctx context.Context, namespace string) ([]corev1.Pod, error)
	GetPod(ctx context.Context, namespace, name string) (*corev1.Pod, error)
	ListDeployments(ctx context.Context, namespace string) ([]appsv1.Deployment, error)
	ListEvents(ctx context.Context, namespace, fieldSelector string) ([]corev1.Event, error)
	GetPodLogs(ctx context.Context, namespace, pod string, opts LogOptions) (string, error)
}
