package kube

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"

	"github.com/futuretea/k8stools-mcp-server/pkg/summary"
)

// ConnectFunc opens a cluster connection.
type ConnectFunc func() (summary.ClusterReader, error)

// Lazy is a ClusterReader that connects on first use. Concurrent first calls
// share one connection attempt. A failed attempt is not remembered, so the
// next call tries again.
type Lazy struct {
	connect ConnectFunc
	group   singleflight.Group

	mu     sync.RWMutex
	reader summary.ClusterReader
}

var _ summary.ClusterReader = (*Lazy)(nil)

// NewLazy returns a Lazy that calls connect on demand.
func NewLazy(connect ConnectFunc) *Lazy {
	return &Lazy{connect: connect}
}

// NewLazyFromKubeconfig defers NewFromKubeconfig until the first cluster call.
func NewLazyFromKubeconfig(path, contextName string) *Lazy {
	return NewLazy(func() (summary.ClusterReader, error) {
		return NewFromKubeconfig(path, contextName)
	})
}

// Connected reports whether a connection has been established.
func (l *Lazy) Connected() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reader != nil
}

func (l *Lazy) get() (summary.ClusterReader, error) {
	l.mu.RLock()
	reader := l.reader
	l.mu.RUnlock()
	if reader != nil {
		return reader, nil
	}

	v, err, _ := l.group.Do("connect", func() (interface{}, error) {
		l.mu.RLock()
		existing := l.reader
		l.mu.RUnlock()
		if existing != nil {
			return existing, nil
		}

		r, err := l.connect()
		if err != nil {
			return nil, err
		}
		l.mu.Lock()
		l.reader = r
		l.mu.Unlock()
		return r, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(summary.ClusterReader), nil
}

func (l *Lazy) ListNamespaces(ctx context.Context) ([]corev1.Namespace, error) {
	r, err := l.get()
	if err != nil {
		return nil, err
	}
	return r.ListNamespaces(ctx)
}

func (l *Lazy) ListPods(ctx context.Context, namespace string) ([]corev1.Pod, error) {
	r, err := l.get()
	if err != nil {
		return nil, err
	}
	return r.ListPods(ctx, namespace)
}

func (l *Lazy) GetPod(ctx context.Context, namespace, name string) (*corev1.Pod, error) {
	r, err := l.get()
	if err != nil {
		return nil, err
	}
	return r.GetPod(ctx, namespace, name)
}

func (l *Lazy) ListDeployments(ctx context.Context, namespace string) ([]appsv1.Deployment, error) {
	r, err := l.get()
	if err != nil {
		return nil, err
	}
	return r.ListDeployments(ctx, namespace)
}

func (l *Lazy) ListEvents(ctx context.Context, namespace, fieldSelector string) ([]corev1.Event, error) {
	r, err := l.get()
	if err != nil {
		return nil, err
	}
	return r.ListEvents(ctx, namespace, fieldSelector)
}

func (l *Lazy) GetPodLogs(ctx context.Context, namespace, pod string, opts summary.LogOptions) (string, error) {
	r, err := l.get()
	if err != nil {
		return "", err
	}
	return r.GetPodLogs(ctx, namespace, pod, opts)
}
