// Package kube adapts a client-go clientset to the summary.ClusterReader contract.
package kube

import (
	"bytes"
	"context"
	"io"

	"github.com/cockroachdb/errors"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"github.com/futuretea/k8stools-mcp-server/pkg/logging"
	"github.com/futuretea/k8stools-mcp-server/pkg/summary"
)

// Client reads cluster state through a typed clientset.
type Client struct {
	clientset kubernetes.Interface
	context   string
	host      string
}

var _ summary.ClusterReader = (*Client)(nil)

// NewWithClientset wraps an existing clientset, typically a fake in tests.
func NewWithClientset(clientset kubernetes.Interface) *Client {
	return &Client{clientset: clientset}
}

// NewForConfig builds a Client from a REST config.
func NewForConfig(cfg *rest.Config) (*Client, error) {
	clientset, err := kubernetes.NewForConfig(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create kubernetes clientset")
	}
	return &Client{clientset: clientset, host: cfg.Host}, nil
}

// NewFromKubeconfig loads the kubeconfig using the standard rules: an explicit
// path wins, then $KUBECONFIG, then ~/.kube/config. An empty context name
// keeps the kubeconfig's current context.
func NewFromKubeconfig(path, contextName string) (*Client, error) {
	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if path != "" {
		loadingRules.ExplicitPath = path
	}
	overrides := &clientcmd.ConfigOverrides{CurrentContext: contextName}
	kubeConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(loadingRules, overrides)

	rawConfig, err := kubeConfig.RawConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load kubeconfig")
	}
	restConfig, err := kubeConfig.ClientConfig()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build client config from kubeconfig")
	}

	client, err := NewForConfig(restConfig)
	if err != nil {
		return nil, err
	}
	client.context = rawConfig.CurrentContext
	if contextName != "" {
		client.context = contextName
	}
	logging.Info("Kubernetes client configured for context %q (%s)", client.context, client.host)
	return client, nil
}

// Context returns the kubeconfig context the client was built from, if any.
func (c *Client) Context() string { return c.context }

// Host returns the API server address, if known.
func (c *Client) Host() string { return c.host }

func (c *Client) ListNamespaces(ctx context.Context) ([]corev1.Namespace, error) {
	list, err := c.clientset.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list namespaces")
	}
	return list.Items, nil
}

func (c *Client) ListPods(ctx context.Context, namespace string) ([]corev1.Pod, error) {
	list, err := c.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list pods in %q", namespace)
	}
	return list.Items, nil
}

func (c *Client) GetPod(ctx context.Context, namespace, name string) (*corev1.Pod, error) {
	pod, err := c.clientset.CoreV1().Pods(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get pod %s/%s", namespace, name)
	}
	return pod, nil
}

func (c *Client) ListDeployments(ctx context.Context, namespace string) ([]appsv1.Deployment, error) {
	list, err := c.clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list deployments in %q", namespace)
	}
	return list.Items, nil
}

func (c *Client) ListEvents(ctx context.Context, namespace, fieldSelector string) ([]corev1.Event, error) {
	list, err := c.clientset.CoreV1().Events(namespace).List(ctx, metav1.ListOptions{FieldSelector: fieldSelector})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list events in %q", namespace)
	}
	return list.Items, nil
}

func (c *Client) GetPodLogs(ctx context.Context, namespace, pod string, opts summary.LogOptions) (string, error) {
	req := c.clientset.CoreV1().Pods(namespace).GetLogs(pod, &corev1.PodLogOptions{
		Container:    opts.Container,
		TailLines:    opts.TailLines,
		SinceSeconds: opts.SinceSeconds,
		Timestamps:   opts.Timestamps,
	})
	stream, err := req.Stream(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to open log stream")
	}
	defer func() {
		if err := stream.Close(); err != nil {
			logging.Debug("Error closing log stream for %s/%s: %v", namespace, pod, err)
		}
	}()

	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, stream); err != nil {
		return "", errors.Wrap(err, "failed to read log stream")
	}
	return buf.String(), nil
}
