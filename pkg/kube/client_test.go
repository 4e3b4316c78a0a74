package kube

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	k8sfake "k8s.io/client-go/kubernetes/fake"
	k8stesting "k8s.io/client-go/testing"

	"github.com/futuretea/k8stools-mcp-server/pkg/summary"
)

var _ = Describe("Client", func() {
	var (
		ctx        context.Context
		fakeClient *k8sfake.Clientset
		client     *Client
	)

	BeforeEach(func() {
		ctx = context.Background()
		fakeClient = k8sfake.NewSimpleClientset(
			&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "default"}},
			&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "test"}},
			&corev1.Pod{
				ObjectMeta: metav1.ObjectMeta{Name: "pod-1", Namespace: "default"},
				Spec:       corev1.PodSpec{Containers: []corev1.Container{{Name: "container-1", Image: "nginx:latest"}}},
			},
			&corev1.Pod{ObjectMeta: metav1.ObjectMeta{Name: "pod-2", Namespace: "test"}},
			&appsv1.Deployment{ObjectMeta: metav1.ObjectMeta{Name: "nginx-deployment", Namespace: "default"}},
			&corev1.Event{
				ObjectMeta:     metav1.ObjectMeta{Name: "pod-1.started", Namespace: "default"},
				InvolvedObject: corev1.ObjectReference{Kind: "Pod", Name: "pod-1"},
				Reason:         "Started",
			},
		)
		client = NewWithClientset(fakeClient)
	})

	It("lists namespaces", func() {
		namespaces, err := client.ListNamespaces(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(namespaces).To(HaveLen(2))
	})

	It("scopes pods to a namespace", func() {
		pods, err := client.ListPods(ctx, "test")
		Expect(err).NotTo(HaveOccurred())
		Expect(pods).To(HaveLen(1))
		Expect(pods[0].Name).To(Equal("pod-2"))

		all, err := client.ListPods(ctx, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(HaveLen(2))
	})

	It("returns a not-found error that survives wrapping", func() {
		_, err := client.GetPod(ctx, "default", "missing")
		Expect(err).To(HaveOccurred())
		Expect(apierrors.IsNotFound(err)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("default/missing"))
	})

	It("lists deployments", func() {
		deployments, err := client.ListDeployments(ctx, "default")
		Expect(err).NotTo(HaveOccurred())
		Expect(deployments).To(HaveLen(1))
		Expect(deployments[0].Name).To(Equal("nginx-deployment"))
	})

	It("passes the field selector to the API", func() {
		var selector string
		fakeClient.Fake.PrependReactor("list", "events", func(action k8stesting.Action) (bool, runtime.Object, error) {
			selector = action.(k8stesting.ListAction).GetListRestrictions().Fields.String()
			return false, nil, nil
		})

		events, err := client.ListEvents(ctx, "default", "involvedObject.name=pod-1")
		Expect(err).NotTo(HaveOccurred())
		Expect(selector).To(Equal("involvedObject.name=pod-1"))
		Expect(events).To(HaveLen(1))
	})

	It("reads the log stream", func() {
		tail := int64(10)
		logs, err := client.GetPodLogs(ctx, "default", "pod-1", summary.LogOptions{
			Container:  "container-1",
			TailLines:  &tail,
			Timestamps: true,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(logs).To(Equal("fake logs"))
	})

	It("wraps list failures", func() {
		fakeClient.Fake.PrependReactor("list", "namespaces", func(k8stesting.Action) (bool, runtime.Object, error) {
			return true, nil, errors.New("connection refused")
		})

		_, err := client.ListNamespaces(ctx)
		Expect(err).To(MatchError(ContainSubstring("failed to list namespaces")))
		Expect(err).To(MatchError(ContainSubstring("connection refused")))
	})
})

var _ = Describe("NewFromKubeconfig", func() {
	const kubeconfig = `apiVersion: v1
kind: Config
clusters:
- name: dev
  cluster:
    server: https://dev.example.com:6443
- name: prod
  cluster:
    server: https://prod.example.com:6443
contexts:
- name: dev
  context: {cluster: dev, user: dev}
- name: prod
  context: {cluster: prod, user: prod}
current-context: dev
users:
- name: dev
  user: {token: dev-token}
- name: prod
  user: {token: prod-token}
`
	var path string

	BeforeEach(func() {
		path = filepath.Join(GinkgoT().TempDir(), "config")
		Expect(os.WriteFile(path, []byte(kubeconfig), 0o600)).To(Succeed())
	})

	It("uses the current context by default", func() {
		client, err := NewFromKubeconfig(path, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(client.Context()).To(Equal("dev"))
		Expect(client.Host()).To(Equal("https://dev.example.com:6443"))
	})

	It("honours a context override", func() {
		client, err := NewFromKubeconfig(path, "prod")
		Expect(err).NotTo(HaveOccurred())
		Expect(client.Context()).To(Equal("prod"))
		Expect(client.Host()).To(Equal("https://prod.example.com:6443"))
	})

	It("fails on an unknown context", func() {
		_, err := NewFromKubeconfig(path, "staging")
		Expect(err).To(HaveOccurred())
	})

	It("fails when the file is missing", func() {
		_, err := NewFromKubeconfig(filepath.Join(filepath.Dir(path), "nope"), "")
		Expect(err).To(HaveOccurred())
	})
})
