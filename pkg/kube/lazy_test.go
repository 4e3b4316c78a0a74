package kube

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	k8sfake "k8s.io/client-go/kubernetes/fake"

	"github.com/futuretea/k8stools-mcp-server/pkg/summary"
)

var _ = Describe("Lazy", func() {
	var (
		ctx      context.Context
		attempts atomic.Int32
		fail     atomic.Bool
		release  chan struct{}
		lazy     *Lazy
	)

	BeforeEach(func() {
		ctx = context.Background()
		attempts.Store(0)
		fail.Store(false)
		release = nil
		lazy = NewLazy(func() (summary.ClusterReader, error) {
			attempts.Add(1)
			if release != nil {
				<-release
			}
			if fail.Load() {
				return nil, errors.New("no route to host")
			}
			return NewWithClientset(k8sfake.NewSimpleClientset(
				&corev1.Namespace{ObjectMeta: metav1.ObjectMeta{Name: "default"}},
			)), nil
		})
	})

	It("does not connect until first use", func() {
		Expect(lazy.Connected()).To(BeFalse())
		Expect(attempts.Load()).To(BeZero())

		namespaces, err := lazy.ListNamespaces(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(namespaces).To(HaveLen(1))
		Expect(lazy.Connected()).To(BeTrue())
	})

	It("reuses the connection", func() {
		for i := 0; i < 3; i++ {
			_, err := lazy.ListPods(ctx, "")
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(attempts.Load()).To(Equal(int32(1)))
	})

	It("collapses concurrent first calls into one attempt", func() {
		release = make(chan struct{})
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer GinkgoRecover()
				defer wg.Done()
				_, err := lazy.ListNamespaces(ctx)
				Expect(err).NotTo(HaveOccurred())
			}()
		}
		Eventually(attempts.Load).Should(Equal(int32(1)))
		close(release)
		wg.Wait()

		Expect(attempts.Load()).To(Equal(int32(1)))
	})

	It("retries after a failed attempt", func() {
		fail.Store(true)
		_, err := lazy.ListDeployments(ctx, "default")
		Expect(err).To(MatchError(ContainSubstring("no route to host")))
		Expect(lazy.Connected()).To(BeFalse())

		fail.Store(false)
		_, err = lazy.ListDeployments(ctx, "default")
		Expect(err).NotTo(HaveOccurred())
		Expect(attempts.Load()).To(Equal(int32(2)))
	})
})
