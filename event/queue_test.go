package event_test

import (
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dcl-project/dcl/event"
)

var _ = Describe("Processor", func() {
	It("runs callbacks in submission order on a single goroutine", func() {
		p := event.NewProcessor(8)
		defer p.Stop()

		var order []int
		done := make(chan struct{})
		for i := 0; i < 5; i++ {
			i := i
			p.Submit(func() {
				order = append(order, i)
				if i == 4 {
					close(done)
				}
			})
		}
		Eventually(done, time.Second).Should(BeClosed())
		Expect(order).To(Equal([]int{0, 1, 2, 3, 4}))
	})

	It("survives a panicking callback and keeps draining the queue", func() {
		p := event.NewProcessor(8)
		defer p.Stop()

		var ran int32
		p.Submit(func() { panic("boom") })
		p.Submit(func() { atomic.AddInt32(&ran, 1) })

		Eventually(func() int32 { return atomic.LoadInt32(&ran) }, time.Second).Should(Equal(int32(1)))
	})
})
