package event_test

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dcl-project/dcl/event"
	"github.com/dcl-project/dcl/wire"
)

var _ = Describe("Consistency", func() {
	It("reports an event unreleased until Release is called", func() {
		c := event.New(1)
		Expect(c.IsReleased(wire.ObjectID(1))).To(BeFalse())

		c.Release(wire.ObjectID(1), 1, 100)
		Expect(c.IsReleased(wire.ObjectID(1))).To(BeTrue())
	})

	It("wakes an Acquire call once the event is released", func() {
		c := event.New(1)
		acquired := c.Acquire(wire.ObjectID(5))

		Consistently(acquired, 20*time.Millisecond).ShouldNot(BeClosed())
		c.Release(wire.ObjectID(5), 2, 1)
		Eventually(acquired, time.Second).Should(BeClosed())
	})

	It("returns an already-closed channel for an event released before Acquire is called", func() {
		c := event.New(1)
		c.Release(wire.ObjectID(9), 1, 1)

		acquired := c.Acquire(wire.ObjectID(9))
		Expect(acquired).To(BeClosed())
	})

	It("stays released when a later release carries an older timestamp", func() {
		c := event.New(1)
		c.Release(wire.ObjectID(3), 1, 50)
		c.Release(wire.ObjectID(3), 2, 10) // older timestamp, must not win
		Expect(c.IsReleased(wire.ObjectID(3))).To(BeTrue())
	})

	It("makes the releasing node the authoritative holder of every declared object", func() {
		c := event.New(1)
		_, ok := c.Owner(wire.ObjectID(100))
		Expect(ok).To(BeFalse())

		c.Declare(wire.ObjectID(7), 2, 1, []wire.ObjectID{100, 101})
		owner, ok := c.Owner(wire.ObjectID(100))
		Expect(ok).To(BeTrue())
		Expect(owner).To(Equal(uint64(2)))
		owner, ok = c.Owner(wire.ObjectID(101))
		Expect(ok).To(BeTrue())
		Expect(owner).To(Equal(uint64(2)))
	})

	It("does not declare ownership of any object on a plain Release", func() {
		c := event.New(1)
		c.Release(wire.ObjectID(8), 3, 1)
		_, ok := c.Owner(wire.ObjectID(8))
		Expect(ok).To(BeFalse())
	})

	It("deterministically picks the same relay for the same event", func() {
		candidates := []uint64{10, 20, 30}
		first := event.RelayPath(wire.ObjectID(42), candidates)
		second := event.RelayPath(wire.ObjectID(42), candidates)
		Expect(first).To(Equal(second))
		Expect(candidates).To(ContainElement(first))
	})

	It("returns zero when there are no relay candidates", func() {
		Expect(event.RelayPath(wire.ObjectID(1), nil)).To(Equal(uint64(0)))
	})
})
