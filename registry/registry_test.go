package registry_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dcl-project/dcl/registry"
	"github.com/dcl-project/dcl/wire"
)

var _ = Describe("Registry", func() {
	It("resolves a bound id and rejects an unbound one", func() {
		r := registry.New[string]()
		r.Bind(wire.ObjectID(1), "ctx-handle")

		v, err := r.Lookup(wire.ObjectID(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal("ctx-handle"))

		_, err = r.Lookup(wire.ObjectID(2))
		Expect(err).To(HaveOccurred())
	})

	It("stops reporting an id once unbound", func() {
		r := registry.New[int]()
		r.Bind(wire.ObjectID(5), 42)
		Expect(r.Unbind(wire.ObjectID(5))).To(BeTrue())
		Expect(r.Unbind(wire.ObjectID(5))).To(BeFalse())

		_, err := r.Lookup(wire.ObjectID(5))
		Expect(err).To(HaveOccurred())
	})

	It("resolves a batch of ids or fails closed on the first miss", func() {
		r := registry.New[int]()
		r.Bind(wire.ObjectID(1), 10)
		r.Bind(wire.ObjectID(2), 20)

		vals, err := r.LookupMany([]wire.ObjectID{1, 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(vals).To(Equal([]int{10, 20}))

		_, err = r.LookupMany([]wire.ObjectID{1, 99})
		Expect(err).To(HaveOccurred())
	})

	It("reports every currently bound id and the count", func() {
		r := registry.New[int]()
		r.Bind(wire.ObjectID(1), 1)
		r.Bind(wire.ObjectID(2), 2)
		r.Bind(wire.ObjectID(3), 3)
		r.Unbind(wire.ObjectID(2))

		Expect(r.Len()).To(Equal(2))
		Expect(r.IDs()).To(ConsistOf(wire.ObjectID(1), wire.ObjectID(3)))
	})

	It("replaces an existing binding silently", func() {
		r := registry.New[string]()
		r.Bind(wire.ObjectID(1), "first")
		r.Bind(wire.ObjectID(1), "second")

		v, err := r.Lookup(wire.ObjectID(1))
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal("second"))
	})
})
