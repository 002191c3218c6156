package dispatch_test

import (
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dcl-project/dcl/dispatch"
	"github.com/dcl-project/dcl/transport"
	"github.com/dcl-project/dcl/wire"
)

var _ = Describe("MessageDispatcher", func() {
	It("hands every handshaked connection to onConnect", func() {
		connected := make(chan *transport.MessageQueue, 1)
		d, err := dispatch.NewMessageDispatcher("127.0.0.1:0", wire.ProcessID(100), 1<<20, nil,
			func(mq *transport.MessageQueue) { connected <- mq })
		Expect(err).NotTo(HaveOccurred())
		defer d.Close()

		client, err := transport.DialMessageQueue(d.Addr().String(), wire.ProcessID(1), wire.ProcessTypeHost, 1<<20)
		Expect(err).NotTo(HaveOccurred())
		defer client.Close()

		var mq *transport.MessageQueue
		Eventually(connected, time.Second).Should(Receive(&mq))
		Expect(mq.PeerPID()).To(Equal(wire.ProcessID(1)))
		Expect(client.PeerPID()).To(Equal(wire.ProcessID(100)))
	})

	It("never calls onConnect when accept rejects the peer", func() {
		connected := make(chan *transport.MessageQueue, 1)
		d, err := dispatch.NewMessageDispatcher("127.0.0.1:0", wire.ProcessID(100),
			1<<20,
			func(wire.ProcessID) bool { return false },
			func(mq *transport.MessageQueue) { connected <- mq })
		Expect(err).NotTo(HaveOccurred())
		defer d.Close()

		_, err = transport.DialMessageQueue(d.Addr().String(), wire.ProcessID(1), wire.ProcessTypeHost, 1<<20)
		Expect(err).To(HaveOccurred())
		Consistently(connected, 50*time.Millisecond).ShouldNot(Receive())
	})
})

var _ = Describe("DataDispatcher", func() {
	It("hands every handshaked data stream to onConnect", func() {
		connected := make(chan *transport.DataStream, 1)
		d, err := dispatch.NewDataDispatcher("127.0.0.1:0", wire.ProcessID(200), 1<<20, nil,
			func(ds *transport.DataStream) { connected <- ds })
		Expect(err).NotTo(HaveOccurred())
		defer d.Close()

		client, err := transport.DialDataStream(d.Addr().String(), wire.ProcessID(5), wire.ProcessTypeComputeNode, 1<<20)
		Expect(err).NotTo(HaveOccurred())
		defer client.Close()

		var ds *transport.DataStream
		Eventually(connected, time.Second).Should(Receive(&ds))
		Expect(ds.PeerPID()).To(Equal(wire.ProcessID(5)))
	})
})
