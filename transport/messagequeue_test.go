package transport_test

import (
	"net"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dcl-project/dcl/transport"
	"github.com/dcl-project/dcl/wire"
)

func dialedPair(maxBody uint32) (client, server *transport.MessageQueue) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	defer ln.Close()

	serverCh := make(chan *transport.MessageQueue, 1)
	errCh := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			errCh <- err
			return
		}
		mq, err := transport.AcceptMessageQueue(conn, wire.ProcessID(2), maxBody, nil)
		if err != nil {
			errCh <- err
			return
		}
		serverCh <- mq
	}()

	client, err = transport.DialMessageQueue(ln.Addr().String(), wire.ProcessID(1), wire.ProcessTypeHost, maxBody)
	Expect(err).NotTo(HaveOccurred())

	select {
	case server = <-serverCh:
	case err := <-errCh:
		Fail("accept side failed: " + err.Error())
	case <-time.After(time.Second):
		Fail("timed out waiting for server-side handshake")
	}
	return client, server
}

var _ = Describe("MessageQueue", func() {
	It("completes the handshake with each side learning the other's pid", func() {
		client, server := dialedPair(1 << 20)
		defer client.Close()
		defer server.Close()

		Expect(client.PeerPID()).To(Equal(wire.ProcessID(2)))
		Expect(server.PeerPID()).To(Equal(wire.ProcessID(1)))
	})

	It("delivers a sent message to the peer's listener intact", func() {
		client, server := dialedPair(1 << 20)
		defer client.Close()
		defer server.Close()

		received := make(chan wire.Message, 1)
		server.SetListener(func(msg wire.Message) { received <- msg })

		req := &wire.GetDeviceIDs{PlatformID: 7}
		req.SetRequestID(3)
		Expect(client.Send(req)).To(Succeed())

		var msg wire.Message
		Eventually(received, time.Second).Should(Receive(&msg))
		got := msg.(*wire.GetDeviceIDs)
		Expect(got.PlatformID).To(Equal(uint32(7)))
		Expect(got.GetRequestID()).To(Equal(uint32(3)))
	})

	It("fails Send once the connection is closed", func() {
		client, server := dialedPair(1 << 20)
		defer server.Close()
		Expect(client.Close()).NotTo(HaveOccurred())

		req := &wire.GetDeviceIDs{}
		Eventually(func() error { return client.Send(req) }).Should(HaveOccurred())
	})
})
