package proc_test

import (
	"context"
	"net"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dcl-project/dcl/proc"
	"github.com/dcl-project/dcl/transport"
	"github.com/dcl-project/dcl/wire"
)

func mqPair() (client, server *transport.MessageQueue) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	defer ln.Close()

	serverCh := make(chan *transport.MessageQueue, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		mq, err := transport.AcceptMessageQueue(conn, wire.ProcessID(2), 1<<20, nil)
		if err != nil {
			return
		}
		serverCh <- mq
	}()

	client, err = transport.DialMessageQueue(ln.Addr().String(), wire.ProcessID(1), wire.ProcessTypeHost, 1<<20)
	Expect(err).NotTo(HaveOccurred())

	select {
	case server = <-serverCh:
	case <-time.After(time.Second):
		Fail("timed out waiting for server-side handshake")
	}
	return client, server
}

var _ = Describe("Process", func() {
	It("correlates a Call with the response the peer sends back", func() {
		hostMQ, nodeMQ := mqPair()
		node := proc.NewComputeNode(nodeMQ.PeerPID(), nodeMQ, 8)
		host := proc.NewHost(hostMQ.PeerPID(), hostMQ, 8)
		defer node.Close()
		defer host.Close()

		host.SetNotificationHandler(func(msg wire.Message) {
			req := msg.(*wire.GetDeviceIDs)
			resp := &wire.DeviceIDsResponse{DeviceIDs: []uint32{1, 2, 3}}
			resp.SetRequestID(req.GetRequestID())
			Expect(hostMQ.Send(resp)).To(Succeed())
		})

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		resp, err := node.Call(ctx, &wire.GetDeviceIDs{PlatformID: 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.(*wire.DeviceIDsResponse).DeviceIDs).To(Equal([]uint32{1, 2, 3}))
	})

	It("advances to Connected once a data stream is attached", func() {
		hostMQ, nodeMQ := mqPair()
		node := proc.NewComputeNode(nodeMQ.PeerPID(), nodeMQ, 8)
		defer node.Close()
		_ = hostMQ

		Expect(node.Status()).To(Equal(proc.MessageQueueConnected))
		node.AttachDataStream(nil)
		Expect(node.Status()).To(Equal(proc.Connected))
	})

	It("routes an unsolicited message to the notification handler, not to Call", func() {
		hostMQ, nodeMQ := mqPair()
		node := proc.NewComputeNode(nodeMQ.PeerPID(), nodeMQ, 8)
		host := proc.NewHost(hostMQ.PeerPID(), hostMQ, 8)
		defer node.Close()
		defer host.Close()

		notified := make(chan wire.Message, 1)
		node.SetNotificationHandler(func(msg wire.Message) { notified <- msg })

		msg := &wire.CommandExecutionStatusChangedMessage{CommandID: wire.ObjectID(1), Status: wire.StatusComplete}
		Expect(host.Notify(msg)).To(Succeed())

		var got wire.Message
		Eventually(notified, time.Second).Should(Receive(&got))
		Expect(got.(*wire.CommandExecutionStatusChangedMessage).CommandID).To(Equal(wire.ObjectID(1)))
	})

	It("unblocks a pending Call with ctx.Err when the peer never responds", func() {
		_, nodeMQ := mqPair()
		node := proc.NewComputeNode(nodeMQ.PeerPID(), nodeMQ, 8)
		defer node.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()
		_, err := node.Call(ctx, &wire.GetDeviceIDs{})
		Expect(err).To(MatchError(context.DeadlineExceeded))
	})
})
