package transport_test

import (
	"bytes"
	"context"
	"net"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dcl-project/dcl/transport"
	"github.com/dcl-project/dcl/wire"
)

func dataStreamPair(maxBody uint32) (client, server *transport.DataStream) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	Expect(err).NotTo(HaveOccurred())
	defer ln.Close()

	serverCh := make(chan *transport.DataStream, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		ds, err := transport.AcceptDataStream(conn, wire.ProcessID(2), maxBody, nil)
		if err != nil {
			return
		}
		serverCh <- ds
	}()

	client, err = transport.DialDataStream(ln.Addr().String(), wire.ProcessID(1), wire.ProcessTypeHost, maxBody)
	Expect(err).NotTo(HaveOccurred())

	select {
	case server = <-serverCh:
	case <-time.After(time.Second):
		Fail("timed out waiting for server-side data stream handshake")
	}
	return client, server
}

var _ = Describe("DataStream", func() {
	It("transfers a payload end to end and reports success on both handles", func() {
		client, server := dataStreamPair(1 << 20)
		defer client.Close()
		defer server.Close()

		payload := bytes.Repeat([]byte{0xAB}, 4096)
		var received bytes.Buffer

		recvHandle := server.Receive(&received)
		sendHandle := client.Send(bytes.NewReader(payload), int64(len(payload)))

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(sendHandle.Wait(ctx)).To(Succeed())
		Expect(recvHandle.Wait(ctx)).To(Succeed())
		Expect(received.Bytes()).To(Equal(payload))
		Expect(recvHandle.Checksum()).To(Equal(sendHandle.Checksum()))
		Expect(recvHandle.Checksum()).NotTo(BeZero())
	})

	It("fails the transfer handle when the declared size exceeds the cap", func() {
		client, server := dataStreamPair(1024)
		defer client.Close()
		defer server.Close()

		var received bytes.Buffer
		recvHandle := server.Receive(&received)
		payload := bytes.Repeat([]byte{0x01}, 1024*64+1)
		client.Send(bytes.NewReader(payload), int64(len(payload)))

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(recvHandle.Wait(ctx)).To(HaveOccurred())
	})

	It("fails an in-flight transfer when Abort closes the connection", func() {
		client, server := dataStreamPair(1 << 20)
		defer client.Close()

		recvHandle := server.Receive(&bytes.Buffer{})
		Expect(server.Abort()).To(Succeed())

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		Expect(recvHandle.Wait(ctx)).To(HaveOccurred())
	})
})
