package rpc_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/dcl-project/dcl/rpc"
	"github.com/dcl-project/dcl/wire"
)

func response(id uint32) wire.Response {
	r := &wire.DefaultResponse{}
	r.SetRequestID(id)
	return r
}

var _ = Describe("ResponseBuffer", func() {
	It("delivers a Put to an Await already waiting on that id", func() {
		rb := rpc.New(4)
		done := make(chan wire.Response, 1)
		go func() {
			resp, err := rb.Await(context.Background(), 1)
			Expect(err).NotTo(HaveOccurred())
			done <- resp
		}()

		Eventually(func() error { return rb.Put(response(1)) }).Should(Succeed())
		var got wire.Response
		Eventually(done).Should(Receive(&got))
		Expect(got.GetRequestID()).To(Equal(uint32(1)))
	})

	It("stashes a Put that arrives before any Await and hands it over later", func() {
		rb := rpc.New(4)
		Expect(rb.Put(response(7))).To(Succeed())

		resp, err := rb.Await(context.Background(), 7)
		Expect(err).NotTo(HaveOccurred())
		Expect(resp.GetRequestID()).To(Equal(uint32(7)))
	})

	It("returns the caller's context error when canceled before a response arrives", func() {
		rb := rpc.New(4)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := rb.Await(ctx, 99)
		Expect(err).To(MatchError(context.DeadlineExceeded))
	})

	It("blocks Put once the unclaimed ring is full, and Interrupt releases it", func() {
		rb := rpc.New(1)
		Expect(rb.Put(response(1))).To(Succeed())

		putErr := make(chan error, 1)
		go func() { putErr <- rb.Put(response(2)) }()

		Consistently(putErr, 50*time.Millisecond).ShouldNot(Receive())
		rb.Interrupt()
		Eventually(putErr).Should(Receive(HaveOccurred()))
	})
})
