// Package dispatch implements the message dispatcher (C5) and data
// dispatcher (C6): the accept loops that listen for inbound MessageQueue
// and DataStream connections and hand each one, post-handshake, to a
// caller-supplied acceptance callback. Grounded on the teacher's
// StreamCollector/accept-loop pattern in transport/api.go.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package dispatch

import (
	"net"

	"github.com/dcl-project/dcl/nlog"
	"github.com/dcl-project/dcl/transport"
	"github.com/dcl-project/dcl/wire"
)

// MessageDispatcher accepts inbound control (MessageQueue) connections on
// one TCP listener and reports each successfully handshaked connection to
// OnConnect (spec.md §4.5).
type MessageDispatcher struct {
	ln        net.Listener
	selfPID   wire.ProcessID
	maxBody   uint32
	accept    func(peerPID wire.ProcessID) bool
	onConnect func(*transport.MessageQueue)
	closeCh   chan struct{}
}

func NewMessageDispatcher(addr string, selfPID wire.ProcessID, maxBody uint32, accept func(wire.ProcessID) bool, onConnect func(*transport.MessageQueue)) (*MessageDispatcher, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	d := &MessageDispatcher{ln: ln, selfPID: selfPID, maxBody: maxBody, accept: accept, onConnect: onConnect, closeCh: make(chan struct{})}
	go d.acceptLoop()
	return d, nil
}

func (d *MessageDispatcher) Addr() net.Addr { return d.ln.Addr() }

func (d *MessageDispatcher) acceptLoop() {
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			select {
			case <-d.closeCh:
				return
			default:
				nlog.Errorf("dispatch: message queue accept failed: %v", err)
				return
			}
		}
		go d.handle(conn)
	}
}

func (d *MessageDispatcher) handle(conn net.Conn) {
	mq, err := transport.AcceptMessageQueue(conn, d.selfPID, d.maxBody, d.accept)
	if err != nil {
		nlog.Warningf("dispatch: message queue handshake failed from %s: %v", conn.RemoteAddr(), err)
		return
	}
	d.onConnect(mq)
}

func (d *MessageDispatcher) Close() error {
	close(d.closeCh)
	return d.ln.Close()
}

// DataDispatcher is the C6 counterpart for bulk-transfer connections.
type DataDispatcher struct {
	ln        net.Listener
	selfPID   wire.ProcessID
	maxBody   uint32
	accept    func(peerPID wire.ProcessID) bool
	onConnect func(*transport.DataStream)
	closeCh   chan struct{}
}

func NewDataDispatcher(addr string, selfPID wire.ProcessID, maxBody uint32, accept func(wire.ProcessID) bool, onConnect func(*transport.DataStream)) (*DataDispatcher, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	d := &DataDispatcher{ln: ln, selfPID: selfPID, maxBody: maxBody, accept: accept, onConnect: onConnect, closeCh: make(chan struct{})}
	go d.acceptLoop()
	return d, nil
}

func (d *DataDispatcher) Addr() net.Addr { return d.ln.Addr() }

func (d *DataDispatcher) acceptLoop() {
	for {
		conn, err := d.ln.Accept()
		if err != nil {
			select {
			case <-d.closeCh:
				return
			default:
				nlog.Errorf("dispatch: data stream accept failed: %v", err)
				return
			}
		}
		go d.handle(conn)
	}
}

func (d *DataDispatcher) handle(conn net.Conn) {
	ds, err := transport.AcceptDataStream(conn, d.selfPID, d.maxBody, d.accept)
	if err != nil {
		nlog.Warningf("dispatch: data stream handshake failed from %s: %v", conn.RemoteAddr(), err)
		return
	}
	d.onConnect(ds)
}

func (d *DataDispatcher) Close() error {
	close(d.closeCh)
	return d.ln.Close()
}
