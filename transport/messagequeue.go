package transport

import (
	"net"
	"sync"
	"time"

	"github.com/dcl-project/dcl/nlog"
	"github.com/dcl-project/dcl/wire"
)

// Listener receives every message read off a MessageQueue's socket, in the
// order it arrived. Handlers must not block for long: the read loop calls
// Listener synchronously (spec.md §4.4 "a single reader goroutine per
// connection; fan-out to worker goroutines is the listener's job").
type Listener func(msg wire.Message)

// MessageQueue is the control-plane connection (C3): one long-lived,
// full-duplex TCP connection per Host/ComputeNode pair, framed per
// transport/conn.go, carrying every request/response/notification message
// in the catalogue. Modeled on the teacher's one-goroutine-per-direction
// stream design (transport/api.go sendLoop/recvLoop split).
type MessageQueue struct {
	conn        net.Conn
	maxBodySize uint32
	selfPID     wire.ProcessID
	peerPID     wire.ProcessID

	mu       sync.Mutex
	listener Listener
	sendCh   chan wire.Message
	closeCh  chan struct{}
	closeErr error
	wg       sync.WaitGroup
}

// DialMessageQueue opens a new control connection to addr and runs the
// handshake as the given role (spec.md §6.2, §6.3).
func DialMessageQueue(addr string, selfPID wire.ProcessID, role wire.ProcessType, maxBodySize uint32) (*MessageQueue, error) {
	conn, err := dialTCP(addr, 10*time.Second)
	if err != nil {
		return nil, err
	}
	peerPID, err := handshake(conn, selfPID, role, wire.ProtocolMessageQueue)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return newMessageQueue(conn, selfPID, peerPID, maxBodySize), nil
}

// AcceptMessageQueue completes the acceptor side of the handshake over an
// already-accepted net.Conn (spec.md §6.2); accept is consulted before the
// connection is admitted.
func AcceptMessageQueue(conn net.Conn, selfPID wire.ProcessID, maxBodySize uint32, accept func(peerPID wire.ProcessID) bool) (*MessageQueue, error) {
	peerPID, _, _, err := acceptHandshake(conn, selfPID, func(pid wire.ProcessID, _ wire.ProcessType, proto wire.Protocol) bool {
		if proto != wire.ProtocolMessageQueue {
			return false
		}
		return accept == nil || accept(pid)
	})
	if err != nil {
		conn.Close()
		return nil, err
	}
	return newMessageQueue(conn, selfPID, peerPID, maxBodySize), nil
}

func newMessageQueue(conn net.Conn, selfPID, peerPID wire.ProcessID, maxBodySize uint32) *MessageQueue {
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	mq := &MessageQueue{
		conn:        conn,
		maxBodySize: maxBodySize,
		selfPID:     selfPID,
		peerPID:     peerPID,
		sendCh:      make(chan wire.Message, 256),
		closeCh:     make(chan struct{}),
	}
	mq.wg.Add(2)
	go mq.sendLoop()
	go mq.recvLoop()
	return mq
}

// PeerPID returns the remote process id negotiated during the handshake.
func (mq *MessageQueue) PeerPID() wire.ProcessID { return mq.peerPID }

// SetListener installs the callback invoked for every inbound message. It
// may be changed at any time; the new listener takes effect for the next
// message the read loop dispatches.
func (mq *MessageQueue) SetListener(l Listener) {
	mq.mu.Lock()
	mq.listener = l
	mq.mu.Unlock()
}

// Send enqueues msg for transmission. It never blocks on the network; it
// blocks only if the internal send queue (256 messages) is full, which
// signals a stalled peer upstream (spec.md §7 backpressure).
func (mq *MessageQueue) Send(msg wire.Message) error {
	select {
	case mq.sendCh <- msg:
		return nil
	case <-mq.closeCh:
		return mq.err()
	}
}

func (mq *MessageQueue) sendLoop() {
	defer mq.wg.Done()
	for {
		select {
		case msg := <-mq.sendCh:
			b := wire.NewBufferWithLimit(mq.maxBodySize)
			msg.Pack(b)
			if err := writeFrame(mq.conn, frame{typ: msg.Type(), body: b.Bytes()}); err != nil {
				mq.fail(err)
				return
			}
		case <-mq.closeCh:
			return
		}
	}
}

func (mq *MessageQueue) recvLoop() {
	defer mq.wg.Done()
	for {
		f, err := readFrame(mq.conn, mq.maxBodySize)
		if err != nil {
			mq.fail(err)
			return
		}
		msg, err := wire.NewMessage(f.typ)
		if err != nil {
			nlog.Warningf("transport: dropping frame with unknown type %d from pid %d: %v", f.typ, mq.peerPID, err)
			continue
		}
		if err := msg.Unpack(wire.WrapBufferWithLimit(f.body, mq.maxBodySize)); err != nil {
			nlog.Warningf("transport: malformed frame type %d from pid %d: %v", f.typ, mq.peerPID, err)
			continue
		}
		mq.mu.Lock()
		l := mq.listener
		mq.mu.Unlock()
		if l != nil {
			l(msg)
		}
	}
}

func (mq *MessageQueue) fail(err error) {
	mq.mu.Lock()
	if mq.closeErr == nil {
		mq.closeErr = err
	}
	mq.mu.Unlock()
	select {
	case <-mq.closeCh:
	default:
		close(mq.closeCh)
	}
	mq.conn.Close()
}

func (mq *MessageQueue) err() error {
	mq.mu.Lock()
	defer mq.mu.Unlock()
	return mq.closeErr
}

// Close tears down the connection and waits for both loops to exit. It
// returns the error that had already failed the connection, if any; the
// read error caused by Close itself is not reported.
func (mq *MessageQueue) Close() error {
	err := mq.err()
	mq.fail(nil)
	mq.wg.Wait()
	return err
}
