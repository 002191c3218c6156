// Package transport implements the runtime's two wire-level connection
// kinds: the always-on, full-duplex control connection (C3, message queue)
// and the bulk-transfer data connection (C4, data stream). Both share the
// same framed-TCP foundation and handshake defined in this file, modeled on
// the teacher's frame/PDU split in transport/pdu.go and the connection
// bring-up in transport/api.go.
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package transport

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/dcl-project/dcl/cos"
	"github.com/dcl-project/dcl/nlog"
	"github.com/dcl-project/dcl/wire"
)

const (
	sizeofHeader = 8 // u32 body_size, u32 type, both network byte order (spec.md §6.1)
	sizeofHandshakeOut = 9 // u64 pid, u8 role
	sizeofHandshakeIn  = 8 // u64 peer_pid
)

// frame is the wire envelope: {u32 body_size, u32 type} header in network
// byte order, followed by a little-endian body (spec.md §6.1). It is shared
// by both the message queue and the data stream control plane.
type frame struct {
	typ  wire.Type
	body []byte
}

func writeFrame(w io.Writer, f frame) error {
	var hdr [sizeofHeader]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(len(f.body)))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(f.typ))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if len(f.body) == 0 {
		return nil
	}
	_, err := w.Write(f.body)
	return err
}

func readFrame(r io.Reader, maxBodySize uint32) (frame, error) {
	var hdr [sizeofHeader]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return frame{}, err
	}
	bodySize := binary.BigEndian.Uint32(hdr[0:4])
	typ := wire.Type(binary.BigEndian.Uint32(hdr[4:8]))
	if bodySize > maxBodySize {
		return frame{}, &cos.ErrProtocolViolation{
			Reason: fmt.Sprintf("frame body %d exceeds configured max %d", bodySize, maxBodySize),
		}
	}
	body := make([]byte, bodySize)
	if bodySize > 0 {
		if _, err := io.ReadFull(r, body); err != nil {
			return frame{}, err
		}
	}
	return frame{typ: typ, body: body}, nil
}

// handshake runs the {pid, role, protocol} / {peer_pid} exchange described
// in spec.md §6.2. It returns the peer's negotiated process id, or
// cos.ErrProtocolViolation if the peer rejected the connection (peer_pid ==
// 0) or role/protocol combination is invalid.
func handshake(rw io.ReadWriter, selfPID wire.ProcessID, role wire.ProcessType, proto wire.Protocol) (wire.ProcessID, error) {
	var out [sizeofHandshakeOut + 1]byte
	binary.BigEndian.PutUint64(out[0:8], uint64(selfPID))
	out[8] = byte(role)
	out[9] = byte(proto)
	if _, err := rw.Write(out[:]); err != nil {
		return 0, err
	}

	var in [sizeofHandshakeIn]byte
	if _, err := io.ReadFull(rw, in[:]); err != nil {
		return 0, err
	}
	peerPID := wire.ProcessID(binary.BigEndian.Uint64(in[:]))
	if peerPID == 0 {
		return 0, &cos.ErrProtocolViolation{Reason: "peer rejected handshake"}
	}
	return peerPID, nil
}

// acceptHandshake is the listener-side counterpart of handshake: it reads
// the incoming {pid, role, protocol} and, if accept returns true, replies
// with this process's own pid; otherwise it replies with zero and the
// caller should close the connection.
func acceptHandshake(rw io.ReadWriter, selfPID wire.ProcessID, accept func(peerPID wire.ProcessID, role wire.ProcessType, proto wire.Protocol) bool) (wire.ProcessID, wire.ProcessType, wire.Protocol, error) {
	var in [sizeofHandshakeOut + 1]byte
	if _, err := io.ReadFull(rw, in[:]); err != nil {
		return 0, 0, 0, err
	}
	peerPID := wire.ProcessID(binary.BigEndian.Uint64(in[0:8]))
	role := wire.ProcessType(in[8])
	proto := wire.Protocol(in[9])

	var out [sizeofHandshakeIn]byte
	if accept == nil || accept(peerPID, role, proto) {
		binary.BigEndian.PutUint64(out[:], uint64(selfPID))
	}
	if _, err := rw.Write(out[:]); err != nil {
		return 0, 0, 0, err
	}
	if out == ([sizeofHandshakeIn]byte{}) {
		return 0, 0, 0, &cos.ErrProtocolViolation{Reason: "connection rejected by acceptor"}
	}
	return peerPID, role, proto, nil
}

// dialTCP opens a TCP connection with Nagle disabled, matching the
// teacher's low-latency client setup for intra-cluster streams.
func dialTCP(addr string, timeout time.Duration) (*net.TCPConn, error) {
	d := net.Dialer{Timeout: timeout}
	conn, err := d.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	tc := conn.(*net.TCPConn)
	if err := tc.SetNoDelay(true); err != nil {
		nlog.Warningf("transport: SetNoDelay failed for %s: %v", addr, err)
	}
	return tc, nil
}
