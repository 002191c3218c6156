// Package wire implements the runtime's byte-level serialization (C1) and
// closed message catalogue (C2). Framing is little-endian in the body,
// network-byte-order in the envelope header, per spec.md §4.1/§6.1 and the
// Open Question in spec.md §9 ("recommend little-endian").
/*
 * Copyright (c) 2018-2023, NVIDIA CORPORATION. All rights reserved.
 */
package wire

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dcl-project/dcl/cos"
)

// DefaultMaxSequenceLen bounds any length/count prefix a Buffer will accept
// while reading, per spec.md §4.1 (default 64 MiB). It is a package-level
// default; callers that need a different cap (e.g. one read off Config)
// should use NewBufferWithLimit.
const DefaultMaxSequenceLen = 64 * 1024 * 1024

// Buffer is a sequential read/write byte sequence with independent read and
// write positions, modeled on the original dcl::ByteBuffer (see
// original_source/dclasio/src/dcl/ByteBuffer.cpp): writes always append at
// the write position, reads always advance the read position, and reading
// past the written region is a recoverable boundary error rather than a
// panic, because a malformed message must not crash the reactor (spec.md
// §4.1, §7 propagation policy).
type Buffer struct {
	buf      []byte
	roff     int
	maxSeqLen uint32
}

// NewBuffer creates an empty, growable buffer for writing.
func NewBuffer() *Buffer {
	return &Buffer{maxSeqLen: DefaultMaxSequenceLen}
}

// NewBufferWithLimit is like NewBuffer but with an explicit sequence-length
// cap; the message queue passes its frame body size cap.
func NewBufferWithLimit(maxSeqLen uint32) *Buffer {
	return &Buffer{maxSeqLen: maxSeqLen}
}

// WrapBuffer creates a read-only buffer over already-received bytes (e.g.
// a message body read off the wire).
func WrapBuffer(b []byte) *Buffer {
	return &Buffer{buf: b, maxSeqLen: DefaultMaxSequenceLen}
}

// WrapBufferWithLimit is WrapBuffer with an explicit sequence-length cap.
func WrapBufferWithLimit(b []byte, maxSeqLen uint32) *Buffer {
	return &Buffer{buf: b, maxSeqLen: maxSeqLen}
}

// Bytes returns the buffer's full backing slice (for writers: everything
// written so far).
func (b *Buffer) Bytes() []byte { return b.buf }

// Remaining reports how many unread bytes remain.
func (b *Buffer) Remaining() int { return len(b.buf) - b.roff }

func (b *Buffer) ensureBytes(n int) error {
	if b.Remaining() < n {
		return &cos.ErrProtocolViolation{Reason: fmt.Sprintf("buffer underrun: need %d, have %d", n, b.Remaining())}
	}
	return nil
}

func (b *Buffer) checkSeqLen(n uint32) error {
	if n > b.maxSeqLen {
		return &cos.ErrProtocolViolation{Reason: fmt.Sprintf("sequence length %d exceeds cap %d", n, b.maxSeqLen)}
	}
	return nil
}

//
// primitives: write
//

func (b *Buffer) PutBool(v bool) {
	if v {
		b.buf = append(b.buf, 1)
	} else {
		b.buf = append(b.buf, 0)
	}
}

func (b *Buffer) PutByte(v byte) { b.buf = append(b.buf, v) }

func (b *Buffer) PutUint32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *Buffer) PutInt32(v int32) { b.PutUint32(uint32(v)) }

func (b *Buffer) PutUint64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}

func (b *Buffer) PutInt64(v int64) { b.PutUint64(uint64(v)) }

func (b *Buffer) PutFloat64(v float64) { b.PutUint64(math.Float64bits(v)) }

func (b *Buffer) PutString(s string) {
	b.PutUint32(uint32(len(s)))
	b.buf = append(b.buf, s...)
}

func (b *Buffer) PutBlob(data []byte) {
	b.PutUint32(uint32(len(data)))
	b.buf = append(b.buf, data...)
}

// PutUint32Seq writes a homogeneous sequence of uint32 (object ids, device
// ids, ...): u32 count followed by the repeated elements.
func (b *Buffer) PutUint32Seq(vals []uint32) {
	b.PutUint32(uint32(len(vals)))
	for _, v := range vals {
		b.PutUint32(v)
	}
}

// PutInt32Seq writes a homogeneous sequence of int32 (per-device status
// codes, ...): u32 count followed by the repeated elements.
func (b *Buffer) PutInt32Seq(vals []int32) {
	b.PutUint32(uint32(len(vals)))
	for _, v := range vals {
		b.PutInt32(v)
	}
}

//
// primitives: read
//

func (b *Buffer) GetBool() (bool, error) {
	if err := b.ensureBytes(1); err != nil {
		return false, err
	}
	v := b.buf[b.roff] != 0
	b.roff++
	return v, nil
}

func (b *Buffer) GetByte() (byte, error) {
	if err := b.ensureBytes(1); err != nil {
		return 0, err
	}
	v := b.buf[b.roff]
	b.roff++
	return v, nil
}

func (b *Buffer) GetUint32() (uint32, error) {
	if err := b.ensureBytes(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(b.buf[b.roff:])
	b.roff += 4
	return v, nil
}

func (b *Buffer) GetInt32() (int32, error) {
	v, err := b.GetUint32()
	return int32(v), err
}

func (b *Buffer) GetUint64() (uint64, error) {
	if err := b.ensureBytes(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(b.buf[b.roff:])
	b.roff += 8
	return v, nil
}

func (b *Buffer) GetInt64() (int64, error) {
	v, err := b.GetUint64()
	return int64(v), err
}

func (b *Buffer) GetFloat64() (float64, error) {
	v, err := b.GetUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

func (b *Buffer) GetString() (string, error) {
	n, err := b.GetUint32()
	if err != nil {
		return "", err
	}
	if err := b.checkSeqLen(n); err != nil {
		return "", err
	}
	if err := b.ensureBytes(int(n)); err != nil {
		return "", err
	}
	s := string(b.buf[b.roff : b.roff+int(n)])
	b.roff += int(n)
	return s, nil
}

func (b *Buffer) GetBlob() ([]byte, error) {
	n, err := b.GetUint32()
	if err != nil {
		return nil, err
	}
	if err := b.checkSeqLen(n); err != nil {
		return nil, err
	}
	if err := b.ensureBytes(int(n)); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b.buf[b.roff:b.roff+int(n)])
	b.roff += int(n)
	return out, nil
}

func (b *Buffer) GetUint32Seq() ([]uint32, error) {
	n, err := b.GetUint32()
	if err != nil {
		return nil, err
	}
	if err := b.checkSeqLen(n); err != nil {
		return nil, err
	}
	if err := b.ensureBytes(int(n) * 4); err != nil {
		return nil, err
	}
	out := make([]uint32, n)
	for i := range out {
		out[i], _ = b.GetUint32()
	}
	return out, nil
}

func (b *Buffer) GetInt32Seq() ([]int32, error) {
	n, err := b.GetUint32()
	if err != nil {
		return nil, err
	}
	if err := b.checkSeqLen(n); err != nil {
		return nil, err
	}
	if err := b.ensureBytes(int(n) * 4); err != nil {
		return nil, err
	}
	out := make([]int32, n)
	for i := range out {
		out[i], _ = b.GetInt32()
	}
	return out, nil
}
