package event

import (
	"sync"

	"github.com/OneOfOne/xxhash"

	"github.com/dcl-project/dcl/wire"
)

// releaseRecord is the most recent release of an event seen so far, by
// timestamp; Acquire only checks that one exists (spec.md §4.12: release-acquire, not
// sequential consistency -- only a happens-before edge for the specific
// event being waited on).
type releaseRecord struct {
	timestamp int64
	nodeID    uint64
}

// Consistency implements the event/memory-consistency engine (C12):
// compute nodes release an event's writes, declaring themselves the
// authoritative holder of every memory object the event modified, and any
// node about to use an object it does not currently hold first acquires the
// producing event, blocking until any release of that event id has been
// recorded (spec.md §4.12). Ownership changes only through Declare; Acquire
// does not make the acquiring node the holder of any object.
type Consistency struct {
	mu       sync.Mutex
	releases map[wire.ObjectID]releaseRecord
	waiters  map[wire.ObjectID][]chan struct{}
	owners   map[wire.ObjectID]uint64
	selfNode uint64
}

func New(selfNodeID uint64) *Consistency {
	return &Consistency{
		releases: make(map[wire.ObjectID]releaseRecord),
		waiters:  make(map[wire.ObjectID][]chan struct{}),
		owners:   make(map[wire.ObjectID]uint64),
		selfNode: selfNodeID,
	}
}

// Declare records that eventID's effects are now globally visible as of
// timestamp, makes nodeID the authoritative holder of every object in
// objects, and wakes any local Acquire callers waiting on eventID.
func (c *Consistency) Declare(eventID wire.ObjectID, nodeID uint64, timestamp int64, objects []wire.ObjectID) {
	c.mu.Lock()
	cur, ok := c.releases[eventID]
	if !ok || timestamp > cur.timestamp {
		c.releases[eventID] = releaseRecord{timestamp: timestamp, nodeID: nodeID}
	}
	for _, obj := range objects {
		c.owners[obj] = nodeID
	}
	waiters := c.waiters[eventID]
	delete(c.waiters, eventID)
	c.mu.Unlock()

	for _, ch := range waiters {
		close(ch)
	}
}

// Release records that eventID's effects are now globally visible as of
// timestamp, without declaring ownership over any memory object (e.g. a
// marker or barrier event that modifies nothing).
func (c *Consistency) Release(eventID wire.ObjectID, nodeID uint64, timestamp int64) {
	c.Declare(eventID, nodeID, timestamp, nil)
}

// Owner reports which node currently holds the authoritative copy of memID,
// and whether this Consistency has ever observed a release for it.
func (c *Consistency) Owner(memID wire.ObjectID) (uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.owners[memID]
	return n, ok
}

// Acquire blocks until eventID has been released at least once. Returns a
// channel that is closed on release, so callers can select against a
// timeout or cancellation context alongside it.
func (c *Consistency) Acquire(eventID wire.ObjectID) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.releases[eventID]; ok {
		done := make(chan struct{})
		close(done)
		return done
	}
	ch := make(chan struct{})
	c.waiters[eventID] = append(c.waiters[eventID], ch)
	return ch
}

// IsReleased reports whether eventID has ever been released, without
// blocking.
func (c *Consistency) IsReleased(eventID wire.ObjectID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.releases[eventID]
	return ok
}

// RelayPath picks which of the candidate peer node ids should relay a
// release/acquire exchange between two compute nodes that cannot talk to
// each other directly, when the host mediates a cross-node sync (spec.md §9
// Open Questions, decided: host-mediated relay chooses a relay node by
// rendezvous hashing over (eventID, candidate) so that repeated syncs for
// the same event consistently pick the same relay without any central
// coordination state). Grounded on the teacher's use of OneOfOne/xxhash for
// consistent placement decisions (cmn/cos checksum utilities).
func RelayPath(eventID wire.ObjectID, candidates []uint64) uint64 {
	if len(candidates) == 0 {
		return 0
	}
	best := candidates[0]
	bestScore := rendezvousScore(eventID, best)
	for _, c := range candidates[1:] {
		if s := rendezvousScore(eventID, c); s > bestScore {
			best, bestScore = c, s
		}
	}
	return best
}

func rendezvousScore(eventID wire.ObjectID, nodeID uint64) uint64 {
	h := xxhash.New64()
	var buf [12]byte
	putUint32(buf[0:4], uint32(eventID))
	putUint64(buf[4:12], nodeID)
	_, _ = h.Write(buf[:])
	return h.Sum64()
}

func putUint32(b []byte, v uint32) {
	b[0], b[1], b[2], b[3] = byte(v), byte(v>>8), byte(v>>16), byte(v>>24)
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}
