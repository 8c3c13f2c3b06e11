// Package errring implements the firmware's bounded, lossy error
// history (spec.md §4.7): a fixed-length ring of (module, code) pairs
// that the supervisory host drains with GetNextError/GetErrorsNumber.
//
// Grounded on the teacher's pkg/emergency history FIFO (readEntry1003/
// writeEntry1003: a write pointer plus an outstanding count, modulo the
// ring length) generalized from an OD-read extension into a standalone
// type.
package errring

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// HistoryLength is the fixed ring capacity (spec.md §4.7).
const HistoryLength = 64

// SentinelEntry is returned by Next when the ring is empty.
const SentinelEntry uint16 = 0xFFFF

var log = logrus.WithField("component", "[ERRRING]")

// Entry is a single (module, code) pair packed as the wire requires:
// module in the high byte, code in the low byte.
type Entry struct {
	Module uint8
	Code   uint8
}

func (e Entry) pack() uint16 {
	return uint16(e.Module)<<8 | uint16(e.Code)
}

func unpack(v uint16) Entry {
	return Entry{Module: uint8(v >> 8), Code: uint8(v)}
}

// Ring is a fixed-capacity, never-blocking, lossy ring buffer of Entry.
// When full, Push silently advances the tail, dropping the oldest
// entry, exactly as the teacher's fifo does with fifoWrPtr/fifoCount.
type Ring struct {
	mu      sync.Mutex
	buf     [HistoryLength]uint16
	head    int // next write position
	tail    int // oldest unread entry
	count   int
}

// New returns an empty error ring.
func New() *Ring {
	return &Ring{}
}

// Push inserts a new (module, code) error. Never blocks; if the ring is
// full, the oldest entry is dropped to make room.
func (r *Ring) Push(module, code uint8) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := Entry{Module: module, Code: code}
	r.buf[r.head] = entry.pack()
	r.head = (r.head + 1) % HistoryLength
	if r.count == HistoryLength {
		// Full: oldest advances too, ring is lossy.
		r.tail = (r.tail + 1) % HistoryLength
		log.WithFields(logrus.Fields{"module": module, "code": code}).
			Warn("error ring full, dropping oldest entry")
	} else {
		r.count++
	}
}

// Next drains a single oldest-first entry. Returns (entry, true) if one
// was available, or (the entry unpacked from SentinelEntry, false) if
// the ring was empty.
func (r *Ring) Next() (Entry, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.count == 0 {
		return unpack(SentinelEntry), false
	}
	v := r.buf[r.tail]
	r.tail = (r.tail + 1) % HistoryLength
	r.count--
	return unpack(v), true
}

// Count returns the number of outstanding (undrained) entries.
func (r *Ring) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Clear drops all outstanding entries without reading them.
func (r *Ring) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.head = 0
	r.tail = 0
	r.count = 0
}
