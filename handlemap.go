package splay

/*
BSD 3-Clause License

Copyright (c) 2021–22, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"errors"
	"fmt"
	"iter"

	"github.com/npillmayer/splay/arena"
)

// Handle addresses a record of a HandleMap. Handles stay valid across
// growth and unrelated mutations of the map; only removing the record a
// handle refers to invalidates it. The zero Handle is the invalid handle:
// slot 0 of the backing arrays is reserved and never handed out.
//
// The map cannot tell a stale handle from a live one once its slot has been
// reused; clients must not retain handles past the removal of their record.
type Handle int32

// Slot is one user record of a HandleMap: a key together with its value.
// Custom allocators provide backing storage of this type.
type Slot[K, V any] struct {
	Key   K
	Value V
}

type slotState uint8

const (
	slotFree slotState = iota
	slotUsed
)

// hnode is the tree metadata of one slot, kept in an array parallel to the
// record array. nextFree is meaningful only while state == slotFree: the
// state tag makes free-list membership explicit instead of aliasing the
// parent link.
type hnode struct {
	down     [2]Handle
	up       Handle
	nextFree Handle
	state    slotState
}

// HandleMap is an ordered map with unique keys whose records live in two
// parallel growable arrays — user records and tree metadata, each a
// separately allocated slice — and are addressed by stable integer handles
// instead of pointers.
//
// Like all maps of this package a HandleMap restructures on reads and is
// not safe for any concurrent use.
type HandleMap[K, V any] struct {
	cmp   func(a, b K) int
	data  *arena.Buffer[Slot[K, V]]
	nodes *arena.Buffer[hnode]
	root  Handle
	free  Handle // head of the free-slot list, 0 when exhausted
	size  int
}

// NewHandleMap creates a handle-addressed ordered map with initial room for
// capacity records. Storage grows on demand; record storage can be routed
// through a custom allocator with WithAllocator. cmp must implement a
// strict total order over keys, consistent for the lifetime of the map.
func NewHandleMap[K, V any](cmp func(a, b K) int, capacity int, opts ...Option[K, V]) (*HandleMap[K, V], error) {
	if cmp == nil {
		return nil, fmt.Errorf("%w: NewHandleMap", ErrNoComparator)
	}
	cfg := hmapConfig[K, V]{slots: arena.GoAlloc[Slot[K, V]]{}}
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	return newHandleMap[K, V](cmp, capacity, cfg.slots, arena.GoAlloc[hnode]{})
}

// NewFixedHandleMap creates a handle-addressed ordered map without an
// allocator: its capacity is fixed, and inserts into a full map surface
// ErrCapacity.
func NewFixedHandleMap[K, V any](cmp func(a, b K) int, capacity int) (*HandleMap[K, V], error) {
	if cmp == nil {
		return nil, fmt.Errorf("%w: NewFixedHandleMap", ErrNoComparator)
	}
	return newHandleMap[K, V](cmp, capacity, nil, nil)
}

func newHandleMap[K, V any](cmp func(a, b K) int, capacity int,
	slotAlloc arena.Allocator[Slot[K, V]], nodeAlloc arena.Allocator[hnode],
) (*HandleMap[K, V], error) {
	if capacity < 0 {
		capacity = 0
	}
	data, err := arena.New[Slot[K, V]](capacity+1, slotAlloc) // +1: reserved slot 0
	if err != nil {
		return nil, mapArenaErr(err)
	}
	nodes, err := arena.New[hnode](capacity+1, nodeAlloc)
	if err != nil {
		data.Release()
		return nil, mapArenaErr(err)
	}
	m := &HandleMap[K, V]{cmp: cmp, data: data, nodes: nodes}
	m.threadFreeSlots(1, capacity+1)
	return m, nil
}

// mapArenaErr translates arena failures into this package's error taxonomy.
func mapArenaErr(err error) error {
	switch {
	case errors.Is(err, arena.ErrFixedCapacity):
		return fmt.Errorf("%w: %v", ErrCapacity, err)
	case errors.Is(err, arena.ErrAllocFailed):
		return fmt.Errorf("%w: %v", ErrAllocFailed, err)
	}
	return err
}

// threadFreeSlots pushes slots [from, to) onto the free list, highest index
// first, so allocation prefers low indices.
func (m *HandleMap[K, V]) threadFreeSlots(from, to int) {
	for i := to - 1; i >= from; i-- {
		*m.nodes.At(i) = hnode{state: slotFree, nextFree: m.free}
		m.free = Handle(i)
	}
}

// Len returns the number of records in the map.
func (m *HandleMap[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return m.size
}

// Cap returns the number of records the map can hold without growing.
func (m *HandleMap[K, V]) Cap() int {
	if m == nil || m.nodes.Cap() == 0 {
		return 0
	}
	return m.nodes.Cap() - 1
}

// handleRepr adapts arena-resident nodes to the splay engine; handle 0 is
// the null reference.
type handleRepr[K, V any] struct {
	m *HandleMap[K, V]
}

func (r handleRepr[K, V]) null() Handle {
	return 0
}

func (r handleRepr[K, V]) child(h Handle, dir int) Handle {
	return r.m.nodes.At(int(h)).down[dir]
}

func (r handleRepr[K, V]) link(h Handle, dir int, c Handle) {
	r.m.nodes.At(int(h)).down[dir] = c
	if c != 0 {
		r.m.nodes.At(int(c)).up = h
	}
}

func (r handleRepr[K, V]) parent(h Handle) Handle {
	return r.m.nodes.At(int(h)).up
}

func (r handleRepr[K, V]) clearParent(h Handle) {
	r.m.nodes.At(int(h)).up = 0
}

func (m *HandleMap[K, V]) splay(key K) Handle {
	m.root = splayTo(handleRepr[K, V]{m}, m.root, func(h Handle) int {
		return m.cmp(key, m.data.At(int(h)).Key)
	})
	return m.root
}

// Insert adds a key/value record and returns its handle. If the key is
// already present the map is left unchanged and the existing record's
// handle is returned together with inserted == false. A non-nil error means
// the map was full and could not grow; the map state is unchanged then.
func (m *HandleMap[K, V]) Insert(key K, value V) (h Handle, inserted bool, err error) {
	r := m.splay(key)
	c := 0
	if r != 0 {
		c = m.cmp(key, m.data.At(int(r)).Key)
		if c == 0 {
			return r, false, nil
		}
	}
	h, err = m.allocSlot()
	if err != nil {
		return 0, false, err
	}
	slot := m.data.At(int(h))
	slot.Key, slot.Value = key, value
	*m.nodes.At(int(h)) = hnode{state: slotUsed}
	if r == 0 {
		m.root = h
	} else {
		d := lft
		if c > 0 {
			d = rgt
		}
		m.root = connectRoot(handleRepr[K, V]{m}, r, h, d)
	}
	m.size++
	return h, true, nil
}

// allocSlot pops a free slot, growing the backing arrays when none is left.
func (m *HandleMap[K, V]) allocSlot() (Handle, error) {
	if m.free == 0 {
		newCap := 2 * m.Cap()
		if newCap < 8 {
			newCap = 8
		}
		if err := m.Grow(newCap); err != nil {
			return 0, err
		}
	}
	h := m.free
	assert(h != 0, "free list empty after successful grow")
	n := m.nodes.At(int(h))
	assert(n.state == slotFree, "free list references an occupied slot")
	m.free = n.nextFree
	n.nextFree = 0
	return h, nil
}

// freeSlot returns slot h to the free list and zeroes its record so stale
// references do not keep client data alive.
func (m *HandleMap[K, V]) freeSlot(h Handle) {
	*m.nodes.At(int(h)) = hnode{state: slotFree, nextFree: m.free}
	m.free = h
	*m.data.At(int(h)) = Slot[K, V]{}
}

// Grow reserves room for at least capacity records. Both parallel arrays
// are reallocated and copied wholesale, never incrementally, so every
// previously issued handle keeps addressing the same logical record. Fresh
// slots above the old high-water mark join the free list.
func (m *HandleMap[K, V]) Grow(capacity int) error {
	oldCap := m.nodes.Cap()
	need := capacity + 1
	if need <= oldCap {
		return nil
	}
	if err := m.data.Grow(need); err != nil {
		return mapArenaErr(err)
	}
	if err := m.nodes.Grow(need); err != nil {
		return mapArenaErr(err)
	}
	m.threadFreeSlots(oldCap, need)
	T().Debugf("splay.HandleMap: grown from %d to %d slots", oldCap-1, need-1)
	return nil
}

// Find splays towards key and returns the handle of its record, 0 if the
// key is absent.
func (m *HandleMap[K, V]) Find(key K) Handle {
	r := m.splay(key)
	if r != 0 && m.cmp(key, m.data.At(int(r)).Key) == 0 {
		return r
	}
	return 0
}

// Get returns the value stored for key.
func (m *HandleMap[K, V]) Get(key K) (V, bool) {
	if h := m.Find(key); h != 0 {
		return m.data.At(int(h)).Value, true
	}
	var none V
	return none, false
}

// Contains reports whether key is present.
func (m *HandleMap[K, V]) Contains(key K) bool {
	return m.Find(key) != 0
}

// Slot translates a handle into the address of its record, with bounds and
// occupancy checking. The pointer is valid until the map next grows; the
// record may be mutated through it, except for the key.
func (m *HandleMap[K, V]) Slot(h Handle) (*Slot[K, V], bool) {
	if h <= 0 || int(h) >= m.nodes.Cap() {
		return nil, false
	}
	if m.nodes.At(int(h)).state != slotUsed {
		return nil, false
	}
	return m.data.At(int(h)), true
}

// SetValue updates the value of the record addressed by h in place. Returns
// ErrInvalidHandle if h is out of range or its slot is not occupied.
func (m *HandleMap[K, V]) SetValue(h Handle, value V) error {
	s, ok := m.Slot(h)
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	s.Value = value
	return nil
}

// Delete removes key from the map, returning the value it held. The freed
// slot becomes available for reuse.
func (m *HandleMap[K, V]) Delete(key K) (V, bool) {
	var none V
	r := m.splay(key)
	if r == 0 || m.cmp(key, m.data.At(int(r)).Key) != 0 {
		return none, false
	}
	v := m.data.At(int(r)).Value
	m.root = detachRoot(handleRepr[K, V]{m}, r, func(h Handle) int {
		return m.cmp(key, m.data.At(int(h)).Key)
	})
	m.freeSlot(r)
	m.size--
	return v, true
}

// DeleteHandle removes the record addressed by h. Returns ErrInvalidHandle
// if h is out of range or its slot is not occupied.
func (m *HandleMap[K, V]) DeleteHandle(h Handle) error {
	s, ok := m.Slot(h)
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	r := m.splay(s.Key)
	assert(r == h, "handle's key not found at the root after splaying")
	key := m.data.At(int(r)).Key
	m.root = detachRoot(handleRepr[K, V]{m}, r, func(x Handle) int {
		return m.cmp(key, m.data.At(int(x)).Key)
	})
	m.freeSlot(r)
	m.size--
	return nil
}

// First returns the handle of the smallest key, 0 for an empty map. First
// does not splay.
func (m *HandleMap[K, V]) First() Handle {
	return extreme(handleRepr[K, V]{m}, m.root, lft)
}

// Last returns the handle of the greatest key, 0 for an empty map.
func (m *HandleMap[K, V]) Last() Handle {
	return extreme(handleRepr[K, V]{m}, m.root, rgt)
}

// Next returns the handle of the smallest key greater than h's key, 0 at
// the end of the map or for an invalid h.
func (m *HandleMap[K, V]) Next(h Handle) Handle {
	if _, ok := m.Slot(h); !ok {
		return 0
	}
	return neighbor(handleRepr[K, V]{m}, h, rgt)
}

// Prev returns the handle of the greatest key smaller than h's key, 0 at
// the start of the map or for an invalid h.
func (m *HandleMap[K, V]) Prev(h Handle) Handle {
	if _, ok := m.Slot(h); !ok {
		return 0
	}
	return neighbor(handleRepr[K, V]{m}, h, lft)
}

// LowerBound returns the handle of the leftmost record whose key is greater
// than or equal to key, 0 if no such record exists.
func (m *HandleMap[K, V]) LowerBound(key K) Handle {
	r := m.splay(key)
	if r == 0 {
		return 0
	}
	if m.cmp(key, m.data.At(int(r)).Key) > 0 {
		return neighbor(handleRepr[K, V]{m}, r, rgt)
	}
	return r
}

// UpperBound returns the handle of the leftmost record whose key is
// strictly greater than key, 0 if no such record exists.
func (m *HandleMap[K, V]) UpperBound(key K) Handle {
	r := m.splay(key)
	if r == 0 {
		return 0
	}
	if m.cmp(key, m.data.At(int(r)).Key) >= 0 {
		return neighbor(handleRepr[K, V]{m}, r, rgt)
	}
	return r
}

// EqualRange returns the handles of the first and the last record whose
// keys lie in the closed interval [lo, hi]. Both are 0 if the interval is
// empty. The bounds need not be member keys.
func (m *HandleMap[K, V]) EqualRange(lo, hi K) (first, last Handle) {
	first = m.LowerBound(lo)
	if first == 0 {
		return 0, 0
	}
	r := m.splay(hi)
	last = r
	if m.cmp(hi, m.data.At(int(r)).Key) < 0 {
		last = neighbor(handleRepr[K, V]{m}, r, lft)
	}
	if last == 0 || m.cmp(m.data.At(int(first)).Key, m.data.At(int(last)).Key) > 0 {
		return 0, 0
	}
	return first, last
}

// Range returns an ascending iterator over all records with keys in the
// closed interval [lo, hi].
func (m *HandleMap[K, V]) Range(lo, hi K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		first, last := m.EqualRange(lo, hi)
		ops := handleRepr[K, V]{m}
		for h := first; h != 0; h = neighbor(ops, h, rgt) {
			s := m.data.At(int(h))
			if !yield(s.Key, s.Value) {
				return
			}
			if h == last {
				return
			}
		}
	}
}

// All returns an in-order iterator over all records. The map must not be
// touched while iterating.
func (m *HandleMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		ops := handleRepr[K, V]{m}
		for h := m.First(); h != 0; h = neighbor(ops, h, rgt) {
			s := m.data.At(int(h))
			if !yield(s.Key, s.Value) {
				return
			}
		}
	}
}

// Handles returns an in-order iterator over the handles of all records.
func (m *HandleMap[K, V]) Handles() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		ops := handleRepr[K, V]{m}
		for h := m.First(); h != 0; h = neighbor(ops, h, rgt) {
			if !yield(h) {
				return
			}
		}
	}
}

// CopyFrom replaces m's contents with a handle-preserving copy of src:
// every record keeps the handle it has in src. The destination grows to
// src's capacity if necessary, which requires it to be growable; the
// destination also adopts src's comparator.
func (m *HandleMap[K, V]) CopyFrom(src *HandleMap[K, V]) error {
	if src == nil {
		return fmt.Errorf("%w: nil source", ErrIncompatible)
	}
	need := src.nodes.Cap()
	if m.nodes.Cap() < need {
		if err := m.data.Grow(need); err != nil {
			return mapArenaErr(err)
		}
		if err := m.nodes.Grow(need); err != nil {
			return mapArenaErr(err)
		}
	}
	// Both parallel arrays are copied wholesale; indices carry over
	// verbatim, so the copied tree needs no relinking.
	if err := m.data.CopyFrom(src.data); err != nil {
		return mapArenaErr(err)
	}
	if err := m.nodes.CopyFrom(src.nodes); err != nil {
		return mapArenaErr(err)
	}
	m.cmp = src.cmp
	m.root = src.root
	m.size = src.size
	m.free = src.free
	// Surplus slots of a larger destination join the free list; surplus
	// records are dropped.
	for i := need; i < m.data.Cap(); i++ {
		*m.data.At(i) = Slot[K, V]{}
	}
	m.threadFreeSlots(need, m.nodes.Cap())
	return nil
}

// Clear removes all records, retaining capacity: the free list is rebuilt
// over all slots.
func (m *HandleMap[K, V]) Clear() {
	m.free = 0
	m.threadFreeSlots(1, m.nodes.Cap())
	for i := 1; i < m.data.Cap(); i++ {
		*m.data.At(i) = Slot[K, V]{}
	}
	m.root = 0
	m.size = 0
}

// ClearFunc visits every record once with teardown, then clears the map.
// The callback must not operate on the map it is tearing down.
func (m *HandleMap[K, V]) ClearFunc(teardown func(key K, value V)) {
	if teardown != nil {
		ops := handleRepr[K, V]{m}
		for h := m.First(); h != 0; h = neighbor(ops, h, rgt) {
			s := m.data.At(int(h))
			teardown(s.Key, s.Value)
		}
	}
	T().Debugf("splay.HandleMap: cleared %d records", m.size)
	m.Clear()
}

// Close clears the map and returns both backing arrays to their
// allocators. The map must not be used afterwards.
func (m *HandleMap[K, V]) Close() {
	m.data.Release()
	m.nodes.Release()
	m.root, m.free, m.size = 0, 0, 0
}
