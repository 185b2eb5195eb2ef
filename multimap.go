package splay

/*
BSD 3-Clause License

Copyright (c) 2021–22, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import (
	"fmt"
	"iter"
)

// nodeRole discriminates how a MultiNode participates in the structure.
// The role is explicit state, never derived from pointer aliasing: a record
// either is the tree-resident anchor of its key, or a duplicate hanging off
// the anchor's ring.
type nodeRole uint8

const (
	roleAnchor nodeRole = iota
	roleDuplicate
)

// MultiNode is a single key/value record of a MultiMap. Records sharing a
// key form a circular doubly linked ring; exactly one of them — the oldest,
// the anchor — sits in the tree, all others are duplicates reachable only
// through the ring.
type MultiNode[K, V any] struct {
	key        K
	value      V
	down       [2]*MultiNode[K, V]
	up         *MultiNode[K, V]
	prev, next *MultiNode[K, V] // duplicate ring; nil for a record without duplicates
	role       nodeRole
}

// Key returns the record's key.
func (n *MultiNode[K, V]) Key() K {
	return n.key
}

// Value returns the record's value.
func (n *MultiNode[K, V]) Value() V {
	return n.value
}

// SetValue updates the record's value in place.
func (n *MultiNode[K, V]) SetValue(v V) {
	n.value = v
}

// Next returns the record following n in map order: remaining ring members
// of the same key in insertion order first, then the anchor of the next
// greater key. Returns nil at the end of the map.
func (n *MultiNode[K, V]) Next() *MultiNode[K, V] {
	if n.next != nil && n.next.role == roleDuplicate {
		return n.next
	}
	anchor := n
	if n.role == roleDuplicate {
		anchor = n.next // the ring wraps back to the anchor
	}
	return neighbor(multiRepr[K, V]{}, anchor, rgt)
}

// Prev returns the record preceding n in map order, nil at the start.
func (n *MultiNode[K, V]) Prev() *MultiNode[K, V] {
	if n.role == roleDuplicate {
		return n.prev
	}
	p := neighbor(multiRepr[K, V]{}, n, lft)
	if p == nil {
		return nil
	}
	if p.prev != nil {
		return p.prev // the preceding key's newest duplicate
	}
	return p
}

// multiRepr adapts multimap nodes to the splay engine. Only anchors ever
// enter the tree, so the ring fields are invisible to the engine.
type multiRepr[K, V any] struct{}

func (multiRepr[K, V]) null() *MultiNode[K, V] {
	return nil
}

func (multiRepr[K, V]) child(n *MultiNode[K, V], dir int) *MultiNode[K, V] {
	return n.down[dir]
}

func (multiRepr[K, V]) link(n *MultiNode[K, V], dir int, c *MultiNode[K, V]) {
	n.down[dir] = c
	if c != nil {
		c.up = n
	}
}

func (multiRepr[K, V]) parent(n *MultiNode[K, V]) *MultiNode[K, V] {
	return n.up
}

func (multiRepr[K, V]) clearParent(n *MultiNode[K, V]) {
	n.up = nil
}

// MultiMap is an ordered map accepting duplicate keys, backed by the same
// splay engine as Map. Same-key records are retrieved oldest-first.
//
// Like all maps of this package a MultiMap restructures on reads and is not
// safe for any concurrent use.
type MultiMap[K, V any] struct {
	cmp  func(a, b K) int
	root *MultiNode[K, V]
	size int // records including duplicates
}

// NewMultiMap creates an empty multimap. cmp must implement a strict total
// order over keys, consistent for the lifetime of the map.
func NewMultiMap[K, V any](cmp func(a, b K) int) (*MultiMap[K, V], error) {
	if cmp == nil {
		return nil, fmt.Errorf("%w: NewMultiMap", ErrNoComparator)
	}
	return &MultiMap[K, V]{cmp: cmp}, nil
}

// Len returns the number of records, duplicates included.
func (m *MultiMap[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return m.size
}

func (m *MultiMap[K, V]) splay(key K) *MultiNode[K, V] {
	m.root = splayTo(multiRepr[K, V]{}, m.root, func(n *MultiNode[K, V]) int {
		return m.cmp(key, n.key)
	})
	return m.root
}

// Insert adds a key/value record. Duplicate keys never conflict: the new
// record joins the key's ring at the tail, preserving oldest-first
// retrieval order.
func (m *MultiMap[K, V]) Insert(key K, value V) *MultiNode[K, V] {
	n := &MultiNode[K, V]{key: key, value: value}
	r := m.splay(key)
	if r == nil {
		m.root = n
		m.size = 1
		return n
	}
	c := m.cmp(key, r.key)
	if c == 0 {
		m.appendDuplicate(r, n)
		m.size++
		return n
	}
	d := lft
	if c > 0 {
		d = rgt
	}
	m.root = connectRoot(multiRepr[K, V]{}, r, n, d)
	m.size++
	return n
}

// appendDuplicate hooks n into the anchor's ring as the newest member.
func (m *MultiMap[K, V]) appendDuplicate(anchor, n *MultiNode[K, V]) {
	n.role = roleDuplicate
	if anchor.next == nil {
		anchor.next, anchor.prev = n, n
		n.next, n.prev = anchor, anchor
		return
	}
	tail := anchor.prev
	tail.next = n
	n.prev = tail
	n.next = anchor
	anchor.prev = n
}

// unring splices n out of its ring. A two-member ring collapses to a lone
// record.
func (m *MultiMap[K, V]) unring(n *MultiNode[K, V]) {
	p, nx := n.prev, n.next
	if nx != nil {
		if nx == p {
			nx.next, nx.prev = nil, nil
		} else {
			p.next = nx
			nx.prev = p
		}
	}
	n.next, n.prev = nil, nil
}

// promote moves a duplicate into the tree position of its removed anchor r.
// r must have been splayed to the root beforehand.
func (m *MultiMap[K, V]) promote(r, promoted *MultiNode[K, V]) {
	ops := multiRepr[K, V]{}
	promoted.role = roleAnchor
	ops.link(promoted, lft, r.down[lft])
	ops.link(promoted, rgt, r.down[rgt])
	ops.clearParent(promoted)
	m.root = promoted
	r.down[lft], r.down[rgt], r.up = nil, nil, nil
	T().Debugf("splay.MultiMap: promoted duplicate to tree anchor")
}

// removeAnchor takes the tree-resident record of a key out of the tree. If
// the key has duplicates, the next-oldest ring member is promoted into the
// tree position instead of removing the key altogether.
func (m *MultiMap[K, V]) removeAnchor(r *MultiNode[K, V]) {
	assert(r == m.root, "anchor to remove must have been splayed to the root")
	if r.next != nil {
		promoted := r.next
		m.unring(r)
		m.promote(r, promoted)
		return
	}
	m.root = detachRoot(multiRepr[K, V]{}, r, func(n *MultiNode[K, V]) int {
		return m.cmp(r.key, n.key)
	})
}

// Find splays towards key and returns its oldest record, or nil if the key
// is absent.
func (m *MultiMap[K, V]) Find(key K) *MultiNode[K, V] {
	if r := m.splay(key); r != nil && m.cmp(key, r.key) == 0 {
		return r
	}
	return nil
}

// Get returns the value of the oldest record stored for key.
func (m *MultiMap[K, V]) Get(key K) (V, bool) {
	if n := m.Find(key); n != nil {
		return n.value, true
	}
	var none V
	return none, false
}

// Contains reports whether at least one record with key is present.
func (m *MultiMap[K, V]) Contains(key K) bool {
	return m.Find(key) != nil
}

// Count returns the number of records stored for key.
func (m *MultiMap[K, V]) Count(key K) int {
	n := m.Find(key)
	if n == nil {
		return 0
	}
	count := 1
	for d := n.next; d != nil && d != n; d = d.next {
		count++
	}
	return count
}

// DeleteOne removes the oldest record for key and returns its value.
// Younger duplicates, if any, keep the key present in the map.
func (m *MultiMap[K, V]) DeleteOne(key K) (V, bool) {
	var none V
	r := m.splay(key)
	if r == nil || m.cmp(key, r.key) != 0 {
		return none, false
	}
	m.removeAnchor(r)
	m.size--
	return r.value, true
}

// DeleteAll removes every record stored for key and returns how many there
// were.
func (m *MultiMap[K, V]) DeleteAll(key K) int {
	r := m.splay(key)
	if r == nil || m.cmp(key, r.key) != 0 {
		return 0
	}
	count := 1
	for d := r.next; d != nil && d != r; {
		nx := d.next
		d.next, d.prev = nil, nil
		d = nx
		count++
	}
	r.next, r.prev = nil, nil
	m.root = detachRoot(multiRepr[K, V]{}, r, func(n *MultiNode[K, V]) int {
		return m.cmp(key, n.key)
	})
	m.size -= count
	return count
}

// DeleteNode removes one specific record. Ring members other than the
// anchor are spliced out in O(1); anchors splay first and promote their
// next-oldest duplicate.
//
// n must belong to this map; passing a foreign or already removed record is
// undefined.
func (m *MultiMap[K, V]) DeleteNode(n *MultiNode[K, V]) {
	if n == nil {
		return
	}
	if n.role == roleDuplicate {
		m.unring(n)
		m.size--
		return
	}
	r := m.splay(n.key)
	assert(r == n, "record to remove is not this map's anchor for its key")
	m.removeAnchor(n)
	m.size--
}

// First returns the oldest record of the smallest key, nil for an empty
// map. First does not splay.
func (m *MultiMap[K, V]) First() *MultiNode[K, V] {
	return extreme(multiRepr[K, V]{}, m.root, lft)
}

// Last returns the newest record of the greatest key, nil for an empty map.
func (m *MultiMap[K, V]) Last() *MultiNode[K, V] {
	a := extreme(multiRepr[K, V]{}, m.root, rgt)
	if a != nil && a.prev != nil {
		return a.prev // the ring tail is the newest record
	}
	return a
}

// LowerBound returns the oldest record of the smallest key greater than or
// equal to key, or nil if no such key exists.
func (m *MultiMap[K, V]) LowerBound(key K) *MultiNode[K, V] {
	r := m.splay(key)
	if r == nil {
		return nil
	}
	if m.cmp(key, r.key) > 0 {
		return neighbor(multiRepr[K, V]{}, r, rgt)
	}
	return r
}

// UpperBound returns the oldest record of the smallest key strictly greater
// than key, or nil if no such key exists.
func (m *MultiMap[K, V]) UpperBound(key K) *MultiNode[K, V] {
	r := m.splay(key)
	if r == nil {
		return nil
	}
	if m.cmp(key, r.key) >= 0 {
		return neighbor(multiRepr[K, V]{}, r, rgt)
	}
	return r
}

// EqualRange returns the first and the last record whose keys lie in the
// closed interval [lo, hi], duplicates included. Both are nil if the
// interval is empty.
func (m *MultiMap[K, V]) EqualRange(lo, hi K) (first, last *MultiNode[K, V]) {
	first = m.LowerBound(lo)
	if first == nil {
		return nil, nil
	}
	r := m.splay(hi)
	anchor := r
	if m.cmp(hi, r.key) < 0 {
		anchor = neighbor(multiRepr[K, V]{}, r, lft)
	}
	if anchor == nil || m.cmp(first.key, anchor.key) > 0 {
		return nil, nil
	}
	last = anchor
	if anchor.prev != nil {
		last = anchor.prev // include the boundary key's duplicates
	}
	return first, last
}

// All returns an in-order iterator over all records, stepping through
// same-key rings in insertion order. The map must not be touched while
// iterating.
func (m *MultiMap[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := m.First(); n != nil; n = n.Next() {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

// Backward returns a reverse-order iterator over all records.
func (m *MultiMap[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for n := m.Last(); n != nil; n = n.Prev() {
			if !yield(n.key, n.value) {
				return
			}
		}
	}
}

// Range returns an ascending iterator over all records with keys in the
// closed interval [lo, hi], duplicates included.
func (m *MultiMap[K, V]) Range(lo, hi K) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		first, last := m.EqualRange(lo, hi)
		for n := first; n != nil; n = n.Next() {
			if !yield(n.key, n.value) {
				return
			}
			if n == last {
				return
			}
		}
	}
}

// Clear drops all records.
func (m *MultiMap[K, V]) Clear() {
	m.root = nil
	m.size = 0
}

// ClearFunc visits every record once with teardown, then clears the map.
// The callback must not operate on the map it is tearing down.
func (m *MultiMap[K, V]) ClearFunc(teardown func(key K, value V)) {
	if teardown != nil {
		for n := m.First(); n != nil; n = n.Next() {
			teardown(n.key, n.value)
		}
	}
	T().Debugf("splay.MultiMap: cleared %d records", m.size)
	m.Clear()
}
