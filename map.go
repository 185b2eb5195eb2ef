package splay

/*
BSD 3-Clause License

Copyright (c) 2021–22, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

import "fmt"

// Map is an ordered map with unique keys, backed by a splay tree of
// intrusive pointer nodes.
//
// Every operation — including pure lookups — may restructure the tree, so a
// Map must not be shared between goroutines without external locking.
type Map[K, V any] struct {
	cmp  func(a, b K) int
	root *Node[K, V]
	size int
}

// NewMap creates an empty ordered map. cmp must implement a strict total
// order over keys, consistent for the lifetime of the map.
func NewMap[K, V any](cmp func(a, b K) int) (*Map[K, V], error) {
	if cmp == nil {
		return nil, fmt.Errorf("%w: NewMap", ErrNoComparator)
	}
	return &Map[K, V]{cmp: cmp}, nil
}

// Len returns the number of records in the map.
func (m *Map[K, V]) Len() int {
	if m == nil {
		return 0
	}
	return m.size
}

// splay moves the node holding key — or the last node on its search path —
// to the root.
func (m *Map[K, V]) splay(key K) *Node[K, V] {
	m.root = splayTo(nodeRepr[K, V]{}, m.root, func(n *Node[K, V]) int {
		return m.cmp(key, n.key)
	})
	return m.root
}

// Insert adds a key/value record to the map. If the key is already present
// the map is left unchanged and the existing node is returned together with
// inserted == false.
func (m *Map[K, V]) Insert(key K, value V) (n *Node[K, V], inserted bool) {
	n = &Node[K, V]{key: key, value: value}
	r := m.splay(key)
	if r == nil {
		m.root = n
		m.size = 1
		return n, true
	}
	c := m.cmp(key, r.key)
	if c == 0 {
		return r, false
	}
	d := lft
	if c > 0 {
		d = rgt
	}
	m.root = connectRoot(nodeRepr[K, V]{}, r, n, d)
	m.size++
	return n, true
}

// Find splays towards key and returns its node, or nil if the key is
// absent. Like every lookup it restructures the tree (but not its logical
// content).
func (m *Map[K, V]) Find(key K) *Node[K, V] {
	if r := m.splay(key); r != nil && m.cmp(key, r.key) == 0 {
		return r
	}
	return nil
}

// Get returns the value stored for key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if n := m.Find(key); n != nil {
		return n.value, true
	}
	var none V
	return none, false
}

// Contains reports whether key is present.
func (m *Map[K, V]) Contains(key K) bool {
	return m.Find(key) != nil
}

// Delete removes key from the map and returns the value it held.
func (m *Map[K, V]) Delete(key K) (V, bool) {
	var none V
	r := m.splay(key)
	if r == nil || m.cmp(key, r.key) != 0 {
		return none, false
	}
	m.root = detachRoot(nodeRepr[K, V]{}, r, func(n *Node[K, V]) int {
		return m.cmp(key, n.key)
	})
	m.size--
	return r.value, true
}

// First returns the node with the smallest key, or nil for an empty map.
// First does not splay.
func (m *Map[K, V]) First() *Node[K, V] {
	return extreme(nodeRepr[K, V]{}, m.root, lft)
}

// Last returns the node with the greatest key, or nil for an empty map.
func (m *Map[K, V]) Last() *Node[K, V] {
	return extreme(nodeRepr[K, V]{}, m.root, rgt)
}

// Clear drops all records. Node references handed out earlier become
// invalid; their memory is left to the garbage collector.
func (m *Map[K, V]) Clear() {
	m.root = nil
	m.size = 0
}

// ClearFunc visits every record once with teardown, then clears the map.
// The callback must not operate on the map it is tearing down.
func (m *Map[K, V]) ClearFunc(teardown func(key K, value V)) {
	if teardown != nil {
		for n := m.First(); n != nil; n = n.Next() {
			teardown(n.key, n.value)
		}
	}
	T().Debugf("splay.Map: cleared %d records", m.size)
	m.Clear()
}
