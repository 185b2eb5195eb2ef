package splay

import "fmt"

// The Check methods validate structural invariants: strict BST ordering
// with propagated open-interval bounds, parent back-links matching the
// structural parent, and size accounting. They are meant for tests and are
// never called by regular operations. They deliberately avoid the package's
// own iterators — a checker trusting the iterators would mask bugs in those
// same iterators — and walk recursively, which is acceptable for a
// test-only code path.

// Check validates the structural invariants of the map.
func (m *Map[K, V]) Check() error {
	if m == nil || m.cmp == nil {
		return fmt.Errorf("%w: map not initialized", ErrInvariant)
	}
	if m.root != nil && m.root.up != nil {
		return fmt.Errorf("%w: root node has a parent", ErrInvariant)
	}
	count, err := m.checkNode(m.root, nil, nil)
	if err != nil {
		return err
	}
	if count != m.size {
		return fmt.Errorf("%w: size counter %d, but %d records reachable",
			ErrInvariant, m.size, count)
	}
	return nil
}

// checkNode validates the subtree under n against the exclusive bounds
// (lo, hi), nil meaning unbounded, and returns its record count.
func (m *Map[K, V]) checkNode(n *Node[K, V], lo, hi *K) (int, error) {
	if n == nil {
		return 0, nil
	}
	if lo != nil && m.cmp(n.key, *lo) <= 0 {
		return 0, fmt.Errorf("%w: key at or below its subtree's lower bound", ErrInvariant)
	}
	if hi != nil && m.cmp(n.key, *hi) >= 0 {
		return 0, fmt.Errorf("%w: key at or above its subtree's upper bound", ErrInvariant)
	}
	for d := lft; d <= rgt; d++ {
		if c := n.down[d]; c != nil && c.up != n {
			return 0, fmt.Errorf("%w: stored parent differs from structural parent", ErrInvariant)
		}
	}
	leftCount, err := m.checkNode(n.down[lft], lo, &n.key)
	if err != nil {
		return 0, err
	}
	rightCount, err := m.checkNode(n.down[rgt], &n.key, hi)
	if err != nil {
		return 0, err
	}
	return leftCount + rightCount + 1, nil
}

// Check validates the structural invariants of the multimap, including the
// shape of every duplicate ring.
func (m *MultiMap[K, V]) Check() error {
	if m == nil || m.cmp == nil {
		return fmt.Errorf("%w: map not initialized", ErrInvariant)
	}
	if m.root != nil && m.root.up != nil {
		return fmt.Errorf("%w: root node has a parent", ErrInvariant)
	}
	count, err := m.checkNode(m.root, nil, nil)
	if err != nil {
		return err
	}
	if count != m.size {
		return fmt.Errorf("%w: size counter %d, but %d records reachable",
			ErrInvariant, m.size, count)
	}
	return nil
}

func (m *MultiMap[K, V]) checkNode(n *MultiNode[K, V], lo, hi *K) (int, error) {
	if n == nil {
		return 0, nil
	}
	if n.role != roleAnchor {
		return 0, fmt.Errorf("%w: duplicate record linked into the tree", ErrInvariant)
	}
	if lo != nil && m.cmp(n.key, *lo) <= 0 {
		return 0, fmt.Errorf("%w: key at or below its subtree's lower bound", ErrInvariant)
	}
	if hi != nil && m.cmp(n.key, *hi) >= 0 {
		return 0, fmt.Errorf("%w: key at or above its subtree's upper bound", ErrInvariant)
	}
	for d := lft; d <= rgt; d++ {
		if c := n.down[d]; c != nil && c.up != n {
			return 0, fmt.Errorf("%w: stored parent differs from structural parent", ErrInvariant)
		}
	}
	dups, err := m.checkRing(n)
	if err != nil {
		return 0, err
	}
	leftCount, err := m.checkNode(n.down[lft], lo, &n.key)
	if err != nil {
		return 0, err
	}
	rightCount, err := m.checkNode(n.down[rgt], &n.key, hi)
	if err != nil {
		return 0, err
	}
	return leftCount + rightCount + 1 + dups, nil
}

// checkRing validates the duplicate ring hanging off anchor and returns the
// number of duplicates.
func (m *MultiMap[K, V]) checkRing(anchor *MultiNode[K, V]) (int, error) {
	if anchor.next == nil {
		if anchor.prev != nil {
			return 0, fmt.Errorf("%w: half-linked duplicate ring", ErrInvariant)
		}
		return 0, nil
	}
	count := 0
	prev := anchor
	for d := anchor.next; d != anchor; d = d.next {
		if d == nil {
			return 0, fmt.Errorf("%w: duplicate ring is not closed", ErrInvariant)
		}
		if d.role != roleDuplicate {
			return 0, fmt.Errorf("%w: second anchor inside a duplicate ring", ErrInvariant)
		}
		if d.prev != prev {
			return 0, fmt.Errorf("%w: duplicate ring back-link mismatch", ErrInvariant)
		}
		if m.cmp(d.key, anchor.key) != 0 {
			return 0, fmt.Errorf("%w: ring member key differs from anchor key", ErrInvariant)
		}
		if d.down[lft] != nil || d.down[rgt] != nil || d.up != nil {
			return 0, fmt.Errorf("%w: ring member carries tree links", ErrInvariant)
		}
		count++
		if count > m.size {
			return 0, fmt.Errorf("%w: duplicate ring longer than the map", ErrInvariant)
		}
		prev = d
	}
	if anchor.prev != prev {
		return 0, fmt.Errorf("%w: anchor back-link does not close the ring", ErrInvariant)
	}
	return count, nil
}

// Check validates the structural invariants of the handle map. On top of
// the tree invariants it verifies slot accounting: the free list, walked to
// exhaustion, plus the occupied records must exactly cover the capacity.
func (m *HandleMap[K, V]) Check() error {
	if m == nil || m.cmp == nil {
		return fmt.Errorf("%w: map not initialized", ErrInvariant)
	}
	if m.data.Cap() < m.nodes.Cap() {
		return fmt.Errorf("%w: record array smaller than node array", ErrInvariant)
	}
	if m.root != 0 {
		if int(m.root) >= m.nodes.Cap() {
			return fmt.Errorf("%w: root handle out of range", ErrInvariant)
		}
		if m.nodes.At(int(m.root)).up != 0 {
			return fmt.Errorf("%w: root node has a parent", ErrInvariant)
		}
	}
	count, err := m.checkNode(m.root, nil, nil)
	if err != nil {
		return err
	}
	if count != m.size {
		return fmt.Errorf("%w: size counter %d, but %d records reachable",
			ErrInvariant, m.size, count)
	}
	frees := 0
	for h := m.free; h != 0; {
		if int(h) >= m.nodes.Cap() {
			return fmt.Errorf("%w: free-list handle out of range", ErrInvariant)
		}
		n := m.nodes.At(int(h))
		if n.state != slotFree {
			return fmt.Errorf("%w: free list references an occupied slot", ErrInvariant)
		}
		frees++
		if frees > m.nodes.Cap() {
			return fmt.Errorf("%w: cycle in the free list", ErrInvariant)
		}
		h = n.nextFree
	}
	if capacity := m.nodes.Cap() - 1; frees+count != capacity {
		return fmt.Errorf("%w: %d free plus %d occupied slots do not cover capacity %d",
			ErrInvariant, frees, count, capacity)
	}
	return nil
}

func (m *HandleMap[K, V]) checkNode(h Handle, lo, hi *K) (int, error) {
	if h == 0 {
		return 0, nil
	}
	if h < 0 || int(h) >= m.nodes.Cap() {
		return 0, fmt.Errorf("%w: tree handle out of range", ErrInvariant)
	}
	n := m.nodes.At(int(h))
	if n.state != slotUsed {
		return 0, fmt.Errorf("%w: tree references a free slot", ErrInvariant)
	}
	key := m.data.At(int(h)).Key
	if lo != nil && m.cmp(key, *lo) <= 0 {
		return 0, fmt.Errorf("%w: key at or below its subtree's lower bound", ErrInvariant)
	}
	if hi != nil && m.cmp(key, *hi) >= 0 {
		return 0, fmt.Errorf("%w: key at or above its subtree's upper bound", ErrInvariant)
	}
	for d := lft; d <= rgt; d++ {
		if c := n.down[d]; c != 0 {
			if int(c) >= m.nodes.Cap() {
				return 0, fmt.Errorf("%w: child handle out of range", ErrInvariant)
			}
			if m.nodes.At(int(c)).up != h {
				return 0, fmt.Errorf("%w: stored parent differs from structural parent", ErrInvariant)
			}
		}
	}
	leftCount, err := m.checkNode(n.down[lft], lo, &key)
	if err != nil {
		return 0, err
	}
	rightCount, err := m.checkNode(n.down[rgt], &key, hi)
	if err != nil {
		return 0, err
	}
	return leftCount + rightCount + 1, nil
}
