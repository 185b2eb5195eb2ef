package splay

// Node is a single key/value record of a Map. Nodes are allocated by the
// map and handed out for navigation and in-place value updates; a node
// reference becomes invalid when its key is removed from the map.
type Node[K, V any] struct {
	key   K
	value V
	down  [2]*Node[K, V]
	up    *Node[K, V]
}

// Key returns the node's key. Keys are immutable; changing a key would
// silently break the tree's ordering.
func (n *Node[K, V]) Key() K {
	return n.key
}

// Value returns the node's value.
func (n *Node[K, V]) Value() V {
	return n.value
}

// SetValue updates the node's value in place.
func (n *Node[K, V]) SetValue(v V) {
	n.value = v
}

// Next returns the node with the smallest key greater than n's key, or nil
// at the end of the map. The walk uses parent links and does not splay.
func (n *Node[K, V]) Next() *Node[K, V] {
	return neighbor(nodeRepr[K, V]{}, n, rgt)
}

// Prev returns the node with the greatest key smaller than n's key, or nil
// at the start of the map.
func (n *Node[K, V]) Prev() *Node[K, V] {
	return neighbor(nodeRepr[K, V]{}, n, lft)
}

// nodeRepr adapts pointer nodes to the splay engine.
type nodeRepr[K, V any] struct{}

func (nodeRepr[K, V]) null() *Node[K, V] {
	return nil
}

func (nodeRepr[K, V]) child(n *Node[K, V], dir int) *Node[K, V] {
	return n.down[dir]
}

func (nodeRepr[K, V]) link(n *Node[K, V], dir int, c *Node[K, V]) {
	n.down[dir] = c
	if c != nil {
		c.up = n
	}
}

func (nodeRepr[K, V]) parent(n *Node[K, V]) *Node[K, V] {
	return n.up
}

func (nodeRepr[K, V]) clearParent(n *Node[K, V]) {
	n.up = nil
}
