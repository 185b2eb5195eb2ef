package splay

/*
BSD 3-Clause License

Copyright (c) 2021–22, Norbert Pillmayer

Please refer to the License file in the repository root.

*/

// Child link directions. The engine treats direction as data, so both
// symmetric cases of every operation run through the same code path.
const (
	lft = 0
	rgt = 1
)

// repr abstracts the node representation the splay engine operates on.
// R is a node reference: a pointer for Map and MultiMap, an integer handle
// for HandleMap. null() returns the reference representing an absent node.
//
// link must update the parent back-reference of a non-null child; the
// engine relies on this to keep parent links consistent while it
// restructures the tree.
type repr[R comparable] interface {
	null() R
	child(n R, dir int) R
	link(n R, dir int, c R)
	parent(n R) R
	clearParent(n R)
}

// splayTo performs a top-down splay of the subtree rooted at root towards
// the key represented by cmp. cmp reports the three-way ordering of the
// search key relative to a node, negative meaning the key sorts before the
// node.
//
// The node holding the key — or, if the key is absent, the last node on its
// search path — becomes the new root and is returned. Nodes that are
// provably on the final access path but off the straight descent are
// collected into two assembly spines, one for nodes smaller than the key
// and one for nodes greater, and are grafted back onto the new root's
// children on termination.
func splayTo[R comparable, P repr[R]](ops P, root R, cmp func(R) int) R {
	null := ops.null()
	if root == null {
		return root
	}
	spine := [2]R{null, null} // spine[lft] holds nodes smaller than the key
	tail := [2]R{null, null}
	t := root
	for {
		c := cmp(t)
		if c == 0 {
			break
		}
		d := lft
		if c > 0 {
			d = rgt
		}
		ch := ops.child(t, d)
		if ch == null {
			break
		}
		if cc := cmp(ch); cc != 0 && (cc > 0) == (c > 0) {
			// Zig-zig: the lookahead comparison agrees in direction, so the
			// child rotates over t before the descent continues. This single
			// extra rotation is what produces the amortized log bound.
			ops.link(t, d, ops.child(ch, 1-d))
			ops.link(ch, 1-d, t)
			t = ch
			ch = ops.child(t, d)
			if ch == null {
				break
			}
		}
		// Park t on the opposite spine and descend one level.
		s := 1 - d
		if spine[s] == null {
			spine[s] = t
		} else {
			ops.link(tail[s], d, t)
		}
		tail[s] = t
		t = ch
	}
	// Reassemble: the smaller spine's right end receives t's left subtree
	// and the spine becomes t's left child; mirrored for the greater spine.
	if spine[lft] != null {
		ops.link(tail[lft], rgt, ops.child(t, lft))
		ops.link(t, lft, spine[lft])
	}
	if spine[rgt] != null {
		ops.link(tail[rgt], lft, ops.child(t, rgt))
		ops.link(t, rgt, spine[rgt])
	}
	ops.clearParent(t)
	return t
}

// connectRoot splices the fresh node n above the splayed root. d is the
// direction the new key sorts relative to the old root's key: the old
// root's subtree on side d moves under the new root, the old root itself
// becomes the child on the opposite side. This is the O(1) step completing
// an insert after the splay.
func connectRoot[R comparable, P repr[R]](ops P, root, n R, d int) R {
	null := ops.null()
	ops.link(n, d, ops.child(root, d))
	ops.link(root, d, null)
	ops.link(n, 1-d, root)
	ops.clearParent(n)
	return n
}

// detachRoot removes the current root from the tree after a successful
// splay-to-target and returns the new root. cmp must be the comparison
// closure for the removed root's key: splaying the left subtree towards
// that key surfaces the in-order predecessor, which by construction has no
// right child and adopts the detached root's right subtree.
func detachRoot[R comparable, P repr[R]](ops P, root R, cmp func(R) int) R {
	null := ops.null()
	l, r := ops.child(root, lft), ops.child(root, rgt)
	ops.link(root, lft, null)
	ops.link(root, rgt, null)
	ops.clearParent(root)
	if l == null {
		if r != null {
			ops.clearParent(r)
		}
		return r
	}
	ops.clearParent(l)
	l = splayTo(ops, l, cmp)
	ops.link(l, rgt, r)
	return l
}

// neighbor returns the in-order neighbor of n in direction d — the
// successor for rgt, the predecessor for lft — or null at the boundary.
// The walk is iterative: down into the d-side child and to the opposite
// extreme of that subtree, or up through parent links until n was reached
// from the side opposite d.
func neighbor[R comparable, P repr[R]](ops P, n R, d int) R {
	null := ops.null()
	if n == null {
		return null
	}
	if ch := ops.child(n, d); ch != null {
		for {
			next := ops.child(ch, 1-d)
			if next == null {
				return ch
			}
			ch = next
		}
	}
	for {
		p := ops.parent(n)
		if p == null {
			return null
		}
		if ops.child(p, 1-d) == n {
			return p
		}
		n = p
	}
}

// extreme returns the outermost node of the subtree rooted at n in
// direction d: the minimum for lft, the maximum for rgt.
func extreme[R comparable, P repr[R]](ops P, n R, d int) R {
	null := ops.null()
	if n == null {
		return null
	}
	for {
		ch := ops.child(n, d)
		if ch == null {
			return n
		}
		n = ch
	}
}
