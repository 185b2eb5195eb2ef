/*
Package splay provides a family of ordered (sorted) maps built on
self-adjusting binary search trees.

# Splay Trees

Splay trees re-organize themselves on every access: the node searched for —
or its nearest neighbor — is rotated to the root. Frequently accessed keys
therefore gravitate towards the top of the tree, which gives splay trees
their amortized O(log n) bound without storing any balance information in
the nodes.

From the original paper "Self-Adjusting Binary Search Trees" by Daniel D.
Sleator and Robert E. Tarjan, 1985:

The splay tree, a self-adjusting form of binary search tree, is developed
and analyzed. […] On an n-node splay tree, all the standard search tree
operations have an amortized time bound of O(log n) per operation. […]
In a splay tree, accesses to an item cause it to be moved to the root of
the tree by a sequence of rotations, which roughly halves the depth of
every node on the access path.

_________________________________________________________________________

Three variants share one splay engine but differ in node representation and
key policy:

▪︎ Map is the plain unique-key ordered map over intrusive pointer nodes.

▪︎ MultiMap accepts duplicate keys; records sharing a key form a circular
ring anchored by a single tree node and are retrieved oldest-first.

▪︎ HandleMap stores records in growable parallel arrays and addresses them
by small integer handles, which stay valid across growth and unrelated
mutations.

A word of warning: splay trees restructure on reads. Even a pure lookup
mutates the shape of the tree, so no map of this package may be shared
between goroutines without external locking — not even for concurrent
reads. For the same reason no worst-case per-operation bound is guaranteed;
clients with hard real-time requirements should pick a balanced tree
instead.

_________________________________________________________________________

# BSD 3-Clause License

Copyright (c) 2021–22, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions are met:

1. Redistributions of source code must retain the above copyright notice, this
list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright notice,
this list of conditions and the following disclaimer in the documentation
and/or other materials provided with the distribution.

3. Neither the name of the copyright holder nor the names of its
contributors may be used to endorse or promote products derived from
this software without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE ARE
DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE LIABLE
FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR CONSEQUENTIAL
DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR
SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER
CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY,
OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE.

*/
package splay

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

func assert(condition bool, msg string) {
	if !condition {
		panic(msg)
	}
}
