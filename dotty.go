package splay

import (
	"fmt"
	"io"
)

type nodeids[N comparable] struct {
	idTable map[N]int
	max     int
}

func newtable[N comparable]() nodeids[N] {
	return nodeids[N]{
		idTable: make(map[N]int),
		max:     1,
	}
}

func (ids nodeids[N]) find(node N) int {
	return ids.idTable[node]
}

func (ids *nodeids[N]) alloc(node N) int {
	if id := ids.find(node); id > 0 {
		return id
	}
	ids.idTable[node] = ids.max
	ids.max++
	return ids.max - 1
}

// Map2Dot outputs the internal structure of a Map in Graphviz DOT format
// (for debugging purposes).
func Map2Dot[K, V any](m *Map[K, V], w io.Writer) {
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	ids := newtable[*Node[K, V]]()
	nodelist, edgelist := "", ""
	var walk func(n *Node[K, V])
	walk = func(n *Node[K, V]) {
		ID := ids.alloc(n)
		nodelist += fmt.Sprintf("\"%d\" [label=\"%v\" %s];\n", ID, n.key, dotNodeStyles(false))
		for d := lft; d <= rgt; d++ {
			if c := n.down[d]; c != nil {
				edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", ID, ids.alloc(c))
				walk(c)
			} else {
				nilid := ID*2 + 10000 + d
				nodelist += fmt.Sprintf("\"%d\" %s;\n", nilid, emptyDotNode())
				edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", ID, nilid)
			}
		}
	}
	if m != nil && m.root != nil {
		walk(m.root)
	}
	io.WriteString(w, nodelist)
	io.WriteString(w, edgelist)
	io.WriteString(w, "}\n")
}

// MultiMap2Dot outputs the internal structure of a MultiMap in Graphviz DOT
// format. Duplicate rings appear as dashed cycles hanging off their anchor.
func MultiMap2Dot[K, V any](m *MultiMap[K, V], w io.Writer) {
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	ids := newtable[*MultiNode[K, V]]()
	nodelist, edgelist := "", ""
	var walk func(n *MultiNode[K, V])
	walk = func(n *MultiNode[K, V]) {
		ID := ids.alloc(n)
		nodelist += fmt.Sprintf("\"%d\" [label=\"%v\" %s];\n", ID, n.key, dotNodeStyles(n.next != nil))
		if n.next != nil {
			prev := ID
			for d := n.next; d != n; d = d.next {
				did := ids.alloc(d)
				nodelist += fmt.Sprintf("\"%d\" [label=\"%v\",shape=box,style=dashed];\n", did, d.key)
				edgelist += fmt.Sprintf("\"%d\" -> \"%d\" [style=dashed];\n", prev, did)
				prev = did
			}
			edgelist += fmt.Sprintf("\"%d\" -> \"%d\" [style=dashed];\n", prev, ID)
		}
		for d := lft; d <= rgt; d++ {
			if c := n.down[d]; c != nil {
				edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", ID, ids.alloc(c))
				walk(c)
			} else {
				nilid := ID*2 + 10000 + d
				nodelist += fmt.Sprintf("\"%d\" %s;\n", nilid, emptyDotNode())
				edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", ID, nilid)
			}
		}
	}
	if m != nil && m.root != nil {
		walk(m.root)
	}
	io.WriteString(w, nodelist)
	io.WriteString(w, edgelist)
	io.WriteString(w, "}\n")
}

func emptyDotNode() string {
	return "[label=\"\",color=black,shape=circle,fixedsize=true,width=.4]"
}

func dotNodeStyles(hasRing bool) string {
	s := ",style=filled"
	if hasRing {
		s += ",color=black,fillcolor=\"#e4c7a3\""
	} else {
		s += ",color=black,fillcolor=\"#a3d7e4\""
	}
	s += ",shape=circle"
	return s
}
