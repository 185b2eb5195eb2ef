package splay

import "github.com/npillmayer/splay/arena"

// Option configures a HandleMap while it is being created.
type Option[K, V any] interface {
	apply(cfg *hmapConfig[K, V])
}

type hmapConfig[K, V any] struct {
	slots arena.Allocator[Slot[K, V]]
}

type allocOption[K, V any] struct {
	alloc arena.Allocator[Slot[K, V]]
}

func (op allocOption[K, V]) apply(cfg *hmapConfig[K, V]) {
	cfg.slots = op.alloc
}

// WithAllocator routes a HandleMap's record storage through a custom
// allocator. The node metadata array stays Go-allocated; clients managing
// memory manually should call HandleMap.Close to get their slices back.
func WithAllocator[K, V any](alloc arena.Allocator[Slot[K, V]]) Option[K, V] {
	return allocOption[K, V]{alloc}
}
