package arena

import "fmt"

// Allocator hands out and reclaims backing slices for a Buffer. The default
// GoAlloc uses make and leaves reclamation to the garbage collector; custom
// implementations may manage memory manually.
//
// Alloc returning a nil slice for a nonzero request signals allocation
// failure; the requesting operation fails without touching the buffer.
type Allocator[T any] interface {
	// Alloc returns a slice equivalent to make([]T, n), or nil on failure.
	Alloc(n int) []T

	// Free may release the memory of a slice previously returned by Alloc.
	Free(s []T)
}

// GoAlloc is the default Allocator, backed by make and the garbage
// collector.
type GoAlloc[T any] struct{}

// Alloc returns make([]T, n).
func (GoAlloc[T]) Alloc(n int) []T {
	return make([]T, n)
}

// Free is a no-op; the garbage collector reclaims the slice.
func (GoAlloc[T]) Free(s []T) {
}

// Buffer is a growable slice of slots with stable indices.
type Buffer[T any] struct {
	slots []T
	alloc Allocator[T]
}

// New creates a buffer with the given capacity. alloc may be nil, which
// fixes the buffer at its initial capacity; initial storage then comes from
// make.
func New[T any](capacity int, alloc Allocator[T]) (*Buffer[T], error) {
	if capacity < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadCapacity, capacity)
	}
	var slots []T
	if alloc != nil {
		slots = alloc.Alloc(capacity)
		if slots == nil && capacity > 0 {
			return nil, fmt.Errorf("%w: %d slots", ErrAllocFailed, capacity)
		}
	} else {
		slots = make([]T, capacity)
	}
	return &Buffer[T]{slots: slots, alloc: alloc}, nil
}

// Cap returns the number of slots.
func (b *Buffer[T]) Cap() int {
	if b == nil {
		return 0
	}
	return len(b.slots)
}

// At translates index i into the address of its slot. The pointer is valid
// until the next Grow or Release.
func (b *Buffer[T]) At(i int) *T {
	return &b.slots[i]
}

// Grow enlarges the buffer to capacity slots. Slot contents and indices are
// preserved; a failing grow leaves the buffer untouched. Growing to the
// current capacity or below is a no-op.
func (b *Buffer[T]) Grow(capacity int) error {
	if capacity <= len(b.slots) {
		return nil
	}
	if b.alloc == nil {
		return fmt.Errorf("%w: %d slots", ErrFixedCapacity, len(b.slots))
	}
	grown := b.alloc.Alloc(capacity)
	if grown == nil || len(grown) < capacity {
		return fmt.Errorf("%w: %d slots", ErrAllocFailed, capacity)
	}
	copy(grown, b.slots)
	old := b.slots
	b.slots = grown
	b.alloc.Free(old)
	return nil
}

// CopyFrom copies all slots of src into b, which must have at least src's
// capacity. Slots of b beyond src's capacity are left alone.
func (b *Buffer[T]) CopyFrom(src *Buffer[T]) error {
	if src == nil {
		return fmt.Errorf("%w: nil source", ErrBadCapacity)
	}
	if len(b.slots) < len(src.slots) {
		return fmt.Errorf("%w: need %d slots, have %d", ErrBadCapacity,
			len(src.slots), len(b.slots))
	}
	copy(b.slots, src.slots)
	return nil
}

// Release hands the backing storage back to the allocator. The buffer has
// capacity 0 afterwards and must not be indexed.
func (b *Buffer[T]) Release() {
	if b.alloc != nil && b.slots != nil {
		b.alloc.Free(b.slots)
	}
	b.slots = nil
}
