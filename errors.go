package splay

import "errors"

var (
	// ErrNoComparator signals a map constructed without a comparison function.
	ErrNoComparator = errors.New("splay: comparator is required")
	// ErrCapacity signals a full fixed-capacity map.
	ErrCapacity = errors.New("splay: map capacity exhausted")
	// ErrAllocFailed signals that the configured allocator could not satisfy
	// a growth request. The triggering operation has no effect.
	ErrAllocFailed = errors.New("splay: allocation failed")
	// ErrInvalidHandle signals a handle outside the valid slot range or one
	// whose slot is not occupied.
	ErrInvalidHandle = errors.New("splay: invalid handle")
	// ErrIncompatible signals a bulk copy between maps with different
	// comparators or record types.
	ErrIncompatible = errors.New("splay: incompatible maps")
	// ErrInvariant signals a structural invariant violation found by Check.
	ErrInvariant = errors.New("splay: invariant violation")
)
