package arena

import "errors"

var (
	// ErrBadCapacity signals a negative or insufficient capacity argument.
	ErrBadCapacity = errors.New("arena: bad capacity")
	// ErrFixedCapacity signals a growth request on a buffer without an
	// allocator.
	ErrFixedCapacity = errors.New("arena: buffer has fixed capacity")
	// ErrAllocFailed signals that the allocator could not satisfy a request.
	ErrAllocFailed = errors.New("arena: allocation failed")
)
