/*
Package arena provides growable slot buffers addressed by stable integer
indices.

A Buffer never moves an element's index: growth allocates a larger backing
slice and copies the old contents over, so indices handed out before a grow
keep addressing the same logical slot afterwards. Addresses obtained through
At, on the other hand, are only valid until the next growth.

Buffers optionally route their backing storage through a client-supplied
Allocator. A buffer without an allocator is fixed at its initial capacity.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package arena
