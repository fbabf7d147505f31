package detbits

import (
	"math/bits"
	"unsafe"
)

const wordBits = 64

// Vector is a fixed-width bit vector of n bits backed by []uint64 words.
// Bits outside [0, n) are kept zero by every operation.
type Vector struct {
	words []uint64
	n     int
}

// New creates a zeroed vector of n bits.
func New(n int) Vector {
	return Vector{
		words: make([]uint64, (n+wordBits-1)/wordBits),
		n:     n,
	}
}

// Len returns the width of the vector in bits.
func (v Vector) Len() int { return v.n }

// Test returns true if bit i is set. Out-of-range bits read as zero.
func (v Vector) Test(i int) bool {
	if i < 0 || i >= v.n {
		return false
	}
	return v.words[i>>6]&(1<<(uint(i)&63)) != 0
}

// Set sets or clears bit i in place.
func (v *Vector) Set(i int, val bool) {
	if i < 0 || i >= v.n {
		return
	}
	if val {
		v.words[i>>6] |= 1 << (uint(i) & 63)
	} else {
		v.words[i>>6] &^= 1 << (uint(i) & 63)
	}
}

// SetRange sets or clears all bits in [lo, hi) in place.
func (v *Vector) SetRange(lo, hi int, val bool) {
	if lo < 0 {
		lo = 0
	}
	if hi > v.n {
		hi = v.n
	}
	for i := lo; i < hi; i++ {
		v.Set(i, val)
	}
}

// Count returns the number of set bits.
func (v Vector) Count() int {
	c := 0
	for _, w := range v.words {
		c += bits.OnesCount64(w)
	}
	return c
}

// CountRange returns the number of set bits in [lo, hi).
// This is the loopless core of the excitation phase computation: the
// per-word masks are built from shifts, not per-bit iteration.
func (v Vector) CountRange(lo, hi int) int {
	if lo < 0 {
		lo = 0
	}
	if hi > v.n {
		hi = v.n
	}
	if lo >= hi {
		return 0
	}
	loWord, hiWord := lo>>6, (hi-1)>>6
	loMask := ^uint64(0) << (uint(lo) & 63)
	hiMask := ^uint64(0) >> (63 - (uint(hi-1) & 63))
	if loWord == hiWord {
		return bits.OnesCount64(v.words[loWord] & loMask & hiMask)
	}
	c := bits.OnesCount64(v.words[loWord] & loMask)
	for w := loWord + 1; w < hiWord; w++ {
		c += bits.OnesCount64(v.words[w])
	}
	c += bits.OnesCount64(v.words[hiWord] & hiMask)
	return c
}

// Ones appends the indices of all set bits, ascending, to dst.
func (v Vector) Ones(dst []int) []int {
	for wi, w := range v.words {
		for w != 0 {
			dst = append(dst, wi<<6+bits.TrailingZeros64(w))
			w &= w - 1
		}
	}
	return dst
}

// Clone returns an independent copy of v.
func (v Vector) Clone() Vector {
	out := Vector{words: make([]uint64, len(v.words)), n: v.n}
	copy(out.words, v.words)
	return out
}

// Equal reports whether v and o have identical width and bit content.
func (v Vector) Equal(o Vector) bool {
	if v.n != o.n {
		return false
	}
	for i := range v.words {
		if v.words[i] != o.words[i] {
			return false
		}
	}
	return true
}

// Xor returns the symmetric difference of a and b. Widths must match.
func Xor(a, b Vector) Vector {
	out := a.Clone()
	for i := range out.words {
		out.words[i] ^= b.words[i]
	}
	return out
}

// And returns the intersection of a and b. Widths must match.
func And(a, b Vector) Vector {
	out := a.Clone()
	for i := range out.words {
		out.words[i] &= b.words[i]
	}
	return out
}

// AndNot returns the bits of a not set in b. Widths must match.
func AndNot(a, b Vector) Vector {
	out := a.Clone()
	for i := range out.words {
		out.words[i] &^= b.words[i]
	}
	return out
}

// Not returns the complement of v within its width.
func Not(v Vector) Vector {
	out := v.Clone()
	for i := range out.words {
		out.words[i] = ^out.words[i]
	}
	out.trim()
	return out
}

// trim clears the bits above n in the last word.
func (v *Vector) trim() {
	if v.n&63 != 0 && len(v.words) > 0 {
		v.words[len(v.words)-1] &= ^uint64(0) >> (64 - uint(v.n&63))
	}
}

// Key returns the bit content as a string usable as a map key.
// Two vectors of the same width have equal keys iff they are Equal.
func (v Vector) Key() string {
	if len(v.words) == 0 {
		return ""
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&v.words[0])), len(v.words)*8)
	return string(b)
}
