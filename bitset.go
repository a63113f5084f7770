// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package bitset

import (
	"fmt"
	"math/bits"

	"github.com/grailbio/bitset/errors"
)

// BitsPerWord is the number of bits in a backing word.  It is fixed
// at 64 regardless of platform, so bit layouts are identical
// everywhere.
const BitsPerWord = 64

// Bitset is a fixed-length sequence of bits, indexed 0 through
// Len()-1.  The length is set at creation and changes only through
// Resize.  Bits are packed into uint64 words owned exclusively by the
// Bitset; bits of the final, partial word at indices at or beyond
// the length ("padding bits") exist physically but carry no
// specified value, and whole-word operations (merges, Complement,
// ClearAll) are free to touch them.
//
// The zero value of Bitset is not usable; construct with New.
type Bitset struct {
	length int
	words  []uint64
}

// wordsFor returns the number of backing words needed for the given
// number of bits.  Written without the usual +BitsPerWord-1 rounding
// so it cannot overflow for any nonnegative int.
func wordsFor(length int) int {
	n := length / BitsPerWord
	if length%BitsPerWord != 0 {
		n++
	}
	return n
}

// lastWordMask returns the mask of in-use bits within the final word
// of a bitset of the given positive length: all ones when the length
// is word-aligned.
func lastWordMask(length int) uint64 {
	if r := uint(length) % BitsPerWord; r != 0 {
		return (1 << r) - 1
	}
	return ^uint64(0)
}

// allocWords obtains a zeroed backing store of n words.  The Go
// runtime reports an unrepresentable slice length by panicking;
// allocWords converts that panic into an OOM error so creation and
// resize keep their error contract.  True heap exhaustion terminates
// the process and cannot be reported this way.
func allocWords(n int) (words []uint64, err error) {
	defer func() {
		if recover() != nil {
			err = errors.E(errors.OOM, fmt.Sprintf("cannot allocate %d words", n))
		}
	}()
	return make([]uint64, n), nil
}

// ok reports whether b is a live, backed handle.  A Bitset freed with
// Free has no backing words; New always provides them, even for
// length zero.
func (b *Bitset) ok() bool {
	return b != nil && b.words != nil
}

func errInvalid(op string) error {
	return errors.E(errors.Invalid, op+": nil or freed bitset")
}

// checkBit validates the handle and the bit index for a single-bit
// operation.  Valid indices are 0 through b.length-1; bit == length
// is out of range, not the last valid bit.
func (b *Bitset) checkBit(op string, bit int) error {
	if !b.ok() {
		return errInvalid(op)
	}
	if bit < 0 || bit >= b.length {
		return errors.E(errors.OutOfRange, fmt.Sprintf("%s: bit %d of %d", op, bit, b.length))
	}
	return nil
}

// New returns a Bitset of the given length with every bit cleared.
// Zero initialization is contractual, not incidental: a fresh Bitset
// always reads all-false.  A negative length is Invalid; a length
// whose backing store the runtime cannot represent is OOM.
func New(length int) (*Bitset, error) {
	if length < 0 {
		return nil, errors.E(errors.Invalid, fmt.Sprintf("new: negative length %d", length))
	}
	words, err := allocWords(wordsFor(length))
	if err != nil {
		return nil, err
	}
	return &Bitset{length: length, words: words}, nil
}

// Free releases the backing store and invalidates the handle: every
// subsequent operation except Free and Len reports Invalid.  Free is
// safe on a nil or already-freed Bitset.  Dropping the last reference
// without calling Free merely delays collection of the words.
func (b *Bitset) Free() {
	if b == nil {
		return
	}
	b.length = 0
	b.words = nil
}

// Len returns the logical number of bits.  A nil or freed Bitset has
// length zero.
func (b *Bitset) Len() int {
	if b == nil {
		return 0
	}
	return b.length
}

// Clone returns an independent copy: same length, same bit values
// (padding included), separate backing store.  Mutating either Bitset
// afterward never affects the other.  The receiver is untouched on
// failure.
func (b *Bitset) Clone() (*Bitset, error) {
	if !b.ok() {
		return nil, errInvalid("clone")
	}
	words, err := allocWords(len(b.words))
	if err != nil {
		return nil, errors.E("clone", err)
	}
	copy(words, b.words)
	return &Bitset{length: b.length, words: words}, nil
}

// Resize changes the logical length in place.  When the new length
// needs the same number of backing words, only the length changes and
// all word content, padding included, is preserved; otherwise the
// backing store is reallocated and the overlapping prefix copied.
// Bits at indices past the old length have unspecified values after a
// grow.  On failure the receiver is valid and unchanged.
func (b *Bitset) Resize(newLength int) error {
	if !b.ok() {
		return errInvalid("resize")
	}
	if newLength < 0 {
		return errors.E(errors.Invalid, fmt.Sprintf("resize: negative length %d", newLength))
	}
	if nw := wordsFor(newLength); nw != len(b.words) {
		words, err := allocWords(nw)
		if err != nil {
			return errors.E("resize", err)
		}
		copy(words, b.words)
		b.words = words
	}
	b.length = newLength
	return nil
}

// Set sets bit bit to true.
func (b *Bitset) Set(bit int) error {
	if err := b.checkBit("set", bit); err != nil {
		return err
	}
	// Unsigned division by a power-of-2 constant compiles to a
	// right-shift, while signed does not due to negative nastiness.
	b.words[uint(bit)/BitsPerWord] |= 1 << (uint(bit) % BitsPerWord)
	return nil
}

// Clear sets bit bit to false.
func (b *Bitset) Clear(bit int) error {
	if err := b.checkBit("clear", bit); err != nil {
		return err
	}
	wordIdx := uint(bit) / BitsPerWord
	b.words[wordIdx] = b.words[wordIdx] &^ (1 << (uint(bit) % BitsPerWord))
	return nil
}

// Toggle inverts bit bit.
func (b *Bitset) Toggle(bit int) error {
	if err := b.checkBit("toggle", bit); err != nil {
		return err
	}
	b.words[uint(bit)/BitsPerWord] ^= 1 << (uint(bit) % BitsPerWord)
	return nil
}

// Test returns true iff bit bit is set.  Unlike the classic C bitset
// APIs, Test range-checks its index just as the update operations do.
func (b *Bitset) Test(bit int) (bool, error) {
	if err := b.checkBit("test", bit); err != nil {
		return false, err
	}
	return b.words[uint(bit)/BitsPerWord]&(1<<(uint(bit)%BitsPerWord)) != 0, nil
}

// ClearAll zeroes every backing word, padding bits included.
func (b *Bitset) ClearAll() error {
	if !b.ok() {
		return errInvalid("clear all")
	}
	for i := range b.words {
		b.words[i] = 0
	}
	return nil
}

// Complement inverts every backing word in place, padding bits
// included: callers must not assume padding bits are zero afterward.
// Applied twice, it restores every bit below Len().
func (b *Bitset) Complement() error {
	if !b.ok() {
		return errInvalid("complement")
	}
	for i := range b.words {
		b.words[i] = ^b.words[i]
	}
	return nil
}

// merge applies f word by word over the words the two bitsets share,
// storing the result in b.  The padding bits of a source whose words
// are exhausted within the shared range are masked off first, so a
// shorter source merges as if zero-extended; b's words beyond the
// shared range are untouched.
func (b *Bitset) merge(op string, src *Bitset, f func(dst, src uint64) uint64) error {
	if !b.ok() || !src.ok() {
		return errInvalid(op)
	}
	n := len(b.words)
	if len(src.words) < n {
		n = len(src.words)
	}
	for i := 0; i < n; i++ {
		w := src.words[i]
		if i == n-1 && n == len(src.words) {
			w &= lastWordMask(src.length)
		}
		b.words[i] = f(b.words[i], w)
	}
	return nil
}

// And replaces the receiver with its bitwise AND with src over their
// shared words.  A shorter src behaves as if zero-extended: receiver
// bits at or beyond src's length within the shared words are cleared,
// while receiver words beyond src's word count are untouched.
func (b *Bitset) And(src *Bitset) error {
	return b.merge("and", src, func(d, s uint64) uint64 { return d & s })
}

// Or replaces the receiver with its bitwise OR with src over their
// shared words.  A shorter src behaves as if zero-extended.
func (b *Bitset) Or(src *Bitset) error {
	return b.merge("or", src, func(d, s uint64) uint64 { return d | s })
}

// Xor replaces the receiver with its bitwise XOR with src over their
// shared words.  A shorter src behaves as if zero-extended.
func (b *Bitset) Xor(src *Bitset) error {
	return b.merge("xor", src, func(d, s uint64) uint64 { return d ^ s })
}

// AndNot clears, in the receiver, every bit that is set in src,
// over their shared words.  A shorter src behaves as if
// zero-extended, which makes AndNot with it the identity beyond src's
// length.
func (b *Bitset) AndNot(src *Bitset) error {
	return b.merge("and not", src, func(d, s uint64) uint64 { return d &^ s })
}

// Count returns the number of set bits below Len().  Padding bits
// never contribute, whatever Complement or a merge left in them.
func (b *Bitset) Count() (int, error) {
	if !b.ok() {
		return 0, errInvalid("count")
	}
	if b.length == 0 {
		return 0, nil
	}
	last := len(b.words) - 1
	n := 0
	for _, w := range b.words[:last] {
		n += bits.OnesCount64(w)
	}
	return n + bits.OnesCount64(b.words[last]&lastWordMask(b.length)), nil
}
