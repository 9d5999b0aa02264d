// SPDX-License-Identifier: Apache-2.0

package posw

import (
	"encoding/binary"
	"sync"

	"lukechampine.com/blake3"
)

// labelSize is the fixed output size of every label and of χ itself.
const labelSize = 32

// hkey returns a labelSize-byte hash of data keyed by key, domain-separated
// by deriving a 32-byte BLAKE3 key from the key label and hashing data under
// it in BLAKE3's keyed mode. It is used once per proof to derive χ from the
// puzzle, and once per challenge index to derive that challenge's seed.
func hkey(data []byte, key string) [labelSize]byte {
	derivedKey := blake3.Sum256([]byte("posw.hkey/" + key))

	h := blake3.New(labelSize, derivedKey[:])
	h.Write(data)

	var out [labelSize]byte
	h.Sum(out[:0])
	return out
}

// accumulatorPool recycles Accumulator instances the way the corpus's own
// hasher pools recycle hash-tree Hashers: labeling a depth-N DAG uses
// roughly 2^(N+1) accumulators, one per node. Only the Accumulator wrapper
// is pooled; NewAccumulator builds a fresh keyed BLAKE3 hasher each time and
// Release drops it.
var accumulatorPool = sync.Pool{
	New: func() any { return &Accumulator{} },
}

// Accumulator is a streaming, length-prefixed hash builder. Each Add call
// contributes an 8-byte little-endian length prefix followed by the chunk
// bytes to the underlying BLAKE3 state, so Add("ab") then Add("c") hashes
// differently than a single Add("abc") — framing the recursive label
// definition depends on to avoid ambiguous concatenation.
type Accumulator struct {
	h   *blake3.Hasher
	buf [8]byte
}

// NewAccumulator returns a pooled Accumulator keyed with key (almost always
// χ). Callers must call Release when done to return it to the pool.
func NewAccumulator(key [labelSize]byte) *Accumulator {
	acc := accumulatorPool.Get().(*Accumulator)
	acc.h = blake3.New(labelSize, key[:])
	return acc
}

// Add appends a length-prefixed chunk to the accumulator and returns the
// receiver, so calls can be chained: acc.Add(a).Add(b).Add(c).
func (acc *Accumulator) Add(chunk []byte) *Accumulator {
	binary.LittleEndian.PutUint64(acc.buf[:], uint64(len(chunk)))
	acc.h.Write(acc.buf[:])
	acc.h.Write(chunk)
	return acc
}

// Hash finalizes the accumulator to a 32-byte digest. It does not release
// the accumulator back to the pool — call Release separately so that a
// caller that wants to inspect the hash before releasing can do so.
func (acc *Accumulator) Hash() [labelSize]byte {
	var out [labelSize]byte
	acc.h.Sum(out[:0])
	return out
}

// Release returns the accumulator to the pool. The accumulator must not be
// used again after Release.
func (acc *Accumulator) Release() {
	acc.h = nil
	accumulatorPool.Put(acc)
}

// hashParents runs one accumulator over encode(node) followed by each
// parent label in order and finalizes it, releasing the accumulator before
// returning. This is the shared core of leaf labeling, internal labeling,
// and the verifier's recomputation — all three are "H(χ, encode(v),
// label(p1), label(p2), …)" and differ only in which parent labels they
// feed in.
func hashParents(chi [labelSize]byte, v Node, parentLabels ...[labelSize]byte) [labelSize]byte {
	acc := NewAccumulator(chi)
	defer acc.Release()

	var enc [8]byte
	binary.BigEndian.PutUint64(enc[:], v.Uniqid())
	acc.Add(enc[:])
	for _, lab := range parentLabels {
		acc.Add(lab[:])
	}
	return acc.Hash()
}
