// SPDX-License-Identifier: Apache-2.0

package posw

import (
	"encoding/binary"
	"fmt"
	"sort"
)

// recordSize is the size of one wire record: 8-byte big-endian uniqid
// followed by a 32-byte label.
const recordSize = 8 + labelSize

// ToBytes serializes the proof as a concatenation of 40-byte records,
// sorted by ascending uniqid so that two proofs holding the same entries
// always serialize to identical bytes regardless of map iteration order.
func (p Proof) ToBytes() []byte {
	nodes := p.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Uniqid() < nodes[j].Uniqid() })

	out := make([]byte, 0, recordSize*len(nodes))
	var uniqidBuf [8]byte
	for _, n := range nodes {
		binary.BigEndian.PutUint64(uniqidBuf[:], n.Uniqid())
		out = append(out, uniqidBuf[:]...)
		label := p.labels[n]
		out = append(out, label[:]...)
	}
	return out
}

// FromBytes deserializes a proof from its wire representation. It returns
// ErrMalformedProof if the length is not a whole multiple of 40 bytes or if
// any record decodes to an invalid node (length beyond 56, or a bit set at
// a position >= that length). Duplicate nodes resolve last-write-wins,
// i.e. later records in the stream overwrite earlier ones for the same
// node — callers that serialize with ToBytes never produce duplicates, so
// this only matters for hand-crafted or corrupted input.
func FromBytes(data []byte) (Proof, error) {
	if len(data)%recordSize != 0 {
		return Proof{}, ErrMalformedProof
	}

	labels := make(map[Node][labelSize]byte, len(data)/recordSize)
	for len(data) > 0 {
		uniqid := binary.BigEndian.Uint64(data[:8])
		node, ok := decodeUniqid(uniqid)
		if !ok {
			return Proof{}, fmt.Errorf("%w: invalid node encoding %#x", ErrMalformedProof, uniqid)
		}

		var label [labelSize]byte
		copy(label[:], data[8:recordSize])
		labels[node] = label

		data = data[recordSize:]
	}
	return Proof{labels: labels}, nil
}

// decodeUniqid decodes a uniqid into a Node, validating the Node invariant
// (no bits set at positions >= length) instead of panicking the way
// NewNode does, since this path parses untrusted wire bytes.
func decodeUniqid(uniqid uint64) (Node, bool) {
	length := uint8(uniqid >> 56)
	bv := uniqid &^ (uint64(0xFF) << 56)

	if length > maxNodeLen {
		return Node{}, false
	}
	if bv>>length != 0 {
		return Node{}, false
	}
	return Node{bv: bv, length: length}, true
}
