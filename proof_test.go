// SPDX-License-Identifier: Apache-2.0

package posw_test

import (
	"testing"

	. "github.com/sequentialproof/posw"
)

func TestEmptyPuzzleDifficultyEight(t *testing.T) {
	proof, err := Generate(nil, 8)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !Verify(proof, nil, 8) {
		t.Fatal("Verify rejected a freshly generated proof")
	}
	if Verify(proof, nil, 9) {
		t.Fatal("Verify accepted the proof at the wrong difficulty")
	}
	if Verify(proof, []byte("hello"), 8) {
		t.Fatal("Verify accepted the proof under a different puzzle")
	}

	decoded, err := FromBytes(proof.ToBytes())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if !decoded.Equal(proof) {
		t.Fatal("FromBytes(ToBytes(proof)) != proof")
	}
}

// puzzle="themelio", difficulty=1: the DAG is exactly {ε, 0, 1}; the proof
// contains exactly the root and the (trivial) challenge paths, and
// verification accepts.
func TestPuzzleDifficultyOneMinimalDAG(t *testing.T) {
	proof, err := Generate([]byte("themelio"), 1)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !Verify(proof, []byte("themelio"), 1) {
		t.Fatal("Verify rejected a freshly generated proof")
	}

	for _, n := range proof.Nodes() {
		if n.Len() > 1 {
			t.Fatalf("proof contains node %s deeper than the DAG (difficulty 1)", n)
		}
	}
	if _, ok := proof.RootLabel(); !ok {
		t.Fatal("proof is missing the root label")
	}
}

// All-zero 32-byte puzzle, difficulty 16: the root label is stable across
// independent runs.
func TestZeroPuzzleDifficultySixteenStableRoot(t *testing.T) {
	puzzle := make([]byte, 32)
	proof, err := Generate(puzzle, 16)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !Verify(proof, puzzle, 16) {
		t.Fatal("Verify rejected a freshly generated proof")
	}

	again, err := Generate(puzzle, 16)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	rootA, _ := proof.RootLabel()
	rootB, _ := again.RootLabel()
	if rootA != rootB {
		t.Fatal("root label at ε is not stable across runs")
	}
}

// Tampering with a stored label is rejected.
func TestTamperedLabelRejected(t *testing.T) {
	proof, err := Generate([]byte("tamper-label"), 8)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	data := proof.ToBytes()
	data[len(data)-1] ^= 0xFF // flip a byte inside the last record's label

	tampered, err := FromBytes(data)
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if Verify(tampered, []byte("tamper-label"), 8) {
		t.Fatal("Verify accepted a proof with a flipped label byte")
	}
}

// Deleting an entry on a challenge's authentication path: FromBytes still
// succeeds, Verify rejects.
func TestDeletedAuthPathNodeRejected(t *testing.T) {
	proof, err := Generate([]byte("delete-node"), 8)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	var victim Node
	for _, n := range proof.Nodes() {
		if !n.IsRoot() {
			victim = n
			break
		}
	}

	data := proof.ToBytes()
	pruned := make([]byte, 0, len(data)-40)
	for off := 0; off < len(data); off += 40 {
		if decodedUniqidMatches(data[off:off+8], victim) {
			continue
		}
		pruned = append(pruned, data[off:off+40]...)
	}

	decoded, err := FromBytes(pruned)
	if err != nil {
		t.Fatalf("FromBytes of a proof missing one entry should still succeed: %v", err)
	}
	if Verify(decoded, []byte("delete-node"), 8) {
		t.Fatal("Verify accepted a proof missing a node on a challenge's authentication path")
	}
}

func decodedUniqidMatches(uniqidBytes []byte, n Node) bool {
	var want [8]byte
	be := n.Uniqid()
	for i := 0; i < 8; i++ {
		want[7-i] = byte(be)
		be >>= 8
	}
	for i := range want {
		if uniqidBytes[i] != want[i] {
			return false
		}
	}
	return true
}

// FromBytes of a length not a multiple of 40 fails.
func TestFromBytesBadLength(t *testing.T) {
	if _, err := FromBytes(make([]byte, 41)); err == nil {
		t.Fatal("FromBytes accepted a byte slice whose length is not a multiple of 40")
	}
}

func TestInvariantGenerateThenVerifyAccepts(t *testing.T) {
	for difficulty := uint8(1); difficulty <= 10; difficulty++ {
		proof, err := Generate([]byte("invariant-1"), difficulty)
		if err != nil {
			t.Fatalf("difficulty %d: Generate: %v", difficulty, err)
		}
		if !Verify(proof, []byte("invariant-1"), difficulty) {
			t.Errorf("difficulty %d: Verify rejected a freshly generated proof", difficulty)
		}
	}
}

func TestInvariantWrongDifficultyRejects(t *testing.T) {
	proof, err := Generate([]byte("invariant-2"), 6)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	for _, d := range []uint8{1, 2, 3, 4, 5, 7, 8, 9} {
		if Verify(proof, []byte("invariant-2"), d) {
			t.Errorf("Verify accepted difficulty %d for a proof generated at difficulty 6", d)
		}
	}
}

func TestInvariantWrongPuzzleRejects(t *testing.T) {
	proof, err := Generate([]byte("right-puzzle"), 6)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if Verify(proof, []byte("wrong-puzzle"), 6) {
		t.Fatal("Verify accepted a proof under the wrong puzzle")
	}
}

// Round trip through the wire format compares equal as maps, order
// insensitive.
func TestInvariantRoundTrip(t *testing.T) {
	proof, err := Generate([]byte("round-trip"), 7)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	decoded, err := FromBytes(proof.ToBytes())
	if err != nil {
		t.Fatalf("FromBytes: %v", err)
	}
	if !decoded.Equal(proof) {
		t.Fatal("decoded proof does not equal the original as a map")
	}
}

// Determinism: two independent Generate calls for the same input serialize
// to bit-identical bytes.
func TestInvariantDeterministicSerialization(t *testing.T) {
	a, err := Generate([]byte("deterministic"), 7)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate([]byte("deterministic"), 7)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	ab, bb := a.ToBytes(), b.ToBytes()
	if len(ab) != len(bb) {
		t.Fatalf("serialized lengths differ: %d vs %d", len(ab), len(bb))
	}
	for i := range ab {
		if ab[i] != bb[i] {
			t.Fatalf("serialized bytes differ at offset %d", i)
		}
	}
}

// Proof size stays within the documented bound.
func TestInvariantProofSizeBound(t *testing.T) {
	const proofCertainty = 200
	for difficulty := uint8(1); difficulty <= 10; difficulty++ {
		proof, err := Generate([]byte("size-bound"), difficulty)
		if err != nil {
			t.Fatalf("difficulty %d: Generate: %v", difficulty, err)
		}
		max := 40 * (1 + proofCertainty*(int(difficulty)+1))
		if got := len(proof.ToBytes()); got > max {
			t.Errorf("difficulty %d: proof is %d bytes, want <= %d", difficulty, got, max)
		}
	}
}

func TestVerifyRejectsDifficultyAboveBound(t *testing.T) {
	proof, err := Generate([]byte("oversized"), 8)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if Verify(proof, []byte("oversized"), 101) {
		t.Fatal("Verify accepted difficulty 101, above the documented ceiling")
	}
	if Verify(proof, []byte("oversized"), 57) {
		t.Fatal("Verify accepted difficulty 57, above the uniqid encoding ceiling")
	}
}

func TestGenerateRejectsDifficultyAboveEncodableBound(t *testing.T) {
	if _, err := Generate([]byte("oversized"), 57); err == nil {
		t.Fatal("Generate accepted difficulty 57, above the uniqid encoding ceiling")
	}
}
