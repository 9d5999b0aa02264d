// SPDX-License-Identifier: Apache-2.0

package posw_test

import (
	"testing"

	. "github.com/sequentialproof/posw"
)

func TestCalcLabelsNodeCount(t *testing.T) {
	for difficulty := uint8(0); difficulty <= 6; difficulty++ {
		var chi [32]byte
		seen := make(map[Node]struct{})
		root := CalcLabels(chi, difficulty, func(v Node, label [32]byte) {
			seen[v] = struct{}{}
		})

		want := 1<<(int(difficulty)+1) - 1
		if len(seen) != want {
			t.Errorf("difficulty %d: streamed %d nodes, want %d (2^(N+1)-1)", difficulty, len(seen), want)
		}
		if rootLabel, ok := seen[Root()]; !ok {
			t.Errorf("difficulty %d: root never streamed", difficulty)
		} else {
			_ = rootLabel
		}
		if root == [32]byte{} {
			t.Errorf("difficulty %d: root label is all-zero", difficulty)
		}
	}
}

func TestCalcLabelsDifficultyOneHasThreeNodes(t *testing.T) {
	var chi [32]byte
	var nodes []Node
	CalcLabels(chi, 1, func(v Node, label [32]byte) {
		nodes = append(nodes, v)
	})

	if len(nodes) != 3 {
		t.Fatalf("difficulty 1: got %d nodes, want 3", len(nodes))
	}

	want := map[string]bool{"ε": false, "0": false, "1": false}
	for _, n := range nodes {
		if _, ok := want[n.String()]; !ok {
			t.Fatalf("unexpected node %s in depth-1 DAG", n)
		}
		want[n.String()] = true
	}
	for name, ok := range want {
		if !ok {
			t.Fatalf("expected node %q was never streamed", name)
		}
	}
}

func TestCalcLabelsPostOrder(t *testing.T) {
	var chi [32]byte
	var order []Node
	CalcLabels(chi, 3, func(v Node, label [32]byte) {
		order = append(order, v)
	})

	// Post-order depth-first: the leftmost leaf streams before its parent,
	// and the root streams dead last.
	if order[len(order)-1] != Root() {
		t.Fatalf("root was not the last node streamed; got %s last", order[len(order)-1])
	}
	if order[0].Len() != 3 {
		t.Fatalf("first node streamed was not a leaf (len 3); got len %d", order[0].Len())
	}
}

func TestCalcLabelsDeterministic(t *testing.T) {
	var chi [32]byte
	chi[0] = 42

	labelsOf := func() map[Node][32]byte {
		out := make(map[Node][32]byte)
		CalcLabels(chi, 5, func(v Node, label [32]byte) { out[v] = label })
		return out
	}

	a, b := labelsOf(), labelsOf()
	if len(a) != len(b) {
		t.Fatalf("two runs streamed different node counts: %d vs %d", len(a), len(b))
	}
	for n, lab := range a {
		if b[n] != lab {
			t.Fatalf("label for node %s differs between runs", n)
		}
	}
}
