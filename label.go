// SPDX-License-Identifier: Apache-2.0

package posw

// LabelSink receives every (node, label) pair computed by CalcLabels,
// exactly once, in post-order depth-first traversal order (leftmost leaf
// first, then each internal node once both its children are done).
type LabelSink func(v Node, label [labelSize]byte)

// CalcLabels computes label(v) for every node of the depth-difficulty
// labeling DAG rooted at ε and streams each (node, label) pair to sink.
//
// Memory invariant: the auxiliary left-sibling map ell holds at most
// `difficulty` entries at any point during the traversal — one per
// in-progress ancestor whose right subtree hasn't finished yet — giving
// O(difficulty) labeler memory against O(2^difficulty) work. A left
// sibling's label is pinned into ell right after its subtree completes and
// released the moment its right sibling's subtree completes; do not change
// this to cache every leaf label, which would defeat the memory bound.
func CalcLabels(chi [labelSize]byte, difficulty uint8, sink LabelSink) [labelSize]byte {
	ell := make(map[Node][labelSize]byte, difficulty)
	return labelRec(chi, difficulty, Root(), sink, ell)
}

func labelRec(chi [labelSize]byte, difficulty uint8, v Node, sink LabelSink, ell map[Node][labelSize]byte) [labelSize]byte {
	if v.Len() == difficulty {
		parents := v.Parents(difficulty)
		parentLabels := make([][labelSize]byte, len(parents))
		for i, p := range parents {
			parentLabels[i] = ell[p]
		}
		label := hashParents(chi, v, parentLabels...)
		sink(v, label)
		return label
	}

	left := v.Append(0)
	l0 := labelRec(chi, difficulty, left, sink, ell)
	ell[left] = l0

	right := v.Append(1)
	l1 := labelRec(chi, difficulty, right, sink, ell)
	delete(ell, left)

	label := hashParents(chi, v, l0, l1)
	sink(v, label)
	return label
}
