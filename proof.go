// SPDX-License-Identifier: Apache-2.0

// Package posw implements a non-interactive proof of sequential work: a
// Fiat-Shamir transform of the Cohen-Pietrzak interactive PoSW protocol. A
// prover convinces a verifier that it performed roughly 2^difficulty
// sequential hash operations starting from a caller-supplied puzzle.
//
// The public surface is intentionally small: Generate, Verify, and the
// byte codec (ToBytes/FromBytes). Everything else in this package —
// Node, the Accumulator, CalcLabels — is exported because it's useful to
// callers building tooling around proofs (the CLI in cmd/posw does), not
// because the protocol needs more than those four operations.
package posw

import (
	"fmt"

	"github.com/sequentialproof/posw/params"
)

// Proof is an immutable mapping from Node to 32-byte label: the root
// commitment, plus, for every challenge, its own label and the labels of
// every node on its authentication path. It is produced by Generate and
// consumed by Verify; the zero value is an empty proof, useful only as a
// decode target.
type Proof struct {
	labels map[Node][labelSize]byte
}

// Label returns the stored label for v, if present.
func (p Proof) Label(v Node) (label [labelSize]byte, ok bool) {
	label, ok = p.labels[v]
	return
}

// RootLabel returns the proof's commitment, label(ε).
func (p Proof) RootLabel() (label [labelSize]byte, ok bool) {
	return p.Label(Root())
}

// Len reports how many (node, label) entries the proof holds.
func (p Proof) Len() int { return len(p.labels) }

// Nodes returns every node the proof has a label for, in no particular
// order.
func (p Proof) Nodes() []Node {
	nodes := make([]Node, 0, len(p.labels))
	for n := range p.labels {
		nodes = append(nodes, n)
	}
	return nodes
}

// Equal reports whether p and other hold exactly the same (node, label)
// pairs, independent of iteration or serialization order.
func (p Proof) Equal(other Proof) bool {
	if len(p.labels) != len(other.labels) {
		return false
	}
	for n, lab := range p.labels {
		otherLab, ok := other.labels[n]
		if !ok || lab != otherLab {
			return false
		}
	}
	return true
}

// Generate produces a PoSW proof that difficulty's worth of sequential
// hashing was performed starting from puzzle, using the mainnet protocol
// parameters (PROOF_CERTAINTY=200, difficulty ceilings 100/56).
func Generate(puzzle []byte, difficulty uint8) (Proof, error) {
	return GenerateWithParams(puzzle, difficulty, params.Default())
}

// GenerateWithParams is Generate parameterized by an explicit protocol
// preset, so callers can trade proof soundness for speed (the "testnet"
// preset) or otherwise override PROOF_CERTAINTY / the difficulty ceilings.
//
// Unlike the reference implementation, which panics or aborts when
// difficulty exceeds the uniqid encoding bound, this returns
// ErrDifficultyTooLarge — an idiomatic Go error return in place of a panic,
// since nothing here is in a hot path where an error check costs anything.
func GenerateWithParams(puzzle []byte, difficulty uint8, p *params.Params) (Proof, error) {
	if difficulty > p.MaxEncodableDifficulty() {
		return Proof{}, fmt.Errorf("generate: difficulty %d: %w", difficulty, ErrDifficultyTooLarge)
	}

	chi := hkey(puzzle, "chi")
	challenges := generateChallenges(puzzle, difficulty, p.ProofCertainty())

	wanted := make(map[Node]struct{}, len(challenges)*(int(difficulty)+1))
	for _, gamma := range challenges {
		wanted[gamma] = struct{}{}
		for _, sibling := range authPath(gamma, difficulty) {
			wanted[sibling] = struct{}{}
		}
	}

	labels := make(map[Node][labelSize]byte, len(wanted)+1)
	sink := func(v Node, label [labelSize]byte) {
		if v.IsRoot() {
			labels[v] = label
			return
		}
		if _, ok := wanted[v]; ok {
			labels[v] = label
		}
	}
	CalcLabels(chi, difficulty, sink)

	return Proof{labels: labels}, nil
}

// Verify checks a proof against puzzle and difficulty. It is a total
// function: malformed, incomplete, or tampered proofs make it return false
// rather than panic or error. difficulty values above min(MaxDifficulty,
// MaxEncodableDifficulty) — 56 under the default mainnet preset — are
// rejected outright: generation does not range-check difficulty against
// MaxDifficulty, but both generate and verify must reject anything beyond
// the 56-bit uniqid encoding ceiling.
func Verify(proof Proof, puzzle []byte, difficulty uint8) bool {
	return VerifyWithParams(proof, puzzle, difficulty, params.Default())
}

// VerifyWithParams is Verify parameterized by an explicit protocol preset.
// It checks the first PROOF_CERTAINTY challenges of the same challenge
// sequence Generate derives, so a PROOF_CERTAINTY lower than the one the
// proof was generated with checks only a subset of the generated
// challenges and can accept, while a higher one rejects as soon as a
// challenge falls on a leaf the proof does not hold.
func VerifyWithParams(proof Proof, puzzle []byte, difficulty uint8, p *params.Params) bool {
	err := VerifyDetailed(proof, puzzle, difficulty, p)
	return err == nil
}

// VerifyDetailed is Verify's internal engine, returning the specific reason
// a proof failed instead of folding it to false. Verify and
// VerifyWithParams are thin wrappers over this; callers that want a reason
// (the CLI, tests) can call it directly.
func VerifyDetailed(proof Proof, puzzle []byte, difficulty uint8, p *params.Params) error {
	if difficulty > p.MaxDifficulty() || difficulty > p.MaxEncodableDifficulty() {
		return fmt.Errorf("verify: difficulty %d: %w", difficulty, ErrDifficultyTooLarge)
	}

	chi := hkey(puzzle, "chi")
	challenges := generateChallenges(puzzle, difficulty, p.ProofCertainty())

	rootLabel, ok := proof.RootLabel()
	if !ok {
		return fmt.Errorf("verify: root: %w", ErrMissingNode)
	}

	// The working map T is copied once from the proof, up front, and
	// shared across every challenge's fold rather than refreshed per
	// challenge: each fold writes the labels it recomputes along its path
	// into T. Every authentication-path sibling is read from the proof
	// itself and must also equal T's label at that node, so a sibling that
	// is missing from the proof, or whose stored label differs from one an
	// earlier fold recomputed there, is rejected. For a valid proof the two
	// labels coincide, so honest proofs are accepted — see DESIGN.md.
	working := make(map[Node][labelSize]byte, len(proof.labels))
	for n, lab := range proof.labels {
		working[n] = lab
	}

	for _, gamma := range challenges {
		if err := verifyChallenge(chi, gamma, difficulty, proof, working, rootLabel); err != nil {
			return err
		}
	}
	return nil
}

func verifyChallenge(
	chi [labelSize]byte,
	gamma Node,
	difficulty uint8,
	proof Proof,
	working map[Node][labelSize]byte,
	rootLabel [labelSize]byte,
) error {
	leafLabel, ok := proof.Label(gamma)
	if !ok {
		return fmt.Errorf("verify: challenge %s: %w", gamma, ErrMissingNode)
	}

	parents := gamma.Parents(difficulty)
	parentLabels := make([][labelSize]byte, len(parents))
	for i, parent := range parents {
		label, ok := proof.Label(parent)
		if !ok {
			return fmt.Errorf("verify: challenge %s: parent %s: %w", gamma, parent, ErrMissingNode)
		}
		parentLabels[i] = label
	}
	if recomputed := hashParents(chi, gamma, parentLabels...); recomputed != leafLabel {
		return fmt.Errorf("verify: challenge %s: %w", gamma, ErrLabelMismatch)
	}

	folded := leafLabel
	for i := int(difficulty) - 1; i >= 0; i-- {
		u := gamma.Take(uint8(i))
		left := u.Append(0)
		right := u.Append(1)

		var leftLabel, rightLabel [labelSize]byte
		if gamma.GetBit(uint8(i)) == 0 {
			leftLabel = folded
			sibLabel, ok := proof.Label(right)
			if !ok {
				return fmt.Errorf("verify: challenge %s: sibling %s: %w", gamma, right, ErrMissingNode)
			}
			if working[right] != sibLabel {
				return fmt.Errorf("verify: challenge %s: sibling %s: %w", gamma, right, ErrLabelMismatch)
			}
			rightLabel = sibLabel
		} else {
			sibLabel, ok := proof.Label(left)
			if !ok {
				return fmt.Errorf("verify: challenge %s: sibling %s: %w", gamma, left, ErrMissingNode)
			}
			if working[left] != sibLabel {
				return fmt.Errorf("verify: challenge %s: sibling %s: %w", gamma, left, ErrLabelMismatch)
			}
			leftLabel = sibLabel
			rightLabel = folded
		}

		folded = hashParents(chi, u, leftLabel, rightLabel)
		working[u] = folded
	}

	if folded != rootLabel {
		return fmt.Errorf("verify: challenge %s: %w", gamma, ErrRootMismatch)
	}
	return nil
}
