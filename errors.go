// SPDX-License-Identifier: Apache-2.0

package posw

import "errors"

// Sentinel errors returned by the internal helpers that back Generate and
// Verify. Verify itself never returns an error — per the external contract
// it folds every one of these to a bool — but VerifyDetailed and the codec
// surface them so callers that want a reason can get one.
var (
	// ErrDifficultyTooLarge is returned when a difficulty exceeds the
	// maximum encodable in a uniqid (56) or the verifier's range bound
	// (100).
	ErrDifficultyTooLarge = errors.New("posw: difficulty exceeds encodable bound")

	// ErrMalformedProof is returned by FromBytes when the byte stream
	// is not a whole multiple of the 40-byte record size.
	ErrMalformedProof = errors.New("posw: malformed proof bytes")

	// ErrMissingNode is returned by VerifyDetailed when a challenge,
	// authentication-path sibling, or parent label is absent from the
	// proof map.
	ErrMissingNode = errors.New("posw: proof is missing a required node label")

	// ErrLabelMismatch is returned by VerifyDetailed when a recomputed
	// label does not match the one stored in the proof.
	ErrLabelMismatch = errors.New("posw: recomputed label does not match stored label")

	// ErrRootMismatch is returned by VerifyDetailed when a challenge's
	// authentication path folds up to a root label different from the
	// proof's stored root.
	ErrRootMismatch = errors.New("posw: folded root does not match proof root")
)
