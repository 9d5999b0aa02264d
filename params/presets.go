// SPDX-License-Identifier: Apache-2.0

// Package params resolves the protocol constants that bound a PoSW proof:
// the Fiat-Shamir challenge count and the difficulty ceilings. It mirrors
// the dynamic-spec-value mechanism used elsewhere in the ecosystem for
// chain-preset-dependent constants — named presets loaded from embedded
// YAML, with individual values optionally overridden by an arithmetic
// expression evaluated against the preset's base constants.
package params

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed presets/mainnet.yaml
var mainnetPresetData []byte

//go:embed presets/testnet.yaml
var testnetPresetData []byte

var namedPresets = map[string][]byte{
	"mainnet": mainnetPresetData,
	"testnet": testnetPresetData,
}

func loadPresetData(data []byte) (map[string]any, error) {
	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("params: parsing preset: %w", err)
	}
	return values, nil
}

// Load resolves a named preset ("mainnet" or "testnet") into a Params. It
// returns ErrUnknownPreset for any other name.
func Load(name string, opts ...Option) (*Params, error) {
	data, ok := namedPresets[name]
	if !ok {
		return nil, fmt.Errorf("params: preset %q: %w", name, ErrUnknownPreset)
	}
	base, err := loadPresetData(data)
	if err != nil {
		return nil, err
	}
	return newParams(base, opts...), nil
}

// Default returns the mainnet preset: PROOF_CERTAINTY=200,
// MAX_DIFFICULTY=100, MAX_ENCODABLE_DIFFICULTY=56.
func Default() *Params {
	base, err := loadPresetData(mainnetPresetData)
	if err != nil {
		// The embedded mainnet preset is a build-time invariant of this
		// package; a parse failure here means the embed itself is broken.
		panic(err)
	}
	return newParams(base)
}
