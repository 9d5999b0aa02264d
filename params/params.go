// SPDX-License-Identifier: Apache-2.0

package params

import (
	"errors"
	"fmt"
	"sync"

	"github.com/casbin/govaluate"
)

// ErrUnknownPreset is returned by Load for a preset name that has no
// embedded YAML file.
var ErrUnknownPreset = errors.New("params: unknown preset")

// ErrUnresolvedParam is returned when a named constant — or a caller's
// override expression for one — cannot be evaluated to a number against
// the preset's base values.
var ErrUnresolvedParam = errors.New("params: could not resolve parameter")

type cachedValue struct {
	resolved bool
	value    uint64
}

// Params resolves the protocol constants a PoSW proof is generated and
// verified against. The zero value is not usable; construct one with Load
// or Default.
type Params struct {
	mu        sync.Mutex
	base      map[string]any
	overrides map[string]string
	cache     map[string]cachedValue
}

// Option customizes a Params at construction time.
type Option func(*Params)

// WithOverride replaces the expression used to resolve a named constant.
// expr is evaluated with github.com/casbin/govaluate against the preset's
// base values, so callers can both rename a constant ("PROOF_CERTAINTY")
// and derive it arithmetically from others ("PROOF_CERTAINTY/4"), the same
// way a struct-tag size expression resolves against a named value map.
func WithOverride(name, expr string) Option {
	return func(p *Params) { p.overrides[name] = expr }
}

func newParams(base map[string]any, opts ...Option) *Params {
	p := &Params{
		base:      base,
		overrides: make(map[string]string),
		cache:     make(map[string]cachedValue),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ResolveValue resolves a named constant to an unsigned integer, caching the
// result. If an override expression was registered for name via
// WithOverride, that expression is evaluated instead of the bare name.
func (p *Params) ResolveValue(name string) (uint64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if cached, ok := p.cache[name]; ok {
		if !cached.resolved {
			return 0, fmt.Errorf("params: %s: %w", name, ErrUnresolvedParam)
		}
		return cached.value, nil
	}

	expr := name
	if override, ok := p.overrides[name]; ok {
		expr = override
	}

	evaluable, err := govaluate.NewEvaluableExpression(expr)
	if err != nil {
		p.cache[name] = cachedValue{}
		return 0, fmt.Errorf("params: parsing expression %q for %s: %w", expr, name, err)
	}

	result, err := evaluable.Evaluate(p.base)
	if err != nil {
		p.cache[name] = cachedValue{}
		return 0, fmt.Errorf("params: evaluating %s: %w", name, err)
	}

	value, ok := result.(float64)
	if !ok {
		p.cache[name] = cachedValue{}
		return 0, fmt.Errorf("params: %s did not evaluate to a number: %w", name, ErrUnresolvedParam)
	}

	resolved := uint64(value)
	p.cache[name] = cachedValue{resolved: true, value: resolved}
	return resolved, nil
}

// ProofCertainty, MaxDifficulty, and MaxEncodableDifficulty panic on
// resolution failure rather than returning an error. That's safe here
// because only preset YAML and operator-supplied WithOverride expressions
// ever reach ResolveValue through these three names — puzzle and proof
// bytes never do — so a failure here is a misconfigured Params, not
// adversarial input, and Verify's "never throws" contract is unaffected.

// ProofCertainty returns the number of Fiat-Shamir challenges a proof
// generates and a verifier checks.
func (p *Params) ProofCertainty() int {
	v, err := p.ResolveValue("PROOF_CERTAINTY")
	if err != nil {
		panic(err)
	}
	return int(v)
}

// MaxDifficulty returns the difficulty ceiling Verify enforces.
func (p *Params) MaxDifficulty() uint8 {
	v, err := p.ResolveValue("MAX_DIFFICULTY")
	if err != nil {
		panic(err)
	}
	return uint8(v)
}

// MaxEncodableDifficulty returns the hard ceiling imposed by the uniqid
// wire layout (8 bits of length), which both Generate and Verify must
// reject above regardless of MaxDifficulty.
func (p *Params) MaxEncodableDifficulty() uint8 {
	v, err := p.ResolveValue("MAX_ENCODABLE_DIFFICULTY")
	if err != nil {
		panic(err)
	}
	return uint8(v)
}
