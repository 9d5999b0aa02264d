// SPDX-License-Identifier: Apache-2.0

// Package prover wraps posw.Generate behind request deduplication and a
// small result cache, for services that front the PoSW core with
// concurrent callers. It never parallelizes labeling itself — Generate's
// single sequential calc_labels pass is still exactly that — it only
// coordinates callers that happen to ask for the same proof at once.
package prover

import (
	"context"
	"crypto/sha256"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sequentialproof/posw"
	"github.com/sequentialproof/posw/params"
)

// Prover generates PoSW proofs on behalf of possibly-concurrent callers,
// deduplicating identical in-flight requests and retaining a bounded number
// of recently generated proofs.
type Prover struct {
	params *params.Params
	group  singleflight.Group

	mu        sync.Mutex
	cache     map[string]posw.Proof
	cacheKeys []string
	cacheSize int
}

// Option customizes a Prover at construction time.
type Option func(*Prover)

// WithCacheSize sets how many generated proofs the Prover retains, keyed by
// puzzle+difficulty. A size of 0 (the default) disables the cache; requests
// are still deduplicated by singleflight while in flight.
func WithCacheSize(n int) Option {
	return func(p *Prover) { p.cacheSize = n }
}

// New returns a Prover bound to the given protocol parameters.
func New(protocolParams *params.Params, opts ...Option) *Prover {
	p := &Prover{
		params: protocolParams,
		cache:  make(map[string]posw.Proof),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Generate returns a PoSW proof for (puzzle, difficulty), sharing work with
// any identical in-flight request and serving from cache when available.
// ctx is honored only up to the point labeling starts — once underway, the
// sequential labeling pass runs to completion whether or not ctx is later
// canceled; it is never parallelized or interrupted mid-hash.
func (p *Prover) Generate(ctx context.Context, puzzle []byte, difficulty uint8) (posw.Proof, error) {
	if err := ctx.Err(); err != nil {
		return posw.Proof{}, err
	}

	key := cacheKey(puzzle, difficulty)

	if cached, ok := p.lookup(key); ok {
		return cached, nil
	}

	result, err, _ := p.group.Do(key, func() (any, error) {
		return posw.GenerateWithParams(puzzle, difficulty, p.params)
	})
	if err != nil {
		return posw.Proof{}, err
	}

	proof := result.(posw.Proof)
	p.store(key, proof)
	return proof, nil
}

func cacheKey(puzzle []byte, difficulty uint8) string {
	h := sha256.New()
	h.Write(puzzle)
	var d [1]byte
	d[0] = difficulty
	h.Write(d[:])
	var out [32]byte
	h.Sum(out[:0])
	return string(out[:])
}

func (p *Prover) lookup(key string) (posw.Proof, bool) {
	if p.cacheSize <= 0 {
		return posw.Proof{}, false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	proof, ok := p.cache[key]
	return proof, ok
}

func (p *Prover) store(key string, proof posw.Proof) {
	if p.cacheSize <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.cache[key]; !exists {
		if len(p.cacheKeys) >= p.cacheSize {
			oldest := p.cacheKeys[0]
			p.cacheKeys = p.cacheKeys[1:]
			delete(p.cache, oldest)
		}
		p.cacheKeys = append(p.cacheKeys, key)
	}
	p.cache[key] = proof
}
