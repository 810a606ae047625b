package services

import (
	crand "crypto/rand"
	"math/rand/v2"
	"sync"

	"clubledger/domain/entities"
)

type lockedRandom struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewCryptoRandom returns a ChaCha8 source seeded from the OS.
// Safe for concurrent use.
func NewCryptoRandom() entities.Random {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic("failed to seed random source: " + err.Error())
	}
	return &lockedRandom{rng: rand.New(rand.NewChaCha8(seed))}
}

func (r *lockedRandom) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64()
}

func (r *lockedRandom) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(n)
}
