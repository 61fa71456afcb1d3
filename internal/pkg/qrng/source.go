package qrng

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrSourceUnavailable is returned when the underlying randomness source
// cannot produce data.
var ErrSourceUnavailable = errors.New("qrng: randomness source unavailable")

// Source is an injectable handle to a randomness supply.
//
// Implementations must return uniformly distributed values in [0, 1).
// A Source is not required to be safe for concurrent use; each Generator
// owns its Source exclusively.
type Source interface {
	Float64() (float64, error)
}

// CryptoSource draws randomness from crypto/rand.
type CryptoSource struct{}

// NewCryptoSource returns a Source backed by the operating system CSPRNG.
func NewCryptoSource() *CryptoSource {
	return &CryptoSource{}
}

// Float64 returns a uniform value in [0, 1), or ErrSourceUnavailable when the
// system randomness device cannot be read.
func (*CryptoSource) Float64() (float64, error) {
	var b [8]byte
	if _, err := cryptorand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
	}

	// 53 bits of mantissa, same construction as math/rand.Float64.
	v := binary.BigEndian.Uint64(b[:]) >> 11

	return float64(v) / (1 << 53), nil
}

// SeededSource is a deterministic Source backed by math/rand/v2 PCG.
//
// Two SeededSources built from the same seeds produce identical streams, which
// makes generation fully reproducible in tests.
type SeededSource struct {
	r *rand.Rand
}

// NewSeededSource returns a deterministic Source seeded with the given values.
func NewSeededSource(seed1, seed2 uint64) *SeededSource {
	return &SeededSource{r: rand.New(rand.NewPCG(seed1, seed2))}
}

// Float64 returns the next uniform value in [0, 1). It never fails.
func (s *SeededSource) Float64() (float64, error) {
	return s.r.Float64(), nil
}
