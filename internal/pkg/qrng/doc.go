// Package qrng implements a quantum-inspired, self-balancing random bit
// generator and the passcode encoding built on top of it.
//
// The generator drives a set of independent bit channels in rounds. Each round
// it samples a batch of bits per channel, measures the empirical one-fraction,
// and applies proportional feedback that pushes every channel toward a 50/50
// split. Bits collected after a warmup phase form the output stream, which is
// accepted only when its overall zero/one balance falls within a tolerance;
// otherwise the whole attempt is discarded and retried.
//
// Randomness is always drawn from an injected Source, never from package-level
// state, so callers can choose between crypto/rand and a deterministic seeded
// source for tests.
package qrng
