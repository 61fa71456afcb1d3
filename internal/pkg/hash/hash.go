package hash

// Hash abstracts a one-way hash with verification.
type Hash interface {
	// Hash returns the hash of the plaintext input.
	Hash(str string) ([]byte, error)
	// Verify reports whether plaintext matches the stored hash.
	Verify(hashed, str string) bool
}
