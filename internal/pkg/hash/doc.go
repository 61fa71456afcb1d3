// Package hash provides helpers for hashing and verifying secrets.
//
// Typical usage is for one-time passcodes: store only the keyed hash, then
// verify user input by comparing the plaintext against the stored hash in
// constant time.
package hash
