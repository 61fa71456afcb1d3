package entity

import "time"

// PasscodeChallenge is a pending one-time passcode bound to an email address.
//
// Only the keyed hash of the code is persisted; the plaintext exists solely in
// the delivery email.
type PasscodeChallenge struct {
	Email     string    `json:"email"`
	CodeHash  string    `json:"code_hash"`
	Digits    int       `json:"digits"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the challenge is past its expiry at the given time.
func (c PasscodeChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// Passcode is a freshly generated one-time code with its generation stats.
type Passcode struct {
	Code      string
	Digits    int
	Attempts  int
	ZeroRatio float64
	OneRatio  float64
}
