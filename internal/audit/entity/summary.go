package entity

// IssuedRecord is the audit trail entry kept for each issued passcode.
type IssuedRecord struct {
	EventID   int64   `json:"event_id"`
	Email     string  `json:"email"`
	Digits    int     `json:"digits"`
	Attempts  int     `json:"attempts"`
	ZeroRatio float64 `json:"zero_ratio"`
	OneRatio  float64 `json:"one_ratio"`
	IssuedAt  int64   `json:"issued_at"`
}

// Summary aggregates passcode activity counters.
type Summary struct {
	Issued        int64
	Verified      int64
	TotalAttempts int64
	Recent        []IssuedRecord
}
