package inbound

type IssuedRecordResponse struct {
	EventID   int64   `json:"event_id,string"`
	Email     string  `json:"email"`
	Digits    int     `json:"digits"`
	Attempts  int     `json:"attempts"`
	ZeroRatio float64 `json:"zero_ratio"`
	OneRatio  float64 `json:"one_ratio"`
	IssuedAt  int64   `json:"issued_at"`
}

type SummaryResponse struct {
	Issued         int64                  `json:"issued"`
	Verified       int64                  `json:"verified"`
	AvgGenAttempts float64                `json:"avg_gen_attempts"`
	AvgZeroRatio   float64                `json:"avg_zero_ratio"`
	AvgOneRatio    float64                `json:"avg_one_ratio"`
	Recent         []IssuedRecordResponse `json:"recent"`
}
