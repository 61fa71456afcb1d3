package event

const PasscodeIssuedDestination string = "passcode_issued"
const PasscodeIssuedConsumerAudit string = "passcode_issued_audit"

type PasscodeIssuedMessage struct {
	EventID   int64   `json:"event_id"`
	Email     string  `json:"email"`
	Digits    int     `json:"digits"`
	Attempts  int     `json:"attempts"`
	ZeroRatio float64 `json:"zero_ratio"`
	OneRatio  float64 `json:"one_ratio"`
	IssuedAt  int64   `json:"issued_at"`
}
