package event

const PasscodeVerifiedDestination string = "passcode_verified"
const PasscodeVerifiedConsumerAudit string = "passcode_verified_audit"

type PasscodeVerifiedMessage struct {
	EventID    int64  `json:"event_id"`
	Email      string `json:"email"`
	VerifiedAt int64  `json:"verified_at"`
}
