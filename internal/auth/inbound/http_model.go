package inbound

import "time"

type RequestPasscodeRequest struct {
	Email string `json:"email"`
}

type RequestPasscodeResponse struct{}

func (RequestPasscodeResponse) Message() string {
	return "A login code has been sent to your email."
}

type VerifyPasscodeRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type VerifyPasscodeResponse struct {
	AccessToken string `json:"access_token"`
}

type ProfileResponse struct {
	Email     string    `json:"email"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
