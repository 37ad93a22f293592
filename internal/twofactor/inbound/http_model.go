package inbound

type SignRequest struct {
	Username string `json:"username"`
}

type SignResponse struct {
	SigRequest string `json:"sig_request"`
	Host       string `json:"host"`
}

func (SignResponse) Message() string {
	return "Request signed. Pass sig_request and host to the Duo widget."
}

type VerifyRequest struct {
	SigResponse      string `json:"sig_response"`
	ExpectedUsername string `json:"expected_username,omitempty"`
}

type VerifyResponse struct {
	Username string `json:"username"`
}

func (VerifyResponse) Message() string {
	return "Second factor verified."
}
