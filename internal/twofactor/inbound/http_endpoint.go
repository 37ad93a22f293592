package inbound

import (
	"github.com/shandysiswandi/duoweb/internal/pkg/router"
	"github.com/shandysiswandi/duoweb/internal/twofactor/usecase"
)

// HTTPEndpoint exposes the Duo Web sign and verify steps over HTTP.
type HTTPEndpoint struct {
	uc uc
}

// Sign returns the signed request the Duo widget needs for a user who has
// already passed the first factor.
func (h *HTTPEndpoint) Sign(r *router.Request) (any, error) {
	var req SignRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.SignRequest(r.Context(), usecase.SignRequestInput{Username: req.Username})
	if err != nil {
		return nil, err
	}

	return SignResponse{
		SigRequest: resp.SigRequest,
		Host:       resp.Host,
	}, nil
}

// Verify checks the signed response posted back by the Duo widget. It takes
// a JSON body or the widget's own form post (fields sig_response and
// expected_username).
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if r.IsForm() {
		var err error
		if req.SigResponse, err = r.GetForm("sig_response"); err != nil {
			return nil, err
		}
		if req.ExpectedUsername, err = r.GetForm("expected_username"); err != nil {
			return nil, err
		}
	} else if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.VerifyResponse(r.Context(), usecase.VerifyResponseInput{
		SigResponse:      req.SigResponse,
		ExpectedUsername: req.ExpectedUsername,
	})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{Username: resp.Username}, nil
}
