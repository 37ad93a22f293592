package inbound

import (
	"context"

	"github.com/shandysiswandi/duoweb/internal/pkg/router"
	"github.com/shandysiswandi/duoweb/internal/twofactor/usecase"
)

type uc interface {
	SignRequest(ctx context.Context, in usecase.SignRequestInput) (*usecase.SignRequestOutput, error)
	VerifyResponse(ctx context.Context, in usecase.VerifyResponseInput) (*usecase.VerifyResponseOutput, error)
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/v1/twofactor/sign", end.Sign)
	r.POST("/api/v1/twofactor/verify", end.Verify)
}
