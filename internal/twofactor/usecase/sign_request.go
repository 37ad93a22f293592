package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/duoweb/internal/pkg/duoweb"
	"github.com/shandysiswandi/duoweb/internal/pkg/goerror"
	"github.com/shandysiswandi/duoweb/internal/twofactor/entity"
	"go.opentelemetry.io/otel/codes"
)

type SignRequestInput struct {
	Username string `validate:"required,max=255,subject"`
}

type SignRequestOutput struct {
	SigRequest string
	Host       string
}

func (s *Usecase) SignRequest(ctx context.Context, in SignRequestInput) (*SignRequestOutput, error) {
	ctx, span := s.startSpan(ctx, "SignRequest")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		s.count(ctx, s.signTotal, entity.OutcomeRejected)
		return nil, goerror.NewInvalidInput(err)
	}

	creds := s.credentials()

	sig, err := duoweb.SignRequest(creds.SigningRequest(in.Username), s.clock.Now())
	if err != nil {
		// key problems are operator configuration errors, never shown to the browser
		slog.ErrorContext(ctx, "failed to sign duo request", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.count(ctx, s.signTotal, entity.OutcomeError)
		return nil, goerror.NewServer(err)
	}

	s.count(ctx, s.signTotal, entity.OutcomeSuccess)

	return &SignRequestOutput{
		SigRequest: sig,
		Host:       creds.APIHost,
	}, nil
}
