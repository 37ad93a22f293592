package usecase

import (
	"context"
	"crypto/subtle"
	"log/slog"

	"github.com/shandysiswandi/duoweb/internal/pkg/duoweb"
	"github.com/shandysiswandi/duoweb/internal/pkg/goerror"
	"github.com/shandysiswandi/duoweb/internal/twofactor/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type VerifyResponseInput struct {
	SigResponse string `validate:"required,max=4096"`
	// ExpectedUsername, when set, must equal the verified username. It is the
	// user that passed the first factor in this session.
	ExpectedUsername string `validate:"omitempty,max=255"`
}

type VerifyResponseOutput struct {
	Username string
}

func (s *Usecase) VerifyResponse(ctx context.Context, in VerifyResponseInput) (*VerifyResponseOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyResponse")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		s.count(ctx, s.verifyTotal, entity.OutcomeRejected)
		return nil, goerror.NewInvalidInput(err)
	}

	hook := duoweb.WithReasonHook(func(reason error) {
		label := reasonLabel(reason)
		slog.WarnContext(ctx, "duo response rejected", "reason", label, "error", reason)
		span.SetAttributes(attribute.String("twofactor.reason", label))
		if s.verifyFailures != nil {
			s.verifyFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", label)))
		}
	})

	username, err := duoweb.VerifyResponse(s.credentials().VerificationRequest(in.SigResponse), s.clock.Now(), hook)
	if err != nil {
		s.count(ctx, s.verifyTotal, entity.OutcomeRejected)
		return nil, errInvalidSignedResponse()
	}

	if in.ExpectedUsername != "" && subtle.ConstantTimeCompare([]byte(in.ExpectedUsername), []byte(username)) != 1 {
		slog.WarnContext(ctx, "duo response is for another user", "username", username)
		s.count(ctx, s.verifyTotal, entity.OutcomeRejected)
		return nil, errInvalidSignedResponse()
	}

	if s.cfg.GetBool("modules.twofactor.replay_protection") {
		if err := s.claim(ctx, in.SigResponse); err != nil {
			return nil, err
		}
	}

	s.count(ctx, s.verifyTotal, entity.OutcomeSuccess)

	return &VerifyResponseOutput{Username: username}, nil
}

// claim records response in the replay ledger for the lifetime of its
// application token, after which the response is expired anyway.
func (s *Usecase) claim(ctx context.Context, response string) error {
	if s.ledger == nil {
		slog.ErrorContext(ctx, "failed to check replay", "error", errNoLedger)
		s.count(ctx, s.verifyTotal, entity.OutcomeError)
		return goerror.NewServer(errNoLedger)
	}

	fingerprint, err := s.hmac.Hash(response)
	if err != nil {
		slog.ErrorContext(ctx, "failed to fingerprint duo response", "error", err)
		s.count(ctx, s.verifyTotal, entity.OutcomeError)
		return goerror.NewServer(err)
	}

	claimed, err := s.ledger.Claim(ctx, string(fingerprint), duoweb.AppTokenLifetime)
	if err != nil {
		slog.ErrorContext(ctx, "failed to claim duo response", "fingerprint", string(fingerprint), "error", err)
		s.count(ctx, s.verifyTotal, entity.OutcomeError)
		return goerror.NewServer(err)
	}

	if !claimed {
		slog.WarnContext(ctx, "duo response already redeemed", "fingerprint", string(fingerprint))
		s.count(ctx, s.verifyTotal, entity.OutcomeReplayed)
		return errInvalidSignedResponse()
	}

	return nil
}
