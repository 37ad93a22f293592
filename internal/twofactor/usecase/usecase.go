package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/duoweb/internal/pkg/clock"
	"github.com/shandysiswandi/duoweb/internal/pkg/config"
	"github.com/shandysiswandi/duoweb/internal/pkg/duoweb"
	"github.com/shandysiswandi/duoweb/internal/pkg/goerror"
	"github.com/shandysiswandi/duoweb/internal/pkg/hash"
	"github.com/shandysiswandi/duoweb/internal/pkg/instrument"
	"github.com/shandysiswandi/duoweb/internal/pkg/validator"
	"github.com/shandysiswandi/duoweb/internal/twofactor/entity"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var errNoLedger = errors.New("twofactor: replay protection enabled without a ledger")

type repoLedger interface {
	Claim(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error)
}

type Usecase struct {
	ledger    repoLedger
	validator validator.Validator
	cfg       config.Config
	hmac      hash.Hash
	clock     clock.Clocker
	ins       instrument.Instrumentation

	signTotal      metric.Int64Counter
	verifyTotal    metric.Int64Counter
	verifyFailures metric.Int64Counter
}

type Dependency struct {
	// Ledger may be nil when replay protection is never enabled.
	Ledger     repoLedger
	Validator  validator.Validator
	Config     config.Config
	HMAC       hash.Hash
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	s := &Usecase{
		ledger:    dep.Ledger,
		validator: dep.Validator,
		cfg:       dep.Config,
		hmac:      dep.HMAC,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}

	meter := dep.Instrument.Meter("twofactor.usecase")
	s.signTotal = newCounter(meter, "twofactor.sign.total", "Number of sign requests by outcome")
	s.verifyTotal = newCounter(meter, "twofactor.verify.total", "Number of verify requests by outcome")
	s.verifyFailures = newCounter(meter, "twofactor.verify.failures", "Number of rejected responses by reason")

	return s
}

func newCounter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		slog.Error("failed to create counter", "name", name, "error", err)
		return nil
	}
	return c
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("twofactor.usecase").Start(ctx, name)
}

func (s *Usecase) count(ctx context.Context, c metric.Int64Counter, outcome entity.Outcome) {
	if c == nil {
		return
	}
	c.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome.String())))
}

// credentials reads the integration keys on every call so a config reload
// rotates them without a restart.
func (s *Usecase) credentials() entity.Credentials {
	return entity.Credentials{
		IntegrationKey: s.cfg.GetString("duo.integration_key"),
		SecretKey:      s.cfg.GetString("duo.secret_key"),
		ApplicationKey: s.cfg.GetString("duo.application_key"),
		APIHost:        s.cfg.GetString("duo.api_host"),
	}
}

func errInvalidSignedResponse() error {
	return goerror.NewBusiness("invalid signed response", goerror.CodeUnauthorized)
}

type causeLabel struct {
	err   error
	label string
}

var causeLabels = []causeLabel{
	{duoweb.ErrMalformedResponse, "malformed_response"},
	{duoweb.ErrMalformedToken, "malformed_token"},
	{duoweb.ErrBadSignature, "bad_signature"},
	{duoweb.ErrPrefixMismatch, "prefix_mismatch"},
	{duoweb.ErrMalformedEncoding, "malformed_encoding"},
	{duoweb.ErrInvalidUTF8, "invalid_utf8"},
	{duoweb.ErrMalformedPayload, "malformed_payload"},
	{duoweb.ErrBindingMismatch, "binding_mismatch"},
	{duoweb.ErrMalformedExpiry, "malformed_expiry"},
	{duoweb.ErrExpired, "expired"},
	{duoweb.ErrSubjectMismatch, "subject_mismatch"},
}

// reasonLabel maps a verification cause to a low-cardinality metric label.
func reasonLabel(reason error) string {
	found, ok := lo.Find(causeLabels, func(c causeLabel) bool {
		return errors.Is(reason, c.err)
	})
	if !ok {
		return "unknown"
	}
	return found.label
}
