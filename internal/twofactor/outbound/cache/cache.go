package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/duoweb/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const keyPrefix = "twofactor:redeemed:"

// Ledger records redeemed responses in redis so each one is accepted once.
type Ledger struct {
	client redis.Cmdable
	ins    instrument.Instrumentation
}

// NewLedger builds a Ledger on top of client.
func NewLedger(client redis.Cmdable, ins instrument.Instrumentation) *Ledger {
	return &Ledger{client: client, ins: ins}
}

// Claim marks fingerprint as redeemed for ttl. It returns true only for the
// first caller; later callers get false until the entry expires.
func (l *Ledger) Claim(ctx context.Context, fingerprint string, ttl time.Duration) (bool, error) {
	ctx, span := l.ins.Tracer("twofactor.outbound.cache").Start(ctx, "Claim",
		trace.WithAttributes(attribute.Int64("ttl_seconds", int64(ttl/time.Second))),
	)
	defer span.End()

	claimed, err := l.client.SetNX(ctx, keyPrefix+fingerprint, 1, ttl).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}

	span.SetAttributes(attribute.Bool("claimed", claimed))
	return claimed, nil
}
