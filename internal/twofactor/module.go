package twofactor

import (
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/duoweb/internal/pkg/clock"
	"github.com/shandysiswandi/duoweb/internal/pkg/config"
	"github.com/shandysiswandi/duoweb/internal/pkg/hash"
	"github.com/shandysiswandi/duoweb/internal/pkg/instrument"
	"github.com/shandysiswandi/duoweb/internal/pkg/router"
	"github.com/shandysiswandi/duoweb/internal/pkg/validator"
	"github.com/shandysiswandi/duoweb/internal/twofactor/inbound"
	"github.com/shandysiswandi/duoweb/internal/twofactor/outbound/cache"
	"github.com/shandysiswandi/duoweb/internal/twofactor/usecase"
)

type Dependency struct {
	// CacheConn backs the replay ledger; nil disables it.
	CacheConn  *redis.Client
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	ucDep := usecase.Dependency{
		Validator:  dep.Validator,
		Config:     dep.Config,
		HMAC:       dep.HMAC,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	}
	if dep.CacheConn != nil {
		ucDep.Ledger = cache.NewLedger(dep.CacheConn, dep.Instrument)
	}

	inbound.RegisterHTTPEndpoint(dep.Router, usecase.New(ucDep))

	return nil
}
