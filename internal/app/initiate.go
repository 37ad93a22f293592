package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/sethvargo/go-retry"
	"github.com/shandysiswandi/duoweb/internal/pkg/clock"
	"github.com/shandysiswandi/duoweb/internal/pkg/config"
	"github.com/shandysiswandi/duoweb/internal/pkg/duoweb"
	"github.com/shandysiswandi/duoweb/internal/pkg/goroutine"
	"github.com/shandysiswandi/duoweb/internal/pkg/hash"
	"github.com/shandysiswandi/duoweb/internal/pkg/instrument"
	"github.com/shandysiswandi/duoweb/internal/pkg/router"
	"github.com/shandysiswandi/duoweb/internal/pkg/uid"
	"github.com/shandysiswandi/duoweb/internal/pkg/validator"
)

// fatal logs a wiring failure and exits.
func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

// configPath resolves CONFIG_PATH, then ./config when LOCAL=true, then the
// container mount.
func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	if os.Getenv("LOCAL") == "true" {
		return "./config/config.yaml"
	}
	return "/config/config.yaml"
}

var errReplayWithoutRedis = errors.New("modules.twofactor.replay_protection requires redis.url")

func (a *App) initConfig() {
	cfg, err := config.NewViper(configPath())
	if err != nil {
		fatal("failed to init config", err)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			fatal("failed to load app.tz", err)
		}
		time.Local = loc
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		fatal("failed to init instrumentation", err)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))
	a.hmac = hash.NewHMACSHA256(a.config.GetString("hash.hmac.secret"))

	v, err := validator.NewV10Validator()
	if err != nil {
		fatal("failed to init validator", err)
	}
	a.validator = v

	a.checkDuoKeys()
}

// checkDuoKeys warns early about keys the signer will reject. Keys are read
// again on every request, so this does not stop the service.
func (a *App) checkDuoKeys() {
	_, err := duoweb.SignRequest(duoweb.SigningRequest{
		IntegrationKey: a.config.GetString("duo.integration_key"),
		SecretKey:      a.config.GetString("duo.secret_key"),
		ApplicationKey: a.config.GetString("duo.application_key"),
		Username:       "startup-check",
	}, a.clock.Now())
	if err != nil {
		slog.Warn("duo keys are not usable, sign requests will fail until fixed", "error", err)
	}
}

func (a *App) initCache() {
	url := a.config.GetString("redis.url")
	if url == "" {
		if a.config.GetBool("modules.twofactor.replay_protection") {
			fatal("failed to init redis", errReplayWithoutRedis)
		}
		slog.Info("redis disabled, replay protection unavailable")
		return
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		fatal("failed to parse redis url", err)
	}

	rdb := redis.NewClient(opt)

	b := retry.NewFibonacci(200 * time.Millisecond)
	b = retry.WithCappedDuration(5*time.Second, b)
	b = retry.WithMaxRetries(a.config.GetUint64("redis.connect_retries"), b)

	if err := retry.Do(a.ctx, b, func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := rdb.Ping(pingCtx).Err(); err != nil {
			slog.Warn("redis not ready, retrying", "error", err)
			return retry.RetryableError(err)
		}

		return nil
	}); err != nil {
		fatal("failed to init redis", err)
	}

	a.cacheConn = rdb
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	handler := cors.New(cors.Options{
		AllowedOrigins: a.config.GetArray("app.server.cors"),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", router.HeaderCorrelationID, router.HeaderRequestID},
		ExposedHeaders: []string{router.HeaderCorrelationID},
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           handler,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

// initClosers lists resources in release order. Instrumentation goes last so
// the shutdown logs of the others are still exported.
func (a *App) initClosers() {
	a.closers = []closer{
		{name: "Redis", fn: func(context.Context) error {
			if a.cacheConn == nil {
				return nil
			}
			return a.cacheConn.Close()
		}},
		{name: "Config", fn: func(context.Context) error {
			return a.config.Close()
		}},
		{name: "Instrument", fn: a.ins.Shutdown},
	}
}
