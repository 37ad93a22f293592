// Package app wires configuration, libraries and modules into the running
// service and owns its lifecycle.
package app

import (
	"context"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/duoweb/internal/pkg/clock"
	"github.com/shandysiswandi/duoweb/internal/pkg/config"
	"github.com/shandysiswandi/duoweb/internal/pkg/goroutine"
	"github.com/shandysiswandi/duoweb/internal/pkg/hash"
	"github.com/shandysiswandi/duoweb/internal/pkg/instrument"
	"github.com/shandysiswandi/duoweb/internal/pkg/router"
	"github.com/shandysiswandi/duoweb/internal/pkg/uid"
	"github.com/shandysiswandi/duoweb/internal/pkg/validator"
)

// closer releases one resource on shutdown.
type closer struct {
	name string
	fn   func(context.Context) error
}

// App holds the wired dependencies of the service.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	config config.Config
	ins    instrument.Instrumentation

	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	hmac      hash.Hash
	uuid      uid.StringID

	// cacheConn is nil when redis.url is empty.
	cacheConn *redis.Client

	router     *router.Router
	httpServer *http.Server

	closers []closer
}

// New wires the application. Any wiring failure is logged and exits the
// process.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{ctx: ctx, cancel: cancel}

	for _, step := range []func(){
		app.initConfig,
		app.initInstrument,
		app.initLibraries,
		app.initCache,
		app.initHTTPServer,
		app.initModules,
		app.initClosers,
	} {
		step()
	}

	return app
}
