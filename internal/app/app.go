package app

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/authlab/authmethods/internal/pkg/clock"
	"github.com/authlab/authmethods/internal/pkg/config"
	"github.com/authlab/authmethods/internal/pkg/goroutine"
	"github.com/authlab/authmethods/internal/pkg/hash"
	"github.com/authlab/authmethods/internal/pkg/instrument"
	"github.com/authlab/authmethods/internal/pkg/messaging"
	"github.com/authlab/authmethods/internal/pkg/router"
	"github.com/authlab/authmethods/internal/pkg/session"
	"github.com/authlab/authmethods/internal/pkg/uid"
	"github.com/authlab/authmethods/internal/pkg/validator"
)

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	bcrypt    hash.Hash
	uid       uid.NumberID
	uuid      uid.StringID
	session   *session.Manager

	// resources
	dbConn    *pgxpool.Pool
	cacheConn *redis.Client
	messaging messaging.Messaging

	// server
	router     *router.Router
	httpServer *http.Server

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New initializes the application with default wiring and returns an App instance.
func New() *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initInstrument()
	app.initLibraries()
	app.initSession()
	app.initDatabase()
	app.initCache()
	app.initMessaging()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
