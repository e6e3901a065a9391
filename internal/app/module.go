package app

import (
	"log/slog"
	"os"

	"github.com/authlab/authmethods/internal/faceid"
	"github.com/authlab/authmethods/internal/smsotp"
	"github.com/authlab/authmethods/internal/totp"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.faceid.enabled") {
		if err := faceid.New(faceid.Dependency{
			DBConn:     a.dbConn,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			Bcrypt:     a.bcrypt,
			Clock:      a.clock,
			Validator:  a.validator,
			Session:    a.session,
		}); err != nil {
			slog.Error("failed to init module faceid", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.smsotp.enabled") {
		if err := smsotp.New(smsotp.Dependency{
			DBConn:     a.dbConn,
			Redis:      a.cacheConn,
			Router:     a.router,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			Bcrypt:     a.bcrypt,
			Clock:      a.clock,
			Validator:  a.validator,
			Session:    a.session,
		}); err != nil {
			slog.Error("failed to init module smsotp", "error", err)
			os.Exit(1)
		}
	}

	if a.config.GetBool("modules.totp.enabled") {
		if err := totp.New(totp.Dependency{
			DBConn:     a.dbConn,
			Goroutine:  a.goroutine,
			Router:     a.router,
			Messaging:  a.messaging,
			Config:     a.config,
			Instrument: a.ins,
			UID:        a.uid,
			Bcrypt:     a.bcrypt,
			Clock:      a.clock,
			Validator:  a.validator,
			Session:    a.session,
		}); err != nil {
			slog.Error("failed to init module totp", "error", err)
			os.Exit(1)
		}
	}
}
