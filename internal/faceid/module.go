package faceid

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/authlab/authmethods/internal/faceid/inbound"
	"github.com/authlab/authmethods/internal/faceid/outbound/db"
	"github.com/authlab/authmethods/internal/faceid/outbound/encoder"
	"github.com/authlab/authmethods/internal/faceid/outbound/mq"
	"github.com/authlab/authmethods/internal/faceid/usecase"
	"github.com/authlab/authmethods/internal/pkg/clock"
	"github.com/authlab/authmethods/internal/pkg/config"
	"github.com/authlab/authmethods/internal/pkg/facematch"
	"github.com/authlab/authmethods/internal/pkg/goroutine"
	"github.com/authlab/authmethods/internal/pkg/hash"
	"github.com/authlab/authmethods/internal/pkg/instrument"
	"github.com/authlab/authmethods/internal/pkg/messaging"
	"github.com/authlab/authmethods/internal/pkg/router"
	"github.com/authlab/authmethods/internal/pkg/session"
	"github.com/authlab/authmethods/internal/pkg/uid"
	"github.com/authlab/authmethods/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Session    *session.Manager           `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	dbFace := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	extractor := encoder.NewClient(
		dep.Config.GetString("modules.faceid.encoder.base_url"),
		dep.Config.GetSecond("modules.faceid.encoder.timeout_seconds"),
		dep.Instrument,
	)

	threshold := dep.Config.GetFloat64("modules.faceid.match_threshold")
	matcher := facematch.NewMatcher(threshold)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbFace,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Bcrypt:        dep.Bcrypt,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Extractor:     extractor,
		Matcher:       matcher,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Session)

	return nil
}
