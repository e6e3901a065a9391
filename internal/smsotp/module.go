package smsotp

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/authlab/authmethods/internal/pkg/clock"
	"github.com/authlab/authmethods/internal/pkg/config"
	"github.com/authlab/authmethods/internal/pkg/hash"
	"github.com/authlab/authmethods/internal/pkg/instrument"
	"github.com/authlab/authmethods/internal/pkg/messaging"
	"github.com/authlab/authmethods/internal/pkg/otpcode"
	"github.com/authlab/authmethods/internal/pkg/pendingcache"
	"github.com/authlab/authmethods/internal/pkg/router"
	"github.com/authlab/authmethods/internal/pkg/session"
	"github.com/authlab/authmethods/internal/pkg/uid"
	"github.com/authlab/authmethods/internal/pkg/validator"
	"github.com/authlab/authmethods/internal/smsotp/inbound"
	"github.com/authlab/authmethods/internal/smsotp/outbound/db"
	"github.com/authlab/authmethods/internal/smsotp/outbound/mq"
	"github.com/authlab/authmethods/internal/smsotp/outbound/sms"
	"github.com/authlab/authmethods/internal/smsotp/usecase"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	Redis      *redis.Client              `validate:"required"`
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

	dbSMS := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)

	codes := otpcode.NewEngine(
		db.NewCodeStore(dep.DBConn, dep.Instrument),
		dep.Clock,
		dep.Config.GetInt("modules.smsotp.otp_length"),
		dep.Config.GetMinute("modules.smsotp.otp_ttl_minutes"),
	)

	sender, err := newSender(dep.Config, dep.Instrument)
	if err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbSMS,
		RepoMessaging: repoMsg,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Bcrypt:        dep.Bcrypt,
		UID:           dep.UID,
		Clock:         dep.Clock,
		Codes:         codes,
		SMS:           sender,
		Pending:       pendingcache.New(dep.Redis),
		Instrument:    dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Session)

	return nil
}

func newSender(cfg config.Config, ins instrument.Instrumentation) (usecase.SMSSender, error) {
	driver := cfg.GetString("modules.smsotp.sms.driver")
	switch driver {
	case "twilio":
		return sms.NewTwilio(sms.TwilioConfig{
			AccountSID: cfg.GetString("modules.smsotp.sms.twilio.account_sid"),
			AuthToken:  cfg.GetString("modules.smsotp.sms.twilio.auth_token"),
			From:       cfg.GetString("modules.smsotp.sms.twilio.from"),
			Timeout:    cfg.GetSecond("modules.smsotp.sms.twilio.timeout_seconds"),
		}, ins)
	case "log", "":
		return sms.NewLog(), nil
	default:
		return nil, fmt.Errorf("smsotp: unknown sms driver %q", driver)
	}
}
