package dig_container

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/tadika/apps/api/echo"
	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/auth"
	"github.com/trezcool/tadika/core/childcare"
	"github.com/trezcool/tadika/core/dashboard"
	"github.com/trezcool/tadika/core/i18n"
	"github.com/trezcool/tadika/core/onboarding"
	"github.com/trezcool/tadika/core/profile"
	emailsvc "github.com/trezcool/tadika/services/email"
	logsvc "github.com/trezcool/tadika/services/logger"
	cacheinmem "github.com/trezcool/tadika/storage/cache/inmem"
	"github.com/trezcool/tadika/storage/cache/redis"
	"github.com/trezcool/tadika/storage/database"
	sqlxrepos "github.com/trezcool/tadika/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

// Shutdown carries the channel the server uses to ask main for a graceful stop.
type Shutdown chan struct{}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) *sqlx.DB {
	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db.DB); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newRevocationStore(conf *core.Config, logger core.Logger) auth.RevocationStore {
	if !conf.Redis.Enabled {
		return cacheinmem.NewRevocationStore()
	}
	client, err := redis.Open(conf.Redis)
	if err != nil {
		logger.Fatal(fmt.Sprintf("connecting to redis: %v", err), err)
	}
	return redis.NewRevocationStore(client)
}

func newLocalProvider(conf *core.Config, accounts auth.AccountRepository, revocations auth.RevocationStore) auth.Provider {
	return auth.NewLocalProvider(conf, accounts, revocations)
}

func newDispatcher(conf *core.Config, profiles *profile.Service, repo childcare.Repository, logger core.Logger) *dashboard.Dispatcher {
	return dashboard.NewDispatcher(conf, profiles, repo, logger)
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newValidator(translator ut.Translator) *validator.Validate {
	validate := validator.New()
	core.InitValidators(validate, translator)
	profile.InitValidators(validate, translator)
	auth.InitValidators(validate, translator)
	childcare.InitValidators(validate, translator)
	return validate
}

func newShutdown() Shutdown {
	return make(Shutdown, 1)
}

type serverParams struct {
	dig.In

	Conf       *core.Config
	Logger     core.Logger
	Validate   *validator.Validate
	Translator ut.Translator
	I18n       *i18n.Translator
	Shutdown   Shutdown

	Provider   auth.Provider
	ProfileSvc *profile.Service
	Onboarding *onboarding.Service
	Childcare  *childcare.Service
	Dashboard  *dashboard.Dispatcher
}

func newServer(p serverParams) echoapi.Server {
	return echoapi.NewServer(&echoapi.Options{
		Conf:       p.Conf,
		Logger:     p.Logger,
		Validate:   p.Validate,
		Translator: p.Translator,
		I18n:       p.I18n,
		SignalShutdown: func() {
			select {
			case p.Shutdown <- struct{}{}:
			default:
			}
		},
		Provider:   p.Provider,
		ProfileSvc: p.ProfileSvc,
		Onboarding: p.Onboarding,
		Childcare:  p.Childcare,
		Dashboard:  p.Dashboard,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newEmailService))
	must(c.Provide(newRevocationStore))
	must(c.Provide(sqlxrepos.NewAccountRepository))
	must(c.Provide(sqlxrepos.NewProfileRepository))
	must(c.Provide(sqlxrepos.NewChildcareRepository))
	must(c.Provide(newTranslator))
	must(c.Provide(newValidator))
	must(c.Provide(i18n.New))
	must(c.Provide(newLocalProvider))
	must(c.Provide(profile.NewService))
	must(c.Provide(childcare.NewService))
	must(c.Provide(newDispatcher))
	must(c.Provide(onboarding.NewService))
	must(c.Provide(newShutdown))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
