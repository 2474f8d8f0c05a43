package main

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/tadika/core"
	"github.com/trezcool/tadika/core/auth"
	"github.com/trezcool/tadika/core/onboarding"
	"github.com/trezcool/tadika/core/profile"
	emailsvc "github.com/trezcool/tadika/services/email"
	logsvc "github.com/trezcool/tadika/services/logger"
	cacheinmem "github.com/trezcool/tadika/storage/cache/inmem"
	"github.com/trezcool/tadika/storage/database"
	sqlxrepos "github.com/trezcool/tadika/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	stdLogger := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	// set up services
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	profile.InitValidators(validate, translator)
	auth.InitValidators(validate, translator)

	provider := auth.NewLocalProvider(conf, sqlxrepos.NewAccountRepository(db), cacheinmem.NewRevocationStore())
	profileSvc := profile.NewService(sqlxrepos.NewProfileRepository(db))

	// start CLI
	cli := commandLine{
		db:         db.DB,
		passwords:  provider,
		onboarding: onboarding.NewService(provider, profileSvc, emailsvc.NewConsoleServiceMock(conf, logger), validate),
		out:        os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			stdLogger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
