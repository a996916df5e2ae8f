package main

import (
	"log"
	"os"

	"github.com/jmoiron/sqlx"

	"github.com/accredhub/abet/core"
	"github.com/accredhub/abet/core/assessment"
	"github.com/accredhub/abet/core/compliance"
	"github.com/accredhub/abet/core/user"
	emailsvc "github.com/accredhub/abet/services/email"
	logsvc "github.com/accredhub/abet/services/logger"
	"github.com/accredhub/abet/storage/database"
	sqlxrepos "github.com/accredhub/abet/storage/database/sqlx"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()

	appLogger := logsvc.NewRollbarLogger(logger, conf)
	appLogger.Enable(false) // CLI runs stay local

	// set up DB
	errAndDie(database.CreateIfNotExist(conf))
	db, err := database.Open(conf)
	errAndDie(err)
	defer db.Close()
	xdb := sqlx.NewDb(db, conf.Database.Engine)

	usrRepo := sqlxrepos.NewUserRepository(xdb)
	catRepo := sqlxrepos.NewCatalogRepository(xdb)
	assessRepo := sqlxrepos.NewAssessmentRepository(xdb)
	compRepo := sqlxrepos.NewComplianceRepository(xdb)

	engine := assessment.NewEngine(assessRepo, catRepo, appLogger)
	alerter := compliance.NewAlerter(conf, emailsvc.NewConsoleService(conf))

	// start CLI
	cli := commandLine{
		db:        db,
		usrSvc:    user.NewService(usrRepo, appLogger),
		assessSvc: assessment.NewService(assessRepo, catRepo, assessRepo, engine, appLogger),
		compSvc:   compliance.NewService(compRepo, conf, appLogger),
		calc:      compliance.NewCalculator(compRepo, catRepo, engine, alerter, conf, appLogger),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
