package main

import (
	"log"
	"os"

	"github.com/nvthanh/eduleave/apps/api/echo"
	"github.com/nvthanh/eduleave/core"
	"github.com/nvthanh/eduleave/core/request"
	"github.com/nvthanh/eduleave/core/settings"
	"github.com/nvthanh/eduleave/core/user"
	"github.com/nvthanh/eduleave/services/email"
	"github.com/nvthanh/eduleave/services/logger"
	"github.com/nvthanh/eduleave/services/upload"
	"github.com/nvthanh/eduleave/storage/database/dummy"
	"github.com/nvthanh/eduleave/storage/database/pg"
)

func main() {
	// set up logging
	var logger core.Logger
	if core.Conf.Debug {
		zl, err := logsvc.NewZapLogger(core.Conf)
		errAndDie(err)
		logger = zl
	} else {
		logger = logsvc.NewRollbarLogger(log.New(os.Stderr, "", log.LstdFlags), core.Conf)
	}

	// set up storage; in-memory demo store unless a database is configured
	var (
		usrRepo  user.Repository
		reqRepo  request.Repository
		confRepo settings.Repository
	)
	if core.Conf.DatabaseURL != "" {
		db, err := pgdb.Open(core.Conf.DatabaseURL)
		errAndDie(err)
		defer db.Close()
		errAndDie(pgdb.Migrate(db))
		usrRepo = pgdb.NewUserRepository(db)
		reqRepo = pgdb.NewRequestRepository(db)
		confRepo = pgdb.NewSettingsRepository(db)
	} else {
		db, err := dummydb.Open()
		errAndDie(err)
		usrRepo = dummydb.NewUserRepository(db)
		reqRepo = dummydb.NewRequestRepository(db)
		confRepo = dummydb.NewSettingsRepository(db)
		logger.Warn("no DATABASE_URL configured; using the in-memory store")
	}

	// set up services
	var mailSvc core.EmailService
	if core.Conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	uploadSvc, err := uploadsvc.NewLocalService(core.Conf)
	errAndDie(err)

	hub := echoapi.NewHub(logger)
	go hub.Run()

	usrSvc := user.NewService(usrRepo, mailSvc)
	confSvc := settings.NewService(confRepo)
	reqSvc := request.NewService(reqRepo, usrSvc, mailSvc, hub)

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:     core.Conf.Server.Addr,
			UserSvc:     usrSvc,
			RequestSvc:  reqSvc,
			SettingsSvc: confSvc,
			UploadSvc:   uploadSvc,
			Hub:         hub,
			Logger:      logger,
		},
	)
	logger.Info("starting API server", map[string]interface{}{"addr": core.Conf.Server.Addr})
	app.Start()
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
