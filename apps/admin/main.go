package main

import (
	"log"
	"os"

	"github.com/nvthanh/eduleave/core"
	"github.com/nvthanh/eduleave/core/settings"
	"github.com/nvthanh/eduleave/core/user"
	"github.com/nvthanh/eduleave/storage/database/pg"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	// set up DB
	db, err := pgdb.Open(core.Conf.DatabaseURL)
	errAndDie(err)
	defer db.Close()
	errAndDie(pgdb.Migrate(db))

	// start CLI
	cli := commandLine{
		usrSvc:  user.NewService(pgdb.NewUserRepository(db), nil),
		confSvc: settings.NewService(pgdb.NewSettingsRepository(db)),
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
