package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/nvthanh/eduleave/core/settings"
	"github.com/nvthanh/eduleave/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	usrSvc  user.Service
	confSvc settings.Service
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  addadmin -username USERNAME [-email EMAIL] [-fullname NAME] - create an admin account (password prompted)")
	fmt.Println("  setweek -week N - set the current school week")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addAdminCmd := flag.NewFlagSet("addadmin", flag.ExitOnError)
	addAdminUname := addAdminCmd.String("username", "", "The admin's username. The password will be prompted next.")
	addAdminEmail := addAdminCmd.String("email", "", "The admin's email address.")
	addAdminName := addAdminCmd.String("fullname", "", "The admin's full name.")

	setWeekCmd := flag.NewFlagSet("setweek", flag.ExitOnError)
	setWeekN := setWeekCmd.Int("week", 0, "The new current school week (>= 1).")

	switch args[1] {
	case "addadmin":
		if err := addAdminCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *addAdminUname == "" {
			addAdminCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			addAdminCmd.Usage()
			return errHelp
		}
		return cli.addAdmin(*addAdminUname, *addAdminEmail, *addAdminName, string(pwd))
	case "setweek":
		if err := setWeekCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *setWeekN < 1 {
			setWeekCmd.Usage()
			return errHelp
		}
		return cli.setWeek(*setWeekN)
	default:
		cli.printUsage()
		return errHelp
	}
}
