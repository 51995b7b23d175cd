package main

import (
	"github.com/nvthanh/eduleave/core/settings"
)

// setWeek advances the current school week in the system configuration.
func (cli *commandLine) setWeek(week int) error {
	conf, err := cli.confSvc.Get()
	if err != nil {
		return err
	}
	_, err = cli.confSvc.Save(settings.UpdateSettings{
		SchoolName:  conf.SchoolName,
		Classes:     conf.Classes,
		Reasons:     conf.Reasons,
		CurrentWeek: week,
	})
	return err
}
