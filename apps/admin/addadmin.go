package main

import (
	"github.com/nvthanh/eduleave/core"
	"github.com/nvthanh/eduleave/core/user"
)

// addAdmin creates (or reactivates) an administrator account.
func (cli *commandLine) addAdmin(uname, email, fullname, pwd string) error {
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	if usr, err := cli.usrSvc.GetByUsername(uname); err == nil {
		active := true
		_, err = cli.usrSvc.Update(usr.ID, user.UpdateUser{
			Role:            user.RoleAdmin,
			IsActive:        &active,
			Password:        pwd,
			PasswordConfirm: pwd,
		})
		return err
	} else if err != user.ErrNotFound {
		return err
	}

	if fullname == "" {
		fullname = uname
	}
	_, err := cli.usrSvc.Create(user.NewUser{
		FullName:        fullname,
		Username:        uname,
		Email:           email,
		Password:        pwd,
		PasswordConfirm: pwd,
		Role:            user.RoleAdmin,
	})
	return err
}
