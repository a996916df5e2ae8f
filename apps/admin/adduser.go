package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/accredhub/abet/core"
	"github.com/accredhub/abet/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	roles := user.FacultyRoles
	if isAdmin {
		roles = user.AllRoles
	}

	usr, err := cli.usrSvc.GetByUsernameOrEmail(ctx, uname)
	if err != nil {
		if err != user.ErrNotFound {
			return errors.Wrap(err, "finding user")
		}
		_, err = cli.usrSvc.Create(ctx, user.NewUser{
			Name:            uname,
			Username:        uname,
			Email:           email,
			Password:        pwd,
			PasswordConfirm: pwd,
			Roles:           roles,
		})
		return errors.Wrap(err, "creating user")
	}

	isActive := true
	_, err = cli.usrSvc.Update(ctx, usr.ID, user.UpdateUser{
		Username:        uname,
		Email:           email,
		IsActive:        &isActive,
		Roles:           roles,
		Password:        pwd,
		PasswordConfirm: pwd,
	})
	return errors.Wrap(err, "updating user")
}
