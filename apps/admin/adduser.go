package main

import (
	"context"

	"github.com/dmecc/volunteerhub/core"
	"github.com/dmecc/volunteerhub/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(email, first, last, pwd string, isAdmin bool) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Email:     email,
			FirstName: core.CleanString(first),
			LastName:  core.CleanString(last),
		}
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		if usr, err = cli.usrRepo.CreateUser(ctx, usr); err != nil {
			return err
		}
	} else {
		usr.FirstName = core.CleanString(first)
		usr.LastName = core.CleanString(last)
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		if usr, err = cli.usrRepo.UpdateUser(ctx, usr); err != nil {
			return err
		}
	}

	if isAdmin {
		for _, scope := range user.AllScopes {
			if err := cli.ensureScope(ctx, usr.ID, scope); err != nil {
				return err
			}
		}
	}
	return nil
}

// ensureScope links the scope to the user, creating the permission row first
// if it does not exist yet.
func (cli *commandLine) ensureScope(ctx context.Context, userID int, scope string) error {
	if _, err := cli.usrRepo.GetPermission(ctx, scope); err != nil {
		if err != user.ErrNotFound {
			return err
		}
		if _, err := cli.usrRepo.CreatePermission(ctx, user.Permission{Name: scope}); err != nil && err != user.ErrPermissionExists {
			return err
		}
	}
	err := cli.usrRepo.LinkUserPermission(ctx, user.UserPermission{UserID: userID, PermissionName: scope})
	if err == user.ErrLinkExists {
		return nil
	}
	return err
}
