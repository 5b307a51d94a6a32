package main

import (
	"context"

	"github.com/dmecc/volunteerhub/core"
)

func (cli *commandLine) grantScope(email, scope string) error {
	ctx := context.Background()
	email = core.CleanString(email, true /* lower */)
	scope = core.CleanString(scope, true /* lower */)

	usr, err := cli.usrRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	return cli.ensureScope(ctx, usr.ID, scope)
}
