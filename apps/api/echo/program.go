package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dmecc/volunteerhub/core/activity"
	"github.com/dmecc/volunteerhub/core/org"
	"github.com/dmecc/volunteerhub/core/user"
)

type programApi struct {
	deps ServerDeps
}

func registerProgramAPI(g *echo.Group, deps ServerDeps) {
	api := programApi{deps: deps}

	pg := g.Group("/program", scopeMiddleware(user.ScopeProgram))
	pg.POST("/create-team", api.createTeam)

	tg := g.Group("/team", scopeMiddleware(user.ScopeTeam))
	tg.POST("/create-role", api.createRole)
	tg.POST("/add-role-to-team", api.addRoleToTeam)
	tg.POST("/add-user-to-team", api.addUserToTeam)
}

func (api *programApi) createTeam(ctx echo.Context) error {
	var data org.NewTeam
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTeam")
	}
	if _, err := api.deps.OrgSvc.CreateTeam(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Created team!")
}

func (api *programApi) createRole(ctx echo.Context) error {
	var data activity.NewRole
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRole")
	}
	if _, err := api.deps.ActivitySvc.CreateRole(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Created role!")
}

func (api *programApi) addRoleToTeam(ctx echo.Context) error {
	var data activity.TeamRoleLink
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TeamRoleLink")
	}
	if err := api.deps.ActivitySvc.LinkTeamRole(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Linked team and role!")
}

func (api *programApi) addUserToTeam(ctx echo.Context) error {
	var data org.TeamMembership
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to TeamMembership")
	}
	if err := api.deps.OrgSvc.AddUserToTeam(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Created team membership!")
}
