package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dmecc/volunteerhub/core/activity"
	"github.com/dmecc/volunteerhub/core/user"
)

type schoolApi struct {
	deps ServerDeps
}

func registerSchoolAPI(g *echo.Group, deps ServerDeps) {
	api := schoolApi{deps: deps}

	sg := g.Group("/school", scopeMiddleware(user.ScopeSchool))
	sg.POST("/create-event", api.createEvent)
	sg.POST("/create-role", api.createRole)
	sg.POST("/add-event-to-school", api.addEventToSchool)
	sg.POST("/add-role-to-event", api.addRoleToEvent)
}

func (api *schoolApi) createEvent(ctx echo.Context) error {
	var data activity.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if _, err := api.deps.ActivitySvc.CreateEvent(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Created event!")
}

func (api *schoolApi) createRole(ctx echo.Context) error {
	var data activity.NewRole
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRole")
	}
	if _, err := api.deps.ActivitySvc.CreateRole(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Created role!")
}

func (api *schoolApi) addEventToSchool(ctx echo.Context) error {
	var data activity.SchoolEventLink
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SchoolEventLink")
	}
	if err := api.deps.ActivitySvc.LinkSchoolEvent(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Linked school and event!")
}

func (api *schoolApi) addRoleToEvent(ctx echo.Context) error {
	var data activity.EventRoleLink
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EventRoleLink")
	}
	if err := api.deps.ActivitySvc.LinkEventRole(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Linked event and role!")
}
