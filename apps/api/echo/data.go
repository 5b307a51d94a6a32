package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dmecc/volunteerhub/core/activity"
	"github.com/dmecc/volunteerhub/core/user"
)

type dataApi struct {
	deps ServerDeps
}

func registerDataAPI(g *echo.Group, deps ServerDeps) {
	api := dataApi{deps: deps}

	dg := g.Group("/data")
	dg.GET("/get-recent-events", api.recentEvents, scopeMiddleware(user.ScopeVolunteer))
	dg.GET("/get-roles-of-event", api.eventRoles, scopeMiddleware(user.ScopeVolunteer))
	dg.GET("/get-roles-of-team", api.teamRoles, scopeMiddleware(user.ScopeVolunteer))
	dg.GET("/get-top-volunteers", api.topVolunteers)
}

func (api *dataApi) recentEvents(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return err
	}

	var events []activity.Event
	if usr.SchoolID != nil {
		events, err = api.deps.ActivitySvc.RecentEventsBySchool(ctx.Request().Context(), *usr.SchoolID)
		if err != nil {
			return errors.Wrap(err, "listing recent events")
		}
	}

	dd := newDropdown("Select an event", "No available events")
	for _, evt := range events {
		dd.add(evt.ID, evt.Name)
	}
	return ctx.JSON(http.StatusOK, dd.finish())
}

func (api *dataApi) eventRoles(ctx echo.Context) error {
	eventID, err := strconv.Atoi(ctx.QueryParam("event_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "event_id must be an integer")
	}

	roles, err := api.deps.ActivitySvc.RolesByEvent(ctx.Request().Context(), eventID)
	if err != nil {
		return errors.Wrap(err, "listing event roles")
	}
	return ctx.JSON(http.StatusOK, rolesDropdown(roles))
}

func (api *dataApi) teamRoles(ctx echo.Context) error {
	teamID, err := strconv.Atoi(ctx.QueryParam("team_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "team_id must be an integer")
	}

	roles, err := api.deps.ActivitySvc.RolesByTeam(ctx.Request().Context(), teamID)
	if err != nil {
		return errors.Wrap(err, "listing team roles")
	}
	return ctx.JSON(http.StatusOK, rolesDropdown(roles))
}

func (api *dataApi) topVolunteers(ctx echo.Context) error {
	top, err := api.deps.RecordSvc.TopVolunteers(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing top volunteers")
	}
	return ctx.JSON(http.StatusOK, top)
}

func rolesDropdown(roles []activity.Role) map[string]string {
	dd := newDropdown("Select a position", "No available positions")
	for _, role := range roles {
		dd.add(role.ID, role.Name)
	}
	return dd.finish()
}
