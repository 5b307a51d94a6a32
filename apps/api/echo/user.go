package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dmecc/volunteerhub/core/record"
	"github.com/dmecc/volunteerhub/core/user"
)

type userApi struct {
	deps ServerDeps
}

type currentUserResponse struct {
	user.User
	FilledEntries int `json:"filled_entries"`
}

func registerUserAPI(g *echo.Group, deps ServerDeps) {
	api := userApi{deps: deps}

	ug := g.Group("/user", scopeMiddleware(user.ScopeVolunteer))
	ug.GET("/current-user", api.currentUser)
	ug.POST("/update-profile", api.updateProfile)
	ug.POST("/give-feedback", api.giveFeedback)
	ug.POST("/log-volunteer-record", api.logVolunteerRecord)
	ug.POST("/create-request", api.createRequest)
	ug.GET("/get-teams-of-user", api.userTeams)
	ug.GET("/get-recent-records-of-user", api.recentRecords)
	ug.GET("/total-hours", api.totalHours)
}

func (api *userApi) currentUser(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, currentUserResponse{User: usr, FilledEntries: user.FilledEntries(usr)})
}

func (api *userApi) updateProfile(ctx echo.Context) error {
	var data user.ProfilePatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ProfilePatch")
	}

	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return err
	}
	if _, err := api.deps.UserSvc.UpdateProfile(ctx.Request().Context(), usr.ID, data); err != nil {
		return err
	}
	return success(ctx, "Updated profile!")
}

func (api *userApi) giveFeedback(ctx echo.Context) error {
	var data record.NewFeedback
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFeedback")
	}

	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return err
	}
	if _, err := api.deps.RecordSvc.GiveFeedback(ctx.Request().Context(), usr.ID, data); err != nil {
		return err
	}
	return success(ctx, "Gave feedback!")
}

func (api *userApi) logVolunteerRecord(ctx echo.Context) error {
	var data record.NewVolunteerRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVolunteerRecord")
	}

	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return err
	}
	if _, err := api.deps.RecordSvc.LogVolunteerRecord(ctx.Request().Context(), usr.ID, data); err != nil {
		return err
	}
	return success(ctx, "Logged volunteer record!")
}

func (api *userApi) createRequest(ctx echo.Context) error {
	var data record.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}

	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return err
	}
	if _, err := api.deps.RecordSvc.CreateRequest(ctx.Request().Context(), usr.ID, data); err != nil {
		return err
	}
	return success(ctx, "Created request!")
}

func (api *userApi) userTeams(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return err
	}

	teams, err := api.deps.OrgSvc.TeamsByUser(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "listing user teams")
	}

	dd := newDropdown("Select a team", "No available teams")
	for _, t := range teams {
		dd.add(t.ID, t.Name)
	}
	return ctx.JSON(http.StatusOK, dd.finish())
}

func (api *userApi) recentRecords(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return err
	}

	entries, err := api.deps.RecordSvc.EntriesByUser(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "listing volunteer records")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *userApi) totalHours(ctx echo.Context) error {
	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return err
	}

	total, err := api.deps.RecordSvc.TotalHours(ctx.Request().Context(), usr.ID)
	if err != nil {
		return errors.Wrap(err, "summing volunteer hours")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"total_hours": total})
}

// dropdown builds the `{"0": placeholder, "<id>": name}` maps the frontend
// renders as select options. The "0" key flips to the empty placeholder when
// no rows were added.
type dropdown struct {
	m     map[string]string
	empty string
}

func newDropdown(placeholder, empty string) *dropdown {
	return &dropdown{m: map[string]string{"0": placeholder}, empty: empty}
}

func (dd *dropdown) add(id int, name string) {
	dd.m[strconv.Itoa(id)] = name
}

func (dd *dropdown) finish() map[string]string {
	if len(dd.m) == 1 {
		dd.m["0"] = dd.empty
	}
	return dd.m
}
