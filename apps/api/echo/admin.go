package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dmecc/volunteerhub/core/org"
	"github.com/dmecc/volunteerhub/core/record"
	"github.com/dmecc/volunteerhub/core/user"
)

type adminApi struct {
	deps ServerDeps
}

func registerAdminAPI(g *echo.Group, deps ServerDeps) {
	api := adminApi{deps: deps}

	ag := g.Group("/admin", scopeMiddleware(user.ScopeAdmin))
	ag.POST("/create-region", api.createRegion)
	ag.POST("/create-program", api.createProgram)
	ag.POST("/create-school", api.createSchool)
	ag.POST("/create-trait", api.createTrait)
	ag.POST("/log-payment", api.logPayment)
	ag.POST("/create-permission", api.createPermission)
	ag.POST("/add-permission-to-user", api.addPermissionToUser)
	ag.POST("/add-trait-to-user", api.addTraitToUser)
}

func (api *adminApi) createRegion(ctx echo.Context) error {
	var data org.NewRegion
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRegion")
	}
	if _, err := api.deps.OrgSvc.CreateRegion(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Created region!")
}

func (api *adminApi) createProgram(ctx echo.Context) error {
	var data org.NewProgram
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProgram")
	}
	if _, err := api.deps.OrgSvc.CreateProgram(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Created program!")
}

func (api *adminApi) createSchool(ctx echo.Context) error {
	var data org.NewSchool
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSchool")
	}
	if _, err := api.deps.OrgSvc.CreateSchool(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Created school!")
}

func (api *adminApi) createTrait(ctx echo.Context) error {
	var data org.NewTrait
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTrait")
	}
	if _, err := api.deps.OrgSvc.CreateTrait(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Created trait!")
}

func (api *adminApi) logPayment(ctx echo.Context) error {
	var data record.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	if _, err := api.deps.RecordSvc.LogPayment(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Logged payment!")
}

func (api *adminApi) createPermission(ctx echo.Context) error {
	var data user.NewPermission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPermission")
	}
	if _, err := api.deps.UserSvc.CreatePermission(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Created permission!")
}

func (api *adminApi) addPermissionToUser(ctx echo.Context) error {
	var data user.UserPermission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UserPermission")
	}
	if err := api.deps.UserSvc.GrantPermission(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Added permission to user!")
}

func (api *adminApi) addTraitToUser(ctx echo.Context) error {
	var data org.UserTraitAssociation
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UserTraitAssociation")
	}
	if err := api.deps.OrgSvc.AddTraitToUser(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Added trait to user!")
}
