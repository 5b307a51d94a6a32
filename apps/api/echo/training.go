package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dmecc/volunteerhub/core/record"
	"github.com/dmecc/volunteerhub/core/user"
)

type trainingApi struct {
	deps ServerDeps
}

func registerTrainingAPI(g *echo.Group, deps ServerDeps) {
	api := trainingApi{deps: deps}

	tg := g.Group("/training", scopeMiddleware(user.ScopeAdmin))
	tg.POST("/log-training-record", api.logTrainingRecord)
}

func (api *trainingApi) logTrainingRecord(ctx echo.Context) error {
	var data record.NewTrainingRecord
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTrainingRecord")
	}

	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return err
	}
	if _, err := api.deps.RecordSvc.LogTrainingRecord(ctx.Request().Context(), usr.ID, data); err != nil {
		return err
	}
	return success(ctx, "Logged training record!")
}
