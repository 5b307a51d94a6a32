package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dmecc/volunteerhub/core"
	"github.com/dmecc/volunteerhub/core/user"
)

type (
	loginRequest struct {
		Username string `json:"username" form:"username"`
		Password string `json:"password" form:"password"`
	}

	loginResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}

	passwordResetRequest struct {
		Email string `json:"email" form:"email" validate:"required,email"`
	}
)

type authApi struct {
	deps ServerDeps
}

func registerAuthAPI(g *echo.Group, deps ServerDeps) {
	api := authApi{deps: deps}

	ag := g.Group("/auth")

	// un-authed endpoints
	// TODO: rate limit `/password-reset` & `/password-reset-confirm`
	ag.POST("/signup-user", api.signup)
	ag.POST("/login-user", api.login)
	ag.POST("/password-reset", api.resetPassword)
	ag.POST("/password-reset-confirm", api.confirmPasswordReset)

	// authed endpoints
	ag.POST("/change-password", api.changePassword, scopeMiddleware(user.ScopeMe))
	ag.POST("/logout-user", api.logout, scopeMiddleware(user.ScopeVolunteer))
}

func (api *authApi) signup(ctx echo.Context) error {
	var data user.SignupUser
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SignupUser")
	}

	if _, err := api.deps.UserSvc.Signup(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Signed up!")
}

func (api *authApi) login(ctx echo.Context) error {
	var data loginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to loginRequest")
	}

	usr, err := api.deps.UserSvc.Authenticate(ctx.Request().Context(), data.Username, data.Password)
	if err != nil {
		return err
	}

	token, err := GenerateToken(GetUserClaims(usr, api.deps.Conf), api.deps.Conf)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, loginResponse{AccessToken: token, TokenType: "bearer"})
}

func (api *authApi) changePassword(ctx echo.Context) error {
	var data user.ChangePassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChangePassword")
	}

	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return err
	}
	if err := api.deps.UserSvc.ChangePassword(ctx.Request().Context(), usr, data); err != nil {
		return err
	}
	return success(ctx, "Changed password!")
}

func (api *authApi) logout(ctx echo.Context) error {
	// stateless tokens; the client drops theirs
	return success(ctx, "Logged out!")
}

func (api *authApi) resetPassword(ctx echo.Context) error {
	var data passwordResetRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to passwordResetRequest")
	}
	if flds := core.CheckStruct(api.deps.Validate, api.deps.Translator, &data); len(flds) > 0 {
		return core.NewValidationError(nil, flds...)
	}

	if err := api.deps.UserSvc.RequestPasswordReset(ctx.Request().Context(), data.Email); !(err == nil || errors.Cause(err) == user.ErrNotFound) {
		// do not return errors to attackers
		ctx.Logger().Errorf("%+v", errors.Wrap(err, "requesting password reset"))
	}
	return success(ctx, "If the email address supplied is associated with an active account on this system, "+
		"an email will arrive in your inbox shortly with instructions to reset your password.")
}

func (api *authApi) confirmPasswordReset(ctx echo.Context) error {
	var data user.ResetUserPassword
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ResetUserPassword")
	}

	if err := api.deps.UserSvc.ResetPassword(ctx.Request().Context(), data); err != nil {
		return err
	}
	return success(ctx, "Password has been reset with the new password.")
}
