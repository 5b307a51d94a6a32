package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// scopeMiddleware guards a route group behind the given scopes. Requests
// without valid claims get 401; authenticated requests missing any of the
// scopes get 403 with the standard bearer challenge.
func scopeMiddleware(scopes ...string) echo.MiddlewareFunc {
	challenge := "Bearer"
	if len(scopes) > 0 {
		challenge = `Bearer scope="` + strings.Join(scopes, " ") + `"`
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				ctx.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
				return err
			}
			for _, scope := range scopes {
				if !claims.HasScope(scope) {
					ctx.Response().Header().Set(echo.HeaderWWWAuthenticate, challenge)
					return errHTTPForbidden
				}
			}
			return next(ctx)
		}
	}
}
