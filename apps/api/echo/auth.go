package echoapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/dmecc/volunteerhub/core"
	"github.com/dmecc/volunteerhub/core/user"
)

const (
	jwtIssuer        = "dmecc"
	contextClaimsKey = "userClaims"
	contextUserKey   = "user"
)

// Claims represents the authorization claims transmitted via a JWT.
// Subject holds the user's email; Scopes the permissions granted at login.
type Claims struct {
	jwt.StandardClaims
	Scopes []string `json:"scopes"`
}

func (c *Claims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

func GetUserClaims(usr user.User, conf *core.Config) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    jwtIssuer,
			Subject:   usr.Email,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			Id:        uuid.New().String(),
		},
		Scopes: usr.Scopes,
	}
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims, conf *core.Config) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString(conf.SecretKey)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

// token decode failure kinds; logged internally, never exposed to callers.
type tokenErrKind string

const (
	tokenAbsent           tokenErrKind = "absent"
	tokenMalformed        tokenErrKind = "malformed"
	tokenSignatureInvalid tokenErrKind = "signature invalid"
	tokenExpired          tokenErrKind = "expired"
)

// newTokenMiddleware returns a middleware that decodes the bearer token when
// present and stores its claims in the context. Requests without a usable
// token pass through unauthenticated; scope checks reject them later. All
// failure kinds collapse to the same external behavior.
func newTokenMiddleware(conf *core.Config, logger core.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			raw, kind := extractToken(ctx.Request())
			if kind == tokenAbsent {
				return next(ctx)
			}

			claims := new(Claims)
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.Errorf("unexpected signing method %q", t.Header["alg"])
				}
				return conf.SecretKey, nil
			})
			if err != nil || !token.Valid || claims.Issuer != jwtIssuer {
				logger.Info(fmt.Sprintf("rejected token (%s) from %s", classifyTokenErr(err), ctx.RealIP()))
				return next(ctx)
			}

			ctx.Set(contextClaimsKey, claims)
			return next(ctx)
		}
	}
}

func extractToken(req *http.Request) (string, tokenErrKind) {
	header := req.Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", tokenAbsent
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", tokenMalformed
	}
	return parts[1], ""
}

func classifyTokenErr(err error) tokenErrKind {
	vErr, ok := err.(*jwt.ValidationError)
	if !ok {
		return tokenMalformed
	}
	switch {
	case vErr.Errors&jwt.ValidationErrorMalformed != 0:
		return tokenMalformed
	case vErr.Errors&jwt.ValidationErrorSignatureInvalid != 0:
		return tokenSignatureInvalid
	case vErr.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0:
		return tokenExpired
	}
	return tokenMalformed
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if claims, ok := ctx.Get(contextClaimsKey).(*Claims); ok {
		return *claims, nil
	}
	return Claims{}, errNotLoggedIn
}

func getContextUser(ctx echo.Context, svc user.Service) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return user.User{}, err
	}

	usr, err := svc.GetByEmail(ctx.Request().Context(), claims.Subject)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return user.User{}, errNotLoggedIn
		}
		return user.User{}, errors.Wrap(err, "finding user by email")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}
