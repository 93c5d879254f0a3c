package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/ttuacm/sdc-backend/core"
)

// adminMiddleware restricts a route to configured org admin accounts.
func adminMiddleware(conf *core.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin && conf.IsAdminEmail(claims.Email) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
