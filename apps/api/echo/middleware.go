package echoapi

import (
	"github.com/labstack/echo/v4"

	"github.com/nvthanh/eduleave/core/user"
)

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if claims.Role == user.RoleAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// permissionMiddleware gates a route on one capability of the role matrix.
func permissionMiddleware(can func(perm user.Permission) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if can(user.RolePermissions(claims.Role)) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
