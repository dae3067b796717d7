package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/storefront/storefront-service/internal/domain"
	"github.com/storefront/storefront-service/pkg/errs"
	"github.com/storefront/storefront-service/pkg/response"
	"github.com/storefront/storefront-service/pkg/utils"
)

// AdminOnly rejects authenticated callers whose token does not carry the
// admin role. It must run after the JWT middleware.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		_, _, _, role := utils.ExtractTokenUser(c)
		if role != domain.RoleAdmin {
			return response.WriteErrorResponse(c, errs.ErrUnauthorized, nil)
		}

		return next(c)
	}
}
