package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"github.com/storefront/storefront-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextWithRole(role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if role != "" {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": role})
		token.Valid = true
		c.Set("user", token)
	}

	return c, rec
}

func TestAdminOnly(t *testing.T) {
	testCases := []struct {
		name        string
		role        string
		wantStatus  int
		wantReached bool
	}{
		{name: "admin passes", role: domain.RoleAdmin, wantStatus: http.StatusOK, wantReached: true},
		{name: "plain user rejected", role: domain.RoleUser, wantStatus: http.StatusForbidden},
		{name: "missing token rejected", role: "", wantStatus: http.StatusForbidden},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			reached := false
			handler := AdminOnly(func(c echo.Context) error {
				reached = true
				return c.NoContent(http.StatusOK)
			})

			c, rec := contextWithRole(tc.role)
			require.NoError(t, handler(c))

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantReached, reached)
		})
	}
}
