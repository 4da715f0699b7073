package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"backoffice-service/internal/entity"
)

const userContextKey = "user"

// TokenValidator resolves a bearer token to the user it was issued to.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*entity.User, error)
}

// AuthMiddleware rejects requests without a valid bearer token before any
// handler runs. The resolved user is stored in the echo context.
func AuthMiddleware(validator TokenValidator, skipper func(c echo.Context) bool) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		Skipper:     skipper,
		ContextKey:  userContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return validator.ValidateToken(c.Request().Context(), auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			msg := "Invalid token"
			if !hasBearerToken(c.Request()) {
				msg = "Token not provided"
			} else if !errors.Is(err, entity.ErrUnauthorized) {
				c.Logger().Error(err)
			}
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": msg})
		},
	})
}

func hasBearerToken(r *http.Request) bool {
	auth := r.Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(auth, "Bearer ")
	return ok && strings.TrimSpace(token) != ""
}

// CurrentUser returns the user authenticated for this request.
func CurrentUser(c echo.Context) *entity.User {
	user, _ := c.Get(userContextKey).(*entity.User)
	return user
}
