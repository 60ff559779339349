package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/recipeapp/recipe-api/internal/api/middleware"
	"github.com/recipeapp/recipe-api/internal/core/domain"
)

// currentUser returns the caller injected by the Auth middleware. A handler
// mounted without Auth fails fast with 401 instead of leaking data.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, domain.ErrUnauthenticated.Error())
	}
	return user, nil
}
