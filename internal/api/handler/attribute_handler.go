package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/recipeapp/recipe-api/internal/core/domain"
	"github.com/recipeapp/recipe-api/internal/core/ports"
)

// AttributeHandler serves the tag and ingredient endpoints. One instance is
// mounted per kind.
type AttributeHandler struct {
	service ports.AttributeService
	kind    domain.AttributeKind
}

func NewAttributeHandler(service ports.AttributeService, kind domain.AttributeKind) *AttributeHandler {
	return &AttributeHandler{service: service, kind: kind}
}

// List returns the caller's tags or ingredients ordered by name, descending.
//
// @Summary      List tags or ingredients
// @Tags         recipe
// @Produce      json
// @Security     BearerAuth
// @Param        assigned_only  query     int  false  "Only return items used by at least one recipe (0 or 1)"
// @Success      200            {array}   attributeResponse
// @Failure      400            {object}  validationErrorResponse
// @Failure      401            {object}  errorResponse
// @Router       /api/recipe/tags [get]
// @Router       /api/recipe/ingredients [get]
func (h *AttributeHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	assignedOnly, err := parseFlag(c.QueryParam("assigned_only"))
	if err != nil {
		return domain.NewValidationError("assigned_only", "must be 0 or 1")
	}

	attrs, err := h.service.List(c.Request().Context(), ports.ListAttributesInput{
		UserID:       user.ID,
		Kind:         h.kind,
		AssignedOnly: assignedOnly,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAttributeResponses(attrs))
}

// Create adds a tag or ingredient owned by the caller.
//
// @Summary      Create a tag or ingredient
// @Tags         recipe
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      attributeRequest  true  "Name"
// @Success      201   {object}  attributeResponse
// @Failure      400   {object}  validationErrorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/recipe/tags [post]
// @Router       /api/recipe/ingredients [post]
func (h *AttributeHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req attributeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	attr, err := h.service.Create(c.Request().Context(), user.ID, h.kind, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, attributeResponse{ID: attr.ID, Name: attr.Name})
}

// parseFlag reads an optional boolean query parameter; "" is false.
func parseFlag(v string) (bool, error) {
	if v == "" {
		return false, nil
	}
	return strconv.ParseBool(v)
}
