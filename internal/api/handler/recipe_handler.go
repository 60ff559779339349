package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/recipeapp/recipe-api/internal/core/domain"
	"github.com/recipeapp/recipe-api/internal/core/ports"
)

// RecipeHandler handles HTTP requests for recipe operations.
type RecipeHandler struct {
	service ports.RecipeService
}

func NewRecipeHandler(service ports.RecipeService) *RecipeHandler {
	return &RecipeHandler{service: service}
}

// List handles GET /api/recipe/recipes.
//
// @Summary      List recipes
// @Tags         recipe
// @Produce      json
// @Security     BearerAuth
// @Param        tags         query     string  false  "Comma separated tag IDs"
// @Param        ingredients  query     string  false  "Comma separated ingredient IDs"
// @Success      200          {array}   recipeResponse
// @Failure      401          {object}  errorResponse
// @Router       /api/recipe/recipes [get]
func (h *RecipeHandler) List(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	recipes, err := h.service.List(c.Request().Context(), ports.RecipeFilter{
		UserID:        user.ID,
		TagIDs:        splitIDs(c.QueryParam("tags")),
		IngredientIDs: splitIDs(c.QueryParam("ingredients")),
	})
	if err != nil {
		return err
	}

	out := make([]recipeResponse, 0, len(recipes))
	for _, r := range recipes {
		out = append(out, toRecipeResponse(r))
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /api/recipe/recipes/:id.
//
// @Summary      Get a recipe
// @Tags         recipe
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Recipe ID"
// @Success      200  {object}  recipeDetailResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/recipe/recipes/{id} [get]
func (h *RecipeHandler) Get(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRecipeDetailResponse(detail))
}

// Create handles POST /api/recipe/recipes.
//
// @Summary      Create a recipe
// @Tags         recipe
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      recipeRequest  true  "Recipe"
// @Success      201   {object}  recipeResponse
// @Failure      400   {object}  validationErrorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/recipe/recipes [post]
func (h *RecipeHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req recipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	recipe, err := h.service.Create(c.Request().Context(), user.ID, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toRecipeResponse(recipe))
}

// Update handles PUT /api/recipe/recipes/:id, replacing the whole recipe.
//
// @Summary      Replace a recipe
// @Tags         recipe
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Recipe ID"
// @Param        body  body      recipeRequest  true  "Recipe"
// @Success      200   {object}  recipeResponse
// @Failure      400   {object}  validationErrorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/recipe/recipes/{id} [put]
func (h *RecipeHandler) Update(c echo.Context) error {
	return h.update(c, false)
}

// Patch handles PATCH /api/recipe/recipes/:id, changing only the given fields.
//
// @Summary      Partially update a recipe
// @Tags         recipe
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Recipe ID"
// @Param        body  body      recipeRequest  true  "Fields to change"
// @Success      200   {object}  recipeResponse
// @Failure      400   {object}  validationErrorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/recipe/recipes/{id} [patch]
func (h *RecipeHandler) Patch(c echo.Context) error {
	return h.update(c, true)
}

func (h *RecipeHandler) update(c echo.Context, partial bool) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req recipeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	recipe, err := h.service.Update(c.Request().Context(), user.ID, c.Param("id"), req.toInput(), partial)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRecipeResponse(recipe))
}

// Delete handles DELETE /api/recipe/recipes/:id.
//
// @Summary      Delete a recipe
// @Tags         recipe
// @Security     BearerAuth
// @Param        id   path  string  true  "Recipe ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/recipe/recipes/{id} [delete]
func (h *RecipeHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImage handles POST /api/recipe/recipes/:id/upload-image.
//
// @Summary      Upload a recipe image
// @Tags         recipe
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id     path      string  true  "Recipe ID"
// @Param        image  formData  file    true  "JPEG, PNG or GIF image"
// @Success      200    {object}  recipeImageResponse
// @Failure      400    {object}  validationErrorResponse
// @Failure      401    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /api/recipe/recipes/{id}/upload-image [post]
func (h *RecipeHandler) UploadImage(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return domain.NewValidationError("image", "no file was submitted")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	recipe, err := h.service.UploadImage(c.Request().Context(), user.ID, c.Param("id"), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, recipeImageResponse{ID: recipe.ID, Image: recipe.Image})
}

// splitIDs parses a comma separated list of IDs, dropping blanks.
func splitIDs(s string) []string {
	if s == "" {
		return nil
	}
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
