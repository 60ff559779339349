package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/recipeapp/recipe-api/internal/core/domain"
	"github.com/recipeapp/recipe-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// validationErrorResponse is returned with 400 when a payload fails validation.
type validationErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

// --- Users ---

type createUserRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
	Name     string `json:"name"     validate:"max=255"`
}

type tokenRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Name     *string `json:"name"     validate:"omitempty,max=255"`
	Password *string `json:"password" validate:"omitempty,min=5"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type adminUserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	IsActive    bool      `json:"is_active"`
	IsStaff     bool      `json:"is_staff"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

func toAdminUserResponse(u *domain.User) adminUserResponse {
	return adminUserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		IsActive:    u.IsActive,
		IsStaff:     u.IsStaff,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
	}
}

// --- Tags / ingredients ---

type attributeRequest struct {
	Name string `json:"name"`
}

type attributeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func toAttributeResponses(attrs []*domain.Attribute) []attributeResponse {
	out := make([]attributeResponse, 0, len(attrs))
	for _, a := range attrs {
		out = append(out, attributeResponse{ID: a.ID, Name: a.Name})
	}
	return out
}

// --- Recipes ---

// recipeRequest accepts price as a JSON number or string. Absent fields stay
// nil so PATCH can tell them apart from zero values.
type recipeRequest struct {
	Title       *string          `json:"title"`
	TimeMinutes *int             `json:"time_minutes"`
	Price       *decimal.Decimal `json:"price" swaggertype:"string" example:"5.00"`
	Link        *string          `json:"link"`
	Tags        *[]string        `json:"tags"`
	Ingredients *[]string        `json:"ingredients"`
}

func (r recipeRequest) toInput() ports.RecipeInput {
	return ports.RecipeInput{
		Title:         r.Title,
		TimeMinutes:   r.TimeMinutes,
		Price:         r.Price,
		Link:          r.Link,
		TagIDs:        r.Tags,
		IngredientIDs: r.Ingredients,
	}
}

type recipeResponse struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	TimeMinutes int      `json:"time_minutes"`
	Price       string   `json:"price" example:"5.00"`
	Link        string   `json:"link"`
	Tags        []string `json:"tags"`
	Ingredients []string `json:"ingredients"`
	Image       string   `json:"image,omitempty"`
}

type recipeDetailResponse struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       string              `json:"price" example:"5.00"`
	Link        string              `json:"link"`
	Tags        []attributeResponse `json:"tags"`
	Ingredients []attributeResponse `json:"ingredients"`
	Image       string              `json:"image,omitempty"`
}

type recipeImageResponse struct {
	ID    string `json:"id"`
	Image string `json:"image"`
}

func toRecipeResponse(r *domain.Recipe) recipeResponse {
	return recipeResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Tags:        domain.UniqueIDs(r.TagIDs),
		Ingredients: domain.UniqueIDs(r.IngredientIDs),
		Image:       r.Image,
	}
}

func toRecipeDetailResponse(d *ports.RecipeDetail) recipeDetailResponse {
	r := d.Recipe
	return recipeDetailResponse{
		ID:          r.ID,
		Title:       r.Title,
		TimeMinutes: r.TimeMinutes,
		Price:       r.Price.StringFixed(2),
		Link:        r.Link,
		Tags:        toAttributeResponses(d.Tags),
		Ingredients: toAttributeResponses(d.Ingredients),
		Image:       r.Image,
	}
}
