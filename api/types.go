package api

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/rpupo63/platefeed-backend/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	authHandler       authHandler
	userHandler       userHandler
	tagHandler        tagHandler
	ingredientHandler ingredientHandler
	recipeHandler     recipeHandler
}

// ErrorResponse represents an error response from the API
type ErrorResponse struct {
	Error   string `json:"error"`
	Status  string `json:"status"`
	Field   string `json:"field,omitempty"`
	Details string `json:"details,omitempty"`
	Cause   string `json:"cause,omitempty"`
}

// UserProfile is a user as rendered to callers, with the subscription flag
// relative to the authenticated caller.
type UserProfile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

func newUserProfile(user models.User, isSubscribed bool) UserProfile {
	return UserProfile{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

// IngredientLineView is one rendered recipe ingredient line.
type IngredientLineView struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

// RecipeView is a recipe as rendered to callers, with the bookmark flags
// relative to the authenticated caller.
type RecipeView struct {
	ID               uuid.UUID            `json:"id"`
	Tags             []models.Tag         `json:"tags"`
	Author           UserProfile          `json:"author"`
	Ingredients      []IngredientLineView `json:"ingredients"`
	IsFavorited      bool                 `json:"is_favorited"`
	IsInShoppingCart bool                 `json:"is_in_shopping_cart"`
	Name             string               `json:"name"`
	Image            string               `json:"image"`
	Text             string               `json:"text"`
	CookingTime      int                  `json:"cooking_time"`
}

func newRecipeView(recipe *models.Recipe, authorSubscribed, favorited, inCart bool) RecipeView {
	lines := make([]IngredientLineView, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		lines = append(lines, IngredientLineView{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}
	tags := recipe.Tags
	if tags == nil {
		tags = []models.Tag{}
	}
	return RecipeView{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           newUserProfile(recipe.Author, authorSubscribed),
		Ingredients:      lines,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             recipe.Name,
		Image:            recipe.Image,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

// defaultPageSize mirrors the page size the frontend expects.
const defaultPageSize = 6

// parsePage reads page/limit query params into a limit and offset.
func parsePage(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	page := 1
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}
	return limit, (page - 1) * limit
}
