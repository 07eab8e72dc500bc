package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/platefeed-backend/database"
	"github.com/rpupo63/platefeed-backend/errs"
	"github.com/rpupo63/platefeed-backend/models"
)

// bookmarkRepo is the shared surface of the favorite and shopping-cart
// repositories; both are (user, recipe) join rows with identical semantics.
type bookmarkRepo interface {
	Exists(userID, recipeID uuid.UUID) (bool, error)
	Add(userID, recipeID uuid.UUID) error
	Delete(userID, recipeID uuid.UUID) (int64, error)
}

// RecipeSummary is the minimal recipe view returned by bookmark additions
// and embedded in follow profiles.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

func summarize(recipe *models.Recipe) *RecipeSummary {
	return &RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

// Bookmarks implements the favorite and shopping-cart toggles over their
// common add/remove pattern.
type Bookmarks struct {
	recipeRepo   *database.RecipeRepo
	favoriteRepo bookmarkRepo
	cartRepo     bookmarkRepo
}

func NewBookmarks(recipeRepo *database.RecipeRepo, favoriteRepo *database.FavoriteRepo, cartRepo *database.ShoppingCartRepo) Bookmarks {
	return Bookmarks{recipeRepo: recipeRepo, favoriteRepo: favoriteRepo, cartRepo: cartRepo}
}

func (b Bookmarks) AddFavorite(userID, recipeID uuid.UUID) (*RecipeSummary, error) {
	return b.add(b.favoriteRepo, "favorite", userID, recipeID)
}

func (b Bookmarks) RemoveFavorite(userID, recipeID uuid.UUID) error {
	return b.remove(b.favoriteRepo, "favorite", userID, recipeID)
}

func (b Bookmarks) AddToCart(userID, recipeID uuid.UUID) (*RecipeSummary, error) {
	return b.add(b.cartRepo, "shopping cart item", userID, recipeID)
}

func (b Bookmarks) RemoveFromCart(userID, recipeID uuid.UUID) error {
	return b.remove(b.cartRepo, "shopping cart item", userID, recipeID)
}

func (b Bookmarks) add(repo bookmarkRepo, entity string, userID, recipeID uuid.UUID) (*RecipeSummary, error) {
	recipe, err := b.findRecipe(recipeID)
	if err != nil {
		return nil, err
	}

	exists, err := repo.Exists(userID, recipeID)
	if err != nil {
		return nil, errs.NewDatabaseError("look up", entity, err)
	}
	if exists {
		return nil, errs.NewAlreadyExists(entity)
	}

	if err := repo.Add(userID, recipeID); err != nil {
		// a concurrent identical insert loses on the uniqueness constraint
		return nil, errs.NewDatabaseError("create", entity, err)
	}
	return summarize(recipe), nil
}

func (b Bookmarks) remove(repo bookmarkRepo, entity string, userID, recipeID uuid.UUID) error {
	if _, err := b.findRecipe(recipeID); err != nil {
		return err
	}

	affected, err := repo.Delete(userID, recipeID)
	if err != nil {
		return errs.NewDatabaseError("delete", entity, err)
	}
	if affected == 0 {
		return errs.NewNotPresentError(entity)
	}
	return nil
}

func (b Bookmarks) findRecipe(recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := b.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("recipe")
		}
		return nil, errs.NewDatabaseError("find", "recipe", err)
	}
	return recipe, nil
}
