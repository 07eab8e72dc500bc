package api

import (
	"github.com/rpupo63/platefeed-backend/database"
	"github.com/rpupo63/platefeed-backend/services"
	"github.com/rpupo63/platefeed-backend/storage"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, auth services.Auth, store storage.Store) *routeHandlers {
	validator := services.NewRecipeValidator(db.TagRepo(), db.IngredientRepo())
	writer := services.NewRecipeWriter(db.RecipeRepo(), db.TagRepo())
	bookmarks := services.NewBookmarks(db.RecipeRepo(), db.FavoriteRepo(), db.ShoppingCartRepo())
	shoppingList := services.NewShoppingList(db.ShoppingCartRepo())
	follows := services.NewFollows(db.UserRepo(), db.FollowRepo(), db.RecipeRepo())

	return &routeHandlers{
		authHandler:       newAuthHandler(auth),
		userHandler:       newUserHandler(db.UserRepo(), db.FollowRepo(), auth, follows),
		tagHandler:        newTagHandler(db.TagRepo()),
		ingredientHandler: newIngredientHandler(db.IngredientRepo()),
		recipeHandler: newRecipeHandler(
			db.RecipeRepo(), db.FavoriteRepo(), db.ShoppingCartRepo(), db.FollowRepo(),
			validator, writer, bookmarks, shoppingList, store,
		),
	}
}
