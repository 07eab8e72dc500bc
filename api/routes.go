package api

import (
	"github.com/go-chi/chi/v5"
)

// setupAPIRoutes sets up public reads and authenticated mutations
func setupAPIRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Route("/api", func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		// Public routes; a valid token still personalizes the response
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.maybeAuthenticate)

			r.Post("/auth/token/login", handlers.authHandler.login())
			r.Post("/users", handlers.userHandler.signup())
			r.Get("/users", handlers.userHandler.getAllUsers())
			r.Get("/users/{userID}", handlers.userHandler.getUser())

			r.Get("/tags", handlers.tagHandler.getAllTags())
			r.Get("/tags/{tagID}", handlers.tagHandler.getTag())
			r.Get("/ingredients", handlers.ingredientHandler.getAllIngredients())
			r.Get("/ingredients/{ingredientID}", handlers.ingredientHandler.getIngredient())

			r.Get("/recipes", handlers.recipeHandler.getAllRecipes())
			r.Get("/recipes/{recipeID}", handlers.recipeHandler.getRecipe())
		})

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.authenticate)

			r.Get("/users/me", handlers.userHandler.getMe())
			r.Post("/users/set_password", handlers.userHandler.setPassword())
			r.Get("/users/subscriptions", handlers.userHandler.getSubscriptions())
			r.Post("/users/{userID}/subscribe", handlers.userHandler.subscribe())
			r.Delete("/users/{userID}/subscribe", handlers.userHandler.unsubscribe())

			r.Post("/recipes", handlers.recipeHandler.createRecipe())
			r.Patch("/recipes/{recipeID}", handlers.recipeHandler.updateRecipe())
			r.Delete("/recipes/{recipeID}", handlers.recipeHandler.deleteRecipe())

			r.Post("/recipes/{recipeID}/favorite", handlers.recipeHandler.addFavorite())
			r.Delete("/recipes/{recipeID}/favorite", handlers.recipeHandler.removeFavorite())
			r.Post("/recipes/{recipeID}/shopping_cart", handlers.recipeHandler.addToCart())
			r.Delete("/recipes/{recipeID}/shopping_cart", handlers.recipeHandler.removeFromCart())
			r.Get("/recipes/download_shopping_cart", handlers.recipeHandler.downloadShoppingCart())
		})
	})
}
