package api

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/platefeed-backend/database"
	"github.com/rpupo63/platefeed-backend/errs"
	"github.com/rpupo63/platefeed-backend/models"
)

type ingredientHandler struct {
	responder      Responder
	logger         zerolog.Logger
	ingredientRepo *database.IngredientRepo
}

func newIngredientHandler(ingredientRepo *database.IngredientRepo) ingredientHandler {
	logger := log.With().Str("handlerName", "ingredientHandler").Logger()

	return ingredientHandler{
		responder:      NewResponder(logger),
		logger:         logger,
		ingredientRepo: ingredientRepo,
	}
}

// getAllIngredients returns the catalog, optionally filtered by the `name`
// query param (case-insensitive substring match)
func (h ingredientHandler) getAllIngredients() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredients, err := h.ingredientRepo.FindAll(r.URL.Query().Get("name"))
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "ingredients", err))
			return
		}
		if ingredients == nil {
			ingredients = []*models.Ingredient{}
		}

		h.responder.WriteJSON(w, ingredients)
	}
}

// getIngredient returns a single catalog entry by id
func (h ingredientHandler) getIngredient() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ingredientID, apiErr := parseUUIDParam(r, "ingredientID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		ingredient, err := h.ingredientRepo.FindByID(ingredientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("ingredient"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find", "ingredient", err))
			return
		}

		h.responder.WriteJSON(w, ingredient)
	}
}
