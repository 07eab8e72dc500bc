package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/platefeed-backend/database"
	"github.com/rpupo63/platefeed-backend/errs"
	"github.com/rpupo63/platefeed-backend/models"
	"github.com/rpupo63/platefeed-backend/services"
	"github.com/rpupo63/platefeed-backend/storage"
)

// shoppingListFilename names the plain-text attachment served to callers.
const shoppingListFilename = "shopping_list.txt"

type recipeHandler struct {
	responder    Responder
	logger       zerolog.Logger
	recipeRepo   *database.RecipeRepo
	favoriteRepo *database.FavoriteRepo
	cartRepo     *database.ShoppingCartRepo
	followRepo   *database.FollowRepo
	validator    services.RecipeValidator
	writer       services.RecipeWriter
	bookmarks    services.Bookmarks
	shoppingList services.ShoppingList
	store        storage.Store
}

func newRecipeHandler(
	recipeRepo *database.RecipeRepo,
	favoriteRepo *database.FavoriteRepo,
	cartRepo *database.ShoppingCartRepo,
	followRepo *database.FollowRepo,
	validator services.RecipeValidator,
	writer services.RecipeWriter,
	bookmarks services.Bookmarks,
	shoppingList services.ShoppingList,
	store storage.Store,
) recipeHandler {
	logger := log.With().Str("handlerName", "recipeHandler").Logger()

	return recipeHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		recipeRepo:   recipeRepo,
		favoriteRepo: favoriteRepo,
		cartRepo:     cartRepo,
		followRepo:   followRepo,
		validator:    validator,
		writer:       writer,
		bookmarks:    bookmarks,
		shoppingList: shoppingList,
		store:        store,
	}
}

// RecipeCollection represents a page of recipes
type RecipeCollection struct {
	Recipes []RecipeView `json:"recipes"`
	Total   int64        `json:"total"`
}

// recipeRequest is the wire shape of create/update payloads. Image carries a
// base64 data URI which is decoded and stored before validation.
type recipeRequest struct {
	Name        string                      `json:"name"`
	Text        string                      `json:"text"`
	Image       string                      `json:"image"`
	CookingTime int                         `json:"cooking_time"`
	Ingredients []services.IngredientAmount `json:"ingredients"`
	TagIDs      []uuid.UUID                 `json:"tags"`
}

// getAllRecipes returns the filtered recipe page with caller annotations
func (h recipeHandler) getAllRecipes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := database.RecipeFilter{}
		filter.Limit, filter.Offset = parsePage(r)

		if raw := r.URL.Query().Get("author"); raw != "" {
			authorID, err := uuid.Parse(raw)
			if err != nil {
				h.responder.WriteError(w, errs.NewBadRequestError("invalid author"))
				return
			}
			filter.AuthorID = &authorID
		}
		if slugs := r.URL.Query()["tags"]; len(slugs) > 0 {
			filter.TagSlugs = slugs
		}

		caller, callerErr := ctxGetUser(r.Context())
		if callerErr == nil {
			if isTruthy(r.URL.Query().Get("is_favorited")) {
				filter.FavoritedBy = &caller.ID
			}
			if isTruthy(r.URL.Query().Get("is_in_shopping_cart")) {
				filter.InCartOf = &caller.ID
			}
		}

		recipes, total, err := h.recipeRepo.FindAll(filter)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "recipes", err))
			return
		}

		views, err := h.renderRecipes(r, recipes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, RecipeCollection{Recipes: views, Total: total})
	}
}

// getRecipe returns a single recipe with caller annotations
func (h recipeHandler) getRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipe, apiErr := h.findRecipe(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		views, err := h.renderRecipes(r, []*models.Recipe{recipe})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, views[0])
	}
}

// createRecipe validates and persists a new recipe owned by the caller
func (h recipeHandler) createRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("not authenticated"))
			return
		}

		var req recipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode recipe request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Name == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("name is required"))
			return
		}
		if req.Text == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("text is required"))
			return
		}
		if req.Image == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("image is required"))
			return
		}

		payload, err := h.buildPayload(r, req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.validator.Validate(*payload); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		recipe, err := h.writer.Create(caller, *payload)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		views, err := h.renderRecipes(r, []*models.Recipe{recipe})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, views[0])
	}
}

// updateRecipe validates and rewrites an existing recipe; author only
func (h recipeHandler) updateRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("not authenticated"))
			return
		}

		recipe, apiErr := h.findRecipe(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var req recipeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode recipe request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if req.Name == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("name is required"))
			return
		}
		if req.Text == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("text is required"))
			return
		}

		payload, err := h.buildPayload(r, req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.validator.Validate(*payload); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		updated, err := h.writer.Update(caller, recipe, *payload)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		views, err := h.renderRecipes(r, []*models.Recipe{updated})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, views[0])
	}
}

// deleteRecipe removes a recipe; author only
func (h recipeHandler) deleteRecipe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("not authenticated"))
			return
		}

		recipe, apiErr := h.findRecipe(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if caller.ID != recipe.AuthorID && !caller.IsAdmin() {
			h.responder.WriteError(w, errs.NewForbiddenError("only the author may delete this recipe"))
			return
		}

		if err := h.recipeRepo.Delete(recipe.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "recipe", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "recipe deleted successfully",
		})
	}
}

// addFavorite bookmarks a recipe for the caller
func (h recipeHandler) addFavorite() http.HandlerFunc {
	return h.addBookmark(h.bookmarks.AddFavorite)
}

// removeFavorite removes the caller's bookmark
func (h recipeHandler) removeFavorite() http.HandlerFunc {
	return h.removeBookmark(h.bookmarks.RemoveFavorite)
}

// addToCart puts a recipe in the caller's shopping cart
func (h recipeHandler) addToCart() http.HandlerFunc {
	return h.addBookmark(h.bookmarks.AddToCart)
}

// removeFromCart takes a recipe out of the caller's shopping cart
func (h recipeHandler) removeFromCart() http.HandlerFunc {
	return h.removeBookmark(h.bookmarks.RemoveFromCart)
}

func (h recipeHandler) addBookmark(add func(userID, recipeID uuid.UUID) (*services.RecipeSummary, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("not authenticated"))
			return
		}

		recipeID, apiErr := parseUUIDParam(r, "recipeID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		summary, err := add(caller.ID, recipeID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, summary)
	}
}

func (h recipeHandler) removeBookmark(remove func(userID, recipeID uuid.UUID) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("not authenticated"))
			return
		}

		recipeID, apiErr := parseUUIDParam(r, "recipeID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := remove(caller.ID, recipeID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// downloadShoppingCart streams the caller's consolidated shopping list as a
// plain-text attachment
func (h recipeHandler) downloadShoppingCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("not authenticated"))
			return
		}

		lines, err := h.shoppingList.Lines(caller.ID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", shoppingListFilename))
		if _, err := w.Write([]byte(strings.Join(lines, "\n"))); err != nil {
			h.logger.Error().Err(err).Msg("error writing shopping list")
		}
	}
}

// buildPayload converts the wire request into a validator payload, decoding
// and storing the image when one was submitted.
func (h recipeHandler) buildPayload(r *http.Request, req recipeRequest) (*services.RecipePayload, error) {
	payload := &services.RecipePayload{
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Ingredients: req.Ingredients,
		TagIDs:      req.TagIDs,
	}

	if req.Image != "" {
		path, err := h.storeImage(r, req.Image)
		if err != nil {
			return nil, err
		}
		payload.Image = path
	}
	return payload, nil
}

// storeImage decodes a base64 data URI and writes it through the image store
func (h recipeHandler) storeImage(r *http.Request, encoded string) (string, error) {
	ext := "png"
	if strings.HasPrefix(encoded, "data:") {
		rest := strings.TrimPrefix(encoded, "data:")
		mediaType, data, found := strings.Cut(rest, ";base64,")
		if !found {
			return "", errs.NewBadRequestError("image must be base64-encoded")
		}
		if slash := strings.Index(mediaType, "/"); slash >= 0 {
			ext = mediaType[slash+1:]
		}
		encoded = data
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errs.NewBadRequestError("image is not valid base64")
	}

	name := fmt.Sprintf("%s.%s", uuid.New(), ext)
	path, err := h.store.Save(r.Context(), name, raw)
	if err != nil {
		return "", err
	}
	return path, nil
}

// renderRecipes builds caller-annotated views for a batch of recipes
func (h recipeHandler) renderRecipes(r *http.Request, recipes []*models.Recipe) ([]RecipeView, error) {
	favorited := map[uuid.UUID]bool{}
	inCart := map[uuid.UUID]bool{}
	followed := map[uuid.UUID]bool{}

	if caller, err := ctxGetUser(r.Context()); err == nil {
		recipeIDs := make([]uuid.UUID, 0, len(recipes))
		authorIDs := make([]uuid.UUID, 0, len(recipes))
		for _, recipe := range recipes {
			recipeIDs = append(recipeIDs, recipe.ID)
			authorIDs = append(authorIDs, recipe.AuthorID)
		}

		var err error
		if favorited, err = h.favoriteRepo.RecipeIDsFor(caller.ID, recipeIDs); err != nil {
			return nil, wrapDatabaseError("find", "favorites", err)
		}
		if inCart, err = h.cartRepo.RecipeIDsFor(caller.ID, recipeIDs); err != nil {
			return nil, wrapDatabaseError("find", "shopping cart items", err)
		}
		if followed, err = h.followRepo.AuthorIDsFor(caller.ID, authorIDs); err != nil {
			return nil, wrapDatabaseError("find", "follows", err)
		}
	}

	views := make([]RecipeView, 0, len(recipes))
	for _, recipe := range recipes {
		views = append(views, newRecipeView(
			recipe,
			followed[recipe.AuthorID],
			favorited[recipe.ID],
			inCart[recipe.ID],
		))
	}
	return views, nil
}

func (h recipeHandler) findRecipe(r *http.Request) (*models.Recipe, *errs.ApiErr) {
	recipeID, apiErr := parseUUIDParam(r, "recipeID")
	if apiErr != nil {
		return nil, apiErr
	}

	recipe, err := h.recipeRepo.FindByID(recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("recipe")
		}
		return nil, errs.NewDatabaseError("find", "recipe", err)
	}
	return recipe, nil
}

// isTruthy accepts the boolean spellings the frontend sends
func isTruthy(value string) bool {
	switch strings.ToLower(value) {
	case "1", "true", "yes":
		return true
	}
	return false
}
