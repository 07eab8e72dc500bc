package api

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/rpupo63/platefeed-backend/database"
	"github.com/rpupo63/platefeed-backend/models"
	"github.com/rpupo63/platefeed-backend/storage"
)

// newTestRouter wires the full API against an in-memory database and a
// throwaway image store.
func newTestRouter(t *testing.T) (*chi.Mux, *gorm.DB) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(gormDB))

	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	router := newRouter(database.New(gormDB), store, withConfig(map[string]string{
		"TOKEN_SECRET": "test-secret",
	}))
	return router, gormDB
}

func doJSON(t *testing.T, router http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// registerAndLogin signs a user up through the API and returns their token.
func registerAndLogin(t *testing.T, router http.Handler, username string) string {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/users", "", map[string]string{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "Test",
		"last_name":  "User",
		"password":   "hunter2!",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodPost, "/api/auth/token/login", "", map[string]string{
		"email":    username + "@example.com",
		"password": "hunter2!",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[map[string]string](t, rec)["auth_token"]
}

func pngDataURI() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("not a real png"))
}

func recipeBody(name string, tags []models.Tag, ingredients []map[string]any) map[string]any {
	tagIDs := make([]string, 0, len(tags))
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID.String())
	}
	return map[string]any{
		"name":         name,
		"text":         "mix and cook",
		"image":        pngDataURI(),
		"cooking_time": 25,
		"ingredients":  ingredients,
		"tags":         tagIDs,
	}
}

func TestRecipeLifecycle(t *testing.T) {
	router, db := newTestRouter(t)
	require.NoError(t, database.Seed(db))

	var tags []models.Tag
	require.NoError(t, db.Order("slug").Find(&tags).Error)
	var flour models.Ingredient
	require.NoError(t, db.First(&flour, "name = ?", "Flour").Error)

	token := registerAndLogin(t, router, "alice")

	t.Run("anonymous callers cannot create recipes", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/recipes", "",
			recipeBody("Bread", tags[:1], []map[string]any{
				{"id": flour.ID.String(), "amount": 2},
			}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	var created RecipeView
	t.Run("create returns the stored recipe", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/recipes", token,
			recipeBody("Bread", tags[:1], []map[string]any{
				{"id": flour.ID.String(), "amount": 2},
			}))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		created = decode[RecipeView](t, rec)
		assert.Equal(t, "Bread", created.Name)
		assert.Equal(t, "alice", created.Author.Username)
		require.Len(t, created.Ingredients, 1)
		assert.Equal(t, "Flour", created.Ingredients[0].Name)
		assert.NotContains(t, created.Image, "base64", "image must be stored, not echoed")
	})

	t.Run("validation failures list every broken rule", func(t *testing.T) {
		body := recipeBody("Broken", nil, nil)
		body["cooking_time"] = 0
		rec := doJSON(t, router, http.MethodPost, "/api/recipes", token, body)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		resp := decode[map[string]any](t, rec)
		assert.Equal(t, "validation_error", resp["status"])
		assert.Len(t, resp["errors"], 3)
	})

	t.Run("the list is public and reports the total", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/recipes", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		page := decode[RecipeCollection](t, rec)
		assert.EqualValues(t, 1, page.Total)
		require.Len(t, page.Recipes, 1)
		assert.False(t, page.Recipes[0].IsFavorited)
	})

	t.Run("favoriting flags the recipe for the caller only", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/recipes/%s/favorite", created.ID), token, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		// favoriting twice conflicts
		rec = doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/recipes/%s/favorite", created.ID), token, nil)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/recipes/%s", created.ID), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, decode[RecipeView](t, rec).IsFavorited)

		rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/recipes/%s", created.ID), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.False(t, decode[RecipeView](t, rec).IsFavorited)
	})

	t.Run("only the author may update", func(t *testing.T) {
		other := registerAndLogin(t, router, "bob")
		body := recipeBody("Stolen bread", tags[:1], []map[string]any{
			{"id": flour.ID.String(), "amount": 2},
		})
		rec := doJSON(t, router, http.MethodPatch,
			fmt.Sprintf("/api/recipes/%s", created.ID), other, body)
		assert.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	})

	t.Run("the shopping list sums cart ingredients", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/recipes/%s/shopping_cart", created.ID), token, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = doJSON(t, router, http.MethodGet, "/api/recipes/download_shopping_cart", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
		assert.Equal(t, "Flour - 2g", rec.Body.String())
	})

	t.Run("delete removes the recipe", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodDelete,
			fmt.Sprintf("/api/recipes/%s", created.ID), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/recipes/%s", created.ID), "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestUserRoutes(t *testing.T) {
	router, db := newTestRouter(t)

	token := registerAndLogin(t, router, "alice")

	t.Run("the reserved username me cannot sign up", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/users", "", map[string]string{
			"email":      "me@example.com",
			"username":   "me",
			"first_name": "Test",
			"last_name":  "User",
			"password":   "hunter2!",
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("me resolves to the caller, not a profile lookup", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodGet, "/api/users/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "alice", decode[UserProfile](t, rec).Username)
	})

	t.Run("subscribe and list subscriptions", func(t *testing.T) {
		registerAndLogin(t, router, "bob")
		var bob models.User
		require.NoError(t, db.First(&bob, "username = ?", "bob").Error)

		rec := doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/users/%s/subscribe", bob.ID), token, nil)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		rec = doJSON(t, router, http.MethodGet, "/api/users/subscriptions", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		page := decode[SubscriptionCollection](t, rec)
		assert.EqualValues(t, 1, page.Total)
		require.Len(t, page.Authors, 1)
		assert.Equal(t, "bob", page.Authors[0].Username)

		// self-follow is rejected
		var alice models.User
		require.NoError(t, db.First(&alice, "username = ?", "alice").Error)
		rec = doJSON(t, router, http.MethodPost,
			fmt.Sprintf("/api/users/%s/subscribe", alice.ID), token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doJSON(t, router, http.MethodDelete,
			fmt.Sprintf("/api/users/%s/subscribe", bob.ID), token, nil)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("tags and ingredients are public", func(t *testing.T) {
		require.NoError(t, database.Seed(db))

		rec := doJSON(t, router, http.MethodGet, "/api/tags", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEqual(t, "null", rec.Body.String())

		rec = doJSON(t, router, http.MethodGet, "/api/ingredients?name=flo", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var ingredients []models.Ingredient
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ingredients))
		require.Len(t, ingredients, 1)
		assert.Equal(t, "Flour", ingredients[0].Name)
	})
}
