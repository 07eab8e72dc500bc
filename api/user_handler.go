package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/rpupo63/platefeed-backend/database"
	"github.com/rpupo63/platefeed-backend/errs"
	"github.com/rpupo63/platefeed-backend/services"
)

type userHandler struct {
	responder  Responder
	logger     zerolog.Logger
	userRepo   *database.UserRepo
	followRepo *database.FollowRepo
	auth       services.Auth
	follows    services.Follows
}

func newUserHandler(userRepo *database.UserRepo, followRepo *database.FollowRepo, auth services.Auth, follows services.Follows) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		userRepo:   userRepo,
		followRepo: followRepo,
		auth:       auth,
		follows:    follows,
	}
}

// UserCollection represents a page of user profiles
type UserCollection struct {
	Users []UserProfile `json:"users"`
	Total int64         `json:"total"`
}

// SubscriptionCollection represents a page of followed authors
type SubscriptionCollection struct {
	Authors []services.AuthorProfile `json:"authors"`
	Total   int64                    `json:"total"`
}

// signup registers a new user
func (h userHandler) signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload services.SignupPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode signup request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		user, err := h.auth.Register(payload)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, newUserProfile(*user, false))
	}
}

// getAllUsers returns a page of user profiles, with is_subscribed set
// relative to the caller when one is authenticated
func (h userHandler) getAllUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := parsePage(r)

		users, err := h.userRepo.FindAll(limit, offset)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "users", err))
			return
		}
		total, err := h.userRepo.Count()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "users", err))
			return
		}

		followed := map[uuid.UUID]bool{}
		if caller, err := ctxGetUser(r.Context()); err == nil {
			ids := make([]uuid.UUID, 0, len(users))
			for _, user := range users {
				ids = append(ids, user.ID)
			}
			followed, err = h.followRepo.AuthorIDsFor(caller.ID, ids)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find", "follows", err))
				return
			}
		}

		profiles := make([]UserProfile, 0, len(users))
		for _, user := range users {
			profiles = append(profiles, newUserProfile(*user, followed[user.ID]))
		}

		h.responder.WriteJSON(w, UserCollection{Users: profiles, Total: total})
	}
}

// getUser returns a single profile by id
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, apiErr := parseUUIDParam(r, "userID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		user, err := h.userRepo.FindByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("user"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}

		subscribed := false
		if caller, err := ctxGetUser(r.Context()); err == nil {
			subscribed, err = h.followRepo.Exists(caller.ID, user.ID)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find", "follow", err))
				return
			}
		}

		h.responder.WriteJSON(w, newUserProfile(*user, subscribed))
	}
}

// getMe returns the authenticated caller's profile
func (h userHandler) getMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("not authenticated"))
			return
		}

		h.responder.WriteJSON(w, newUserProfile(caller, false))
	}
}

type setPasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// setPassword changes the caller's password
func (h userHandler) setPassword() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("not authenticated"))
			return
		}

		var req setPasswordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode set_password request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if err := h.auth.SetPassword(caller, req.CurrentPassword, req.NewPassword); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// getSubscriptions lists the authors the caller follows, with their recipes
func (h userHandler) getSubscriptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("not authenticated"))
			return
		}

		limit, offset := parsePage(r)
		recipesLimit := parseRecipesLimit(r)

		profiles, total, err := h.follows.Subscriptions(caller, recipesLimit, limit, offset)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, SubscriptionCollection{Authors: profiles, Total: total})
	}
}

// subscribe follows an author
func (h userHandler) subscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("not authenticated"))
			return
		}

		authorID, apiErr := parseUUIDParam(r, "userID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		profile, err := h.follows.Follow(caller, authorID, parseRecipesLimit(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, profile)
	}
}

// unsubscribe stops following an author
func (h userHandler) unsubscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("not authenticated"))
			return
		}

		authorID, apiErr := parseUUIDParam(r, "userID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		if err := h.follows.Unfollow(caller, authorID); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// parseRecipesLimit reads the optional recipes_limit query param; zero means no cap
func parseRecipesLimit(r *http.Request) int {
	raw := r.URL.Query().Get("recipes_limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

// parseUUIDParam reads a uuid path parameter
func parseUUIDParam(r *http.Request, name string) (uuid.UUID, *errs.ApiErr) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return uuid.Nil, errs.NewBadRequestError("missing " + name)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid " + name)
	}
	return id, nil
}
