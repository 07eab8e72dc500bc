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

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	tagRepo   *database.TagRepo
}

func newTagHandler(tagRepo *database.TagRepo) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		tagRepo:   tagRepo,
	}
}

// getAllTags returns every tag, unpaginated
func (h tagHandler) getAllTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tagRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "tags", err))
			return
		}
		if tags == nil {
			tags = []*models.Tag{}
		}

		h.responder.WriteJSON(w, tags)
	}
}

// getTag returns a single tag by id
func (h tagHandler) getTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagID, apiErr := parseUUIDParam(r, "tagID")
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		tag, err := h.tagRepo.FindByID(tagID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFound("tag"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("find", "tag", err))
			return
		}

		h.responder.WriteJSON(w, tag)
	}
}
