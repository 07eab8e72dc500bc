package api

import (
	"context"
	"errors"

	"github.com/rpupo63/platefeed-backend/models"
)

type keyType string

const userKey keyType = "user"

// ctxWithUser adds the authenticated user to the context
func ctxWithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// ctxGetUser retrieves the authenticated user from the context
func ctxGetUser(ctx context.Context) (models.User, error) {
	ctxValue := ctx.Value(userKey)
	if ctxValue == nil {
		return models.User{}, errors.New("no user in context")
	}
	user, ok := ctxValue.(models.User)
	if !ok {
		return models.User{}, errors.New("context value is not of type `models.User`")
	}
	return user, nil
}
