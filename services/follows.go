package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rpupo63/platefeed-backend/database"
	"github.com/rpupo63/platefeed-backend/errs"
	"github.com/rpupo63/platefeed-backend/models"
)

// AuthorProfile is a followed user's public profile together with their
// recipes (optionally capped) and recipe count.
type AuthorProfile struct {
	ID           uuid.UUID       `json:"id"`
	Email        string          `json:"email"`
	Username     string          `json:"username"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	IsSubscribed bool            `json:"is_subscribed"`
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

// Follows implements the subscription toggle and the subscriptions listing.
type Follows struct {
	userRepo   *database.UserRepo
	followRepo *database.FollowRepo
	recipeRepo *database.RecipeRepo
}

func NewFollows(userRepo *database.UserRepo, followRepo *database.FollowRepo, recipeRepo *database.RecipeRepo) Follows {
	return Follows{userRepo: userRepo, followRepo: followRepo, recipeRepo: recipeRepo}
}

// Follow subscribes user to the author's feed and returns the author's
// profile. recipesLimit caps the embedded recipes; zero means no cap.
func (f Follows) Follow(user models.User, authorID uuid.UUID, recipesLimit int) (*AuthorProfile, error) {
	author, err := f.findAuthor(authorID)
	if err != nil {
		return nil, err
	}
	if user.ID == author.ID {
		return nil, errs.NewSelfFollowError()
	}

	exists, err := f.followRepo.Exists(user.ID, author.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("look up", "follow", err)
	}
	if exists {
		return nil, errs.NewAlreadyExists("follow")
	}

	if err := f.followRepo.Add(&models.Follow{UserID: user.ID, AuthorID: author.ID}); err != nil {
		return nil, errs.NewDatabaseError("create", "follow", err)
	}
	return f.buildProfile(author, true, recipesLimit)
}

// Unfollow removes the subscription; removing one that does not exist is an error.
func (f Follows) Unfollow(user models.User, authorID uuid.UUID) error {
	if _, err := f.findAuthor(authorID); err != nil {
		return err
	}

	affected, err := f.followRepo.Delete(user.ID, authorID)
	if err != nil {
		return errs.NewDatabaseError("delete", "follow", err)
	}
	if affected == 0 {
		return errs.NewNotPresentError("follow")
	}
	return nil
}

// Subscriptions returns a page of the authors the user follows, each with
// their recipes and recipe count, plus the total number of subscriptions.
func (f Follows) Subscriptions(user models.User, recipesLimit, limit, offset int) ([]AuthorProfile, int64, error) {
	authors, err := f.followRepo.FindAuthors(user.ID, limit, offset)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("find", "subscriptions", err)
	}
	total, err := f.followRepo.CountAuthors(user.ID)
	if err != nil {
		return nil, 0, errs.NewDatabaseError("count", "subscriptions", err)
	}

	profiles := make([]AuthorProfile, 0, len(authors))
	for _, author := range authors {
		profile, err := f.buildProfile(author, true, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		profiles = append(profiles, *profile)
	}
	return profiles, total, nil
}

func (f Follows) buildProfile(author *models.User, subscribed bool, recipesLimit int) (*AuthorProfile, error) {
	recipes, err := f.recipeRepo.FindByAuthor(author.ID, recipesLimit)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "author recipes", err)
	}
	count, err := f.recipeRepo.CountByAuthor(author.ID)
	if err != nil {
		return nil, errs.NewDatabaseError("count", "author recipes", err)
	}

	summaries := make([]RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		summaries = append(summaries, *summarize(recipe))
	}
	return &AuthorProfile{
		ID:           author.ID,
		Email:        author.Email,
		Username:     author.Username,
		FirstName:    author.FirstName,
		LastName:     author.LastName,
		IsSubscribed: subscribed,
		Recipes:      summaries,
		RecipesCount: count,
	}, nil
}

func (f Follows) findAuthor(authorID uuid.UUID) (*models.User, error) {
	author, err := f.userRepo.FindByID(authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewNotFound("user")
		}
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	return author, nil
}
