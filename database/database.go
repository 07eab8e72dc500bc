package database

import (
	"gorm.io/gorm"

	"github.com/rpupo63/platefeed-backend/models"
)

type Database struct {
	userRepo         *UserRepo
	tagRepo          *TagRepo
	ingredientRepo   *IngredientRepo
	recipeRepo       *RecipeRepo
	followRepo       *FollowRepo
	favoriteRepo     *FavoriteRepo
	shoppingCartRepo *ShoppingCartRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:         NewUserRepo(db),
		tagRepo:          NewTagRepo(db),
		ingredientRepo:   NewIngredientRepo(db),
		recipeRepo:       NewRecipeRepo(db),
		followRepo:       NewFollowRepo(db),
		favoriteRepo:     NewFavoriteRepo(db),
		shoppingCartRepo: NewShoppingCartRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) IngredientRepo() *IngredientRepo {
	return d.ingredientRepo
}

func (d Database) RecipeRepo() *RecipeRepo {
	return d.recipeRepo
}

func (d Database) FollowRepo() *FollowRepo {
	return d.followRepo
}

func (d Database) FavoriteRepo() *FavoriteRepo {
	return d.favoriteRepo
}

func (d Database) ShoppingCartRepo() *ShoppingCartRepo {
	return d.shoppingCartRepo
}

// Migrate creates or updates every table the application owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Follow{},
		&models.Favorite{},
		&models.ShoppingCartItem{},
	)
}
