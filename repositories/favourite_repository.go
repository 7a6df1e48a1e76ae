package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"recipe-share/models"
)

type FavouriteRepository interface {
	// Toggle removes the favourite when present and adds it otherwise, then
	// refreshes favourites_count in the same transaction.
	Toggle(ctx context.Context, recipeID, userID uint) (models.FavouriteOutcome, int, error)
	Exists(ctx context.Context, recipeID, userID uint) (bool, error)
	ListRecipes(ctx context.Context, user *models.User) ([]models.Recipe, error)
}

type favouriteRepository struct {
	db *gorm.DB
}

func NewFavouriteRepository(db *gorm.DB) FavouriteRepository {
	return &favouriteRepository{db: db}
}

func (r *favouriteRepository) Toggle(ctx context.Context, recipeID, userID uint) (models.FavouriteOutcome, int, error) {
	var outcome models.FavouriteOutcome
	var count int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).Delete(&models.RecipeFavourite{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			outcome = models.FavouriteRemoved
		} else {
			fav := models.RecipeFavourite{RecipeID: recipeID, UserID: userID}
			if err := tx.Create(&fav).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return models.ErrDuplicateFavourite
				}
				return err
			}
			outcome = models.FavouriteAdded
		}

		var err error
		count, err = RecomputeFavouritesCount(tx, recipeID)
		return err
	})
	if err != nil {
		return "", 0, err
	}
	return outcome, count, nil
}

func (r *favouriteRepository) Exists(ctx context.Context, recipeID, userID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.RecipeFavourite{}).
		Where("recipe_id = ? AND user_id = ?", recipeID, userID).
		Count(&n).Error
	return n > 0, err
}

// ListRecipes returns the user's saved recipes, most recently saved first.
func (r *favouriteRepository) ListRecipes(ctx context.Context, user *models.User) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Joins("JOIN recipe_favourites ON recipe_favourites.recipe_id = recipes.id").
		Where("recipe_favourites.user_id = ?", user.ID).
		Scopes(visibleTo(user)).
		Preload("Author").
		Preload("Tags").
		Order("recipe_favourites.saved_at DESC, recipe_favourites.id DESC").
		Find(&recipes).Error
	return recipes, err
}
