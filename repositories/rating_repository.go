package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"recipe-share/models"
)

type RatingRepository interface {
	// Upsert creates or updates the (recipe, user) rating and refreshes the
	// recipe's stats in the same transaction.
	Upsert(ctx context.Context, rating *models.RecipeRating) (models.RateOutcome, RatingStats, error)
	Delete(ctx context.Context, recipeID, userID uint) (RatingStats, error)
	GetByRecipeAndUser(ctx context.Context, recipeID, userID uint) (*models.RecipeRating, error)
	ListByRecipe(ctx context.Context, recipeID uint) ([]models.RecipeRating, error)
	ListByUser(ctx context.Context, userID uint, viewer *models.User) ([]models.RecipeRating, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Upsert(ctx context.Context, rating *models.RecipeRating) (models.RateOutcome, RatingStats, error) {
	var outcome models.RateOutcome
	var stats RatingStats

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.RecipeRating
		err := tx.Where("recipe_id = ? AND user_id = ?", rating.RecipeID, rating.UserID).First(&existing).Error
		switch {
		case err == nil:
			existing.Rating = rating.Rating
			existing.Comment = rating.Comment
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			*rating = existing
			outcome = models.RatingUpdated
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := tx.Create(rating).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return models.ErrDuplicateRating
				}
				return err
			}
			outcome = models.RatingCreated
		default:
			return err
		}

		stats, err = RecomputeRatingStats(tx, rating.RecipeID)
		return err
	})
	if err != nil {
		return "", RatingStats{}, err
	}
	return outcome, stats, nil
}

func (r *ratingRepository) Delete(ctx context.Context, recipeID, userID uint) (RatingStats, error) {
	var stats RatingStats
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("recipe_id = ? AND user_id = ?", recipeID, userID).Delete(&models.RecipeRating{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrRatingNotFound
		}

		var err error
		stats, err = RecomputeRatingStats(tx, recipeID)
		return err
	})
	return stats, err
}

func (r *ratingRepository) GetByRecipeAndUser(ctx context.Context, recipeID, userID uint) (*models.RecipeRating, error) {
	var rating models.RecipeRating
	err := r.db.WithContext(ctx).Where("recipe_id = ? AND user_id = ?", recipeID, userID).First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrRatingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *ratingRepository) ListByRecipe(ctx context.Context, recipeID uint) ([]models.RecipeRating, error) {
	var ratings []models.RecipeRating
	err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&ratings).Error
	return ratings, err
}

// ListByUser returns the ratings a user gave, limited to recipes viewer can see.
func (r *ratingRepository) ListByUser(ctx context.Context, userID uint, viewer *models.User) ([]models.RecipeRating, error) {
	db := r.db.WithContext(ctx)
	visible := db.Model(&models.Recipe{}).Select("recipes.id").Scopes(visibleTo(viewer))

	var ratings []models.RecipeRating
	err := db.
		Where("user_id = ? AND recipe_id IN (?)", userID, visible).
		Preload("Recipe").
		Order("created_at DESC, id DESC").
		Find(&ratings).Error
	return ratings, err
}
