package repositories

import (
	"math"

	"gorm.io/gorm"

	"recipe-share/models"
)

type RatingStats struct {
	AverageRating float64
	RatingCount   int
}

// RecomputeRatingStats refreshes average_rating and rating_count of one
// recipe from its ratings. It must run on the transaction that changed the
// ratings so the stats commit together with the write. Only the two stats
// columns are touched.
func RecomputeRatingStats(tx *gorm.DB, recipeID uint) (RatingStats, error) {
	var agg struct {
		Total   int64
		Average float64
	}
	err := tx.Model(&models.RecipeRating{}).
		Select("COUNT(*) AS total, COALESCE(AVG(rating), 0) AS average").
		Where("recipe_id = ?", recipeID).
		Scan(&agg).Error
	if err != nil {
		return RatingStats{}, err
	}

	stats := RatingStats{RatingCount: int(agg.Total)}
	if agg.Total > 0 {
		stats.AverageRating = math.Round(agg.Average*10) / 10
	}

	err = tx.Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		UpdateColumns(map[string]interface{}{
			"average_rating": stats.AverageRating,
			"rating_count":   stats.RatingCount,
		}).Error
	return stats, err
}

// RecomputeFavouritesCount is the favourites counterpart of
// RecomputeRatingStats.
func RecomputeFavouritesCount(tx *gorm.DB, recipeID uint) (int, error) {
	var total int64
	if err := tx.Model(&models.RecipeFavourite{}).Where("recipe_id = ?", recipeID).Count(&total).Error; err != nil {
		return 0, err
	}

	err := tx.Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		UpdateColumn("favourites_count", total).Error
	return int(total), err
}
