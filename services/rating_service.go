package services

import (
	"context"
	"strings"

	"recipe-share/logging"
	"recipe-share/metrics"
	"recipe-share/models"
	"recipe-share/repositories"
	"recipe-share/validation"
)

type RatingService interface {
	RateRecipe(ctx context.Context, user *models.User, recipeID uint, req models.RateRecipeRequest) (*models.RateResult, error)
	// DeleteRating removes raterID's rating; zero means the caller's own.
	DeleteRating(ctx context.Context, user *models.User, recipeID, raterID uint) (*models.RatingSummary, error)
	ListRatings(ctx context.Context, viewer *models.User, recipeID uint) ([]models.RecipeRating, error)
}

type ratingService struct {
	recipeRepo repositories.RecipeRepository
	ratingRepo repositories.RatingRepository
}

func NewRatingService(recipeRepo repositories.RecipeRepository, ratingRepo repositories.RatingRepository) RatingService {
	return &ratingService{recipeRepo: recipeRepo, ratingRepo: ratingRepo}
}

func (s *ratingService) RateRecipe(ctx context.Context, user *models.User, recipeID uint, req models.RateRecipeRequest) (*models.RateResult, error) {
	req.Comment = strings.TrimSpace(req.Comment)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if _, err := visibleRecipe(ctx, s.recipeRepo, user, recipeID); err != nil {
		return nil, err
	}

	rating := &models.RecipeRating{
		RecipeID: recipeID,
		UserID:   user.ID,
		Rating:   req.Rating,
		Comment:  req.Comment,
	}
	outcome, stats, err := s.ratingRepo.Upsert(ctx, rating)
	if err != nil {
		return nil, err
	}

	metrics.RecordRating(string(outcome))
	logging.Ctx(ctx).Debug().
		Uint("recipe_id", recipeID).
		Uint("user_id", user.ID).
		Str("outcome", string(outcome)).
		Msg("rating saved")

	return &models.RateResult{
		Rating:  *rating,
		Outcome: outcome,
		RatingSummary: models.RatingSummary{
			AverageRating: stats.AverageRating,
			RatingCount:   stats.RatingCount,
		},
	}, nil
}

func (s *ratingService) DeleteRating(ctx context.Context, user *models.User, recipeID, raterID uint) (*models.RatingSummary, error) {
	if raterID == 0 {
		raterID = user.ID
	}
	if raterID != user.ID && !models.IsPrivileged(user) {
		return nil, models.ErrForbidden
	}
	if _, err := visibleRecipe(ctx, s.recipeRepo, user, recipeID); err != nil {
		return nil, err
	}

	stats, err := s.ratingRepo.Delete(ctx, recipeID, raterID)
	if err != nil {
		return nil, err
	}
	metrics.RecordRating("deleted")

	return &models.RatingSummary{AverageRating: stats.AverageRating, RatingCount: stats.RatingCount}, nil
}

func (s *ratingService) ListRatings(ctx context.Context, viewer *models.User, recipeID uint) ([]models.RecipeRating, error) {
	if _, err := visibleRecipe(ctx, s.recipeRepo, viewer, recipeID); err != nil {
		return nil, err
	}
	return s.ratingRepo.ListByRecipe(ctx, recipeID)
}
