package services

import (
	"context"

	"recipe-share/metrics"
	"recipe-share/models"
	"recipe-share/repositories"
)

type FavouriteService interface {
	ToggleFavourite(ctx context.Context, user *models.User, recipeID uint) (*models.FavouriteResult, error)
	ListFavourites(ctx context.Context, user *models.User) ([]models.Recipe, error)
}

type favouriteService struct {
	recipeRepo    repositories.RecipeRepository
	favouriteRepo repositories.FavouriteRepository
}

func NewFavouriteService(recipeRepo repositories.RecipeRepository, favouriteRepo repositories.FavouriteRepository) FavouriteService {
	return &favouriteService{recipeRepo: recipeRepo, favouriteRepo: favouriteRepo}
}

func (s *favouriteService) ToggleFavourite(ctx context.Context, user *models.User, recipeID uint) (*models.FavouriteResult, error) {
	if _, err := visibleRecipe(ctx, s.recipeRepo, user, recipeID); err != nil {
		return nil, err
	}

	outcome, count, err := s.favouriteRepo.Toggle(ctx, recipeID, user.ID)
	if err != nil {
		return nil, err
	}
	metrics.RecordFavourite(string(outcome))

	return &models.FavouriteResult{
		Outcome:         outcome,
		Favourited:      outcome == models.FavouriteAdded,
		FavouritesCount: count,
	}, nil
}

func (s *favouriteService) ListFavourites(ctx context.Context, user *models.User) ([]models.Recipe, error) {
	return s.favouriteRepo.ListRecipes(ctx, user)
}
