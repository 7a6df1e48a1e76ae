package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recipe-share/models"
	"recipe-share/repositories"
	"recipe-share/validation"
)

type RecipeService interface {
	CreateRecipe(ctx context.Context, author *models.User, req models.RecipeRequest, info *models.RequestInfo) (*models.Recipe, error)
	UpdateRecipe(ctx context.Context, user *models.User, id uint, req models.RecipeRequest, info *models.RequestInfo) (*models.Recipe, error)
	DeleteRecipe(ctx context.Context, user *models.User, id uint, info *models.RequestInfo) error
	// GetRecipe returns the detail view. A nil viewer is anonymous.
	GetRecipe(ctx context.Context, viewer *models.User, id uint) (*models.RecipeDetail, error)
	SearchRecipes(ctx context.Context, viewer *models.User, params models.RecipeSearchParams) (*models.RecipeSearchResult, error)
}

type recipeService struct {
	recipeRepo    repositories.RecipeRepository
	ratingRepo    repositories.RatingRepository
	favouriteRepo repositories.FavouriteRepository
	tagRepo       repositories.TagRepository
	audit         AuditService
}

func NewRecipeService(
	recipeRepo repositories.RecipeRepository,
	ratingRepo repositories.RatingRepository,
	favouriteRepo repositories.FavouriteRepository,
	tagRepo repositories.TagRepository,
	audit AuditService,
) RecipeService {
	return &recipeService{
		recipeRepo:    recipeRepo,
		ratingRepo:    ratingRepo,
		favouriteRepo: favouriteRepo,
		tagRepo:       tagRepo,
		audit:         audit,
	}
}

// visibleRecipe loads a recipe and hides the ones viewer may not see.
func visibleRecipe(ctx context.Context, repo repositories.RecipeRepository, viewer *models.User, id uint) (*models.Recipe, error) {
	recipe, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanViewRecipe(viewer, recipe) {
		return nil, models.ErrRecipeNotFound
	}
	return recipe, nil
}

func applyRecipeRequest(recipe *models.Recipe, req models.RecipeRequest) {
	recipe.Name = strings.TrimSpace(req.Name)
	recipe.Description = strings.TrimSpace(req.Description)
	recipe.Serves = req.Serves
	recipe.Difficulty = req.Difficulty
	recipe.PrepTimeMinutes = req.PrepTimeMinutes
	recipe.CookTimeMinutes = req.CookTimeMinutes
	recipe.Cuisine = strings.TrimSpace(req.Cuisine)
	recipe.Visibility = req.Visibility

	// Blank rows are dropped and the rest numbered from 1.
	recipe.Ingredients = make([]models.RecipeIngredient, 0, len(req.Ingredients))
	for _, text := range req.Ingredients {
		if text = strings.TrimSpace(text); text != "" {
			recipe.Ingredients = append(recipe.Ingredients, models.RecipeIngredient{Text: text, Position: len(recipe.Ingredients) + 1})
		}
	}
	recipe.Steps = make([]models.RecipeStep, 0, len(req.Steps))
	for _, text := range req.Steps {
		if text = strings.TrimSpace(text); text != "" {
			recipe.Steps = append(recipe.Steps, models.RecipeStep{Text: text, Position: len(recipe.Steps) + 1})
		}
	}
}

func (s *recipeService) CreateRecipe(ctx context.Context, author *models.User, req models.RecipeRequest, info *models.RequestInfo) (*models.Recipe, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	recipe := &models.Recipe{AuthorID: author.ID}
	applyRecipeRequest(recipe, req)
	if err := s.recipeRepo.Create(ctx, recipe, req.Tags); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, models.AuditEntry{
		Actor:       author,
		ActionType:  models.ActionRecipeCreated,
		Description: fmt.Sprintf("Recipe created: %s", recipe.Name),
		TargetType:  models.TargetRecipe,
		TargetID:    &recipe.ID,
		Metadata: map[string]interface{}{
			"name":       recipe.Name,
			"visibility": string(recipe.Visibility),
		},
		Request: info,
	})

	return s.recipeRepo.GetDetail(ctx, recipe.ID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, user *models.User, id uint, req models.RecipeRequest, info *models.RequestInfo) (*models.Recipe, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	recipe, err := visibleRecipe(ctx, s.recipeRepo, user, id)
	if err != nil {
		return nil, err
	}
	if !models.CanEditRecipe(user, recipe) {
		return nil, models.ErrForbidden
	}

	applyRecipeRequest(recipe, req)
	if err := s.recipeRepo.Update(ctx, recipe, req.Tags); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, models.AuditEntry{
		Actor:       user,
		ActionType:  models.ActionRecipeUpdated,
		Description: fmt.Sprintf("Recipe updated: %s", recipe.Name),
		TargetType:  models.TargetRecipe,
		TargetID:    &recipe.ID,
		Request:     info,
	})

	return s.recipeRepo.GetDetail(ctx, recipe.ID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, user *models.User, id uint, info *models.RequestInfo) error {
	recipe, err := visibleRecipe(ctx, s.recipeRepo, user, id)
	if err != nil {
		return err
	}
	if !models.CanDeleteRecipe(user, recipe) {
		return models.ErrForbidden
	}

	if err := s.recipeRepo.Delete(ctx, recipe.ID); err != nil {
		return err
	}

	metadata := map[string]interface{}{
		"name":      recipe.Name,
		"author_id": recipe.AuthorID,
	}
	if recipe.AuthorID != user.ID {
		if models.IsAdmin(user) {
			metadata["moderation"] = string(models.ActionAdmin)
		} else {
			metadata["moderation"] = string(models.ActionModerator)
		}
	}
	s.audit.Log(ctx, models.AuditEntry{
		Actor:       user,
		ActionType:  models.ActionRecipeDeleted,
		Description: fmt.Sprintf("Recipe deleted: %s", recipe.Name),
		TargetType:  models.TargetRecipe,
		TargetID:    &recipe.ID,
		Metadata:    metadata,
		Request:     info,
	})
	return nil
}

func (s *recipeService) GetRecipe(ctx context.Context, viewer *models.User, id uint) (*models.RecipeDetail, error) {
	recipe, err := s.recipeRepo.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if !models.CanViewRecipe(viewer, recipe) {
		return nil, models.ErrRecipeNotFound
	}

	ratings, err := s.ratingRepo.ListByRecipe(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &models.RecipeDetail{
		Recipe:    *recipe,
		Ratings:   ratings,
		CanEdit:   models.CanEditRecipe(viewer, recipe),
		CanDelete: models.CanDeleteRecipe(viewer, recipe),
	}
	if viewer == nil {
		return detail, nil
	}

	own, err := s.ratingRepo.GetByRecipeAndUser(ctx, id, viewer.ID)
	switch {
	case err == nil:
		detail.UserRating = own
	case !errors.Is(err, models.ErrRatingNotFound):
		return nil, err
	}

	detail.Favourited, err = s.favouriteRepo.Exists(ctx, id, viewer.ID)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (s *recipeService) SearchRecipes(ctx context.Context, viewer *models.User, params models.RecipeSearchParams) (*models.RecipeSearchResult, error) {
	recipes, err := s.recipeRepo.Search(ctx, viewer, params)
	if err != nil {
		return nil, err
	}
	tags, err := s.tagRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if params.Sort == "" {
		params.Sort = models.SortNewest
	}
	return &models.RecipeSearchResult{
		Recipes:      recipes,
		Count:        len(recipes),
		Filters:      params,
		Difficulties: models.Difficulties,
		Visibilities: models.Visibilities,
		SortOptions:  models.RecipeSortOptions,
		AllTags:      tags,
	}, nil
}
