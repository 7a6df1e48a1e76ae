package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"recipe-share/models"
)

type RecipeRepository interface {
	Create(ctx context.Context, recipe *models.Recipe, tagNames []string) error
	Update(ctx context.Context, recipe *models.Recipe, tagNames []string) error
	GetByID(ctx context.Context, id uint) (*models.Recipe, error)
	GetDetail(ctx context.Context, id uint) (*models.Recipe, error)
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, viewer *models.User, params models.RecipeSearchParams) ([]models.Recipe, error)
	ListByAuthor(ctx context.Context, authorID uint, viewer *models.User) ([]models.Recipe, error)
}

type recipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// Columns written by recipe edits. Stats columns belong to the recompute
// functions and are never written from here.
var recipeEditableColumns = []string{
	"name", "description", "serves", "difficulty",
	"prep_time_minutes", "cook_time_minutes", "total_time_minutes",
	"cuisine", "visibility", "updated_at",
}

var recipeSortClauses = map[string]string{
	models.SortNewest:        "recipes.created_at DESC, recipes.id DESC",
	models.SortOldest:        "recipes.created_at ASC, recipes.id ASC",
	models.SortNameAsc:       "recipes.name ASC, recipes.id ASC",
	models.SortNameDesc:      "recipes.name DESC, recipes.id DESC",
	models.SortRatingDesc:    "recipes.average_rating DESC, recipes.id DESC",
	models.SortRatingAsc:     "recipes.average_rating ASC, recipes.id ASC",
	models.SortTotalTimeAsc:  "recipes.total_time_minutes ASC, recipes.id ASC",
	models.SortTotalTimeDesc: "recipes.total_time_minutes DESC, recipes.id DESC",
}

func (r *recipeRepository) Create(ctx context.Context, recipe *models.Recipe, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, tagNames)
		if err != nil {
			return err
		}
		recipe.Tags = tags
		recipe.AverageRating, recipe.RatingCount, recipe.FavouritesCount = 0, 0, 0

		return tx.Omit("Author").Create(recipe).Error
	})
}

func (r *recipeRepository) Update(ctx context.Context, recipe *models.Recipe, tagNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(recipe).Select(recipeEditableColumns).Updates(recipe).Error; err != nil {
			return err
		}

		tags, err := resolveTags(tx, tagNames)
		if err != nil {
			return err
		}
		if err := tx.Model(recipe).Association("Tags").Replace(tags); err != nil {
			return err
		}
		recipe.Tags = tags

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeStep{}).Error; err != nil {
			return err
		}
		for i := range recipe.Ingredients {
			recipe.Ingredients[i].ID = 0
			recipe.Ingredients[i].RecipeID = recipe.ID
		}
		for i := range recipe.Steps {
			recipe.Steps[i].ID = 0
			recipe.Steps[i].RecipeID = recipe.ID
		}
		if len(recipe.Ingredients) > 0 {
			if err := tx.Create(&recipe.Ingredients).Error; err != nil {
				return err
			}
		}
		if len(recipe.Steps) > 0 {
			if err := tx.Create(&recipe.Steps).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *recipeRepository) GetByID(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).First(&recipe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetDetail(ctx context.Context, id uint) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&recipe, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrRecipeNotFound
	}
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		deleted, err := deleteRecipes(tx, []uint{id})
		if err != nil {
			return err
		}
		if deleted == 0 {
			return models.ErrRecipeNotFound
		}
		return nil
	})
}

// deleteRecipes removes recipes and everything hanging off them.
func deleteRecipes(tx *gorm.DB, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	for _, child := range []interface{}{
		&models.RecipeIngredient{},
		&models.RecipeStep{},
		&models.RecipeRating{},
		&models.RecipeFavourite{},
	} {
		if err := tx.Where("recipe_id IN ?", ids).Delete(child).Error; err != nil {
			return 0, err
		}
	}
	if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id IN ?", ids).Error; err != nil {
		return 0, err
	}
	res := tx.Where("id IN ?", ids).Delete(&models.Recipe{})
	return res.RowsAffected, res.Error
}

// visibleTo restricts a recipes query to what viewer may see. Admins and
// moderators see everything; everyone else sees public and unlisted recipes
// plus their own. A nil viewer is anonymous.
func visibleTo(viewer *models.User) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if models.IsPrivileged(viewer) {
			return db
		}
		shared := []string{string(models.VisibilityPublic), string(models.VisibilityUnlisted)}
		if viewer == nil {
			return db.Where("recipes.visibility IN ?", shared)
		}
		return db.Where("(recipes.visibility IN ? OR recipes.author_id = ?)", shared, viewer.ID)
	}
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// containsPattern builds a lowercase LIKE pattern for a substring match,
// to be used with ESCAPE '!'.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func (r *recipeRepository) Search(ctx context.Context, viewer *models.User, params models.RecipeSearchParams) ([]models.Recipe, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.Recipe{}).Scopes(visibleTo(viewer))

	if q := strings.TrimSpace(params.Query); q != "" {
		like := containsPattern(q)
		authors := db.Model(&models.User{}).Select("id").Where("LOWER(username) LIKE ? ESCAPE '!'", like)
		tagged := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("LOWER(tags.name) LIKE ? ESCAPE '!'", like)
		query = query.Where(
			"(LOWER(recipes.name) LIKE ? ESCAPE '!' OR LOWER(recipes.description) LIKE ? ESCAPE '!' OR LOWER(recipes.cuisine) LIKE ? ESCAPE '!' OR recipes.author_id IN (?) OR recipes.id IN (?))",
			like, like, like, authors, tagged,
		)
	}

	if d := models.Difficulty(params.Difficulty); d.Valid() {
		query = query.Where("recipes.difficulty = ?", string(d))
	}

	if v := models.Visibility(params.Visibility); v.Valid() {
		query = query.Where("recipes.visibility = ?", string(v))
		if v == models.VisibilityPrivate && !models.IsPrivileged(viewer) {
			var viewerID uint
			if viewer != nil {
				viewerID = viewer.ID
			}
			query = query.Where("recipes.author_id = ?", viewerID)
		}
	}

	if c := strings.TrimSpace(params.Cuisine); c != "" {
		query = query.Where("LOWER(recipes.cuisine) LIKE ? ESCAPE '!'", containsPattern(c))
	}

	if tags := NormalizeTagNames(params.Tags); len(tags) > 0 {
		withTags := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.name IN ?", tags)
		query = query.Where("recipes.id IN (?)", withTags)
	}

	order, ok := recipeSortClauses[params.Sort]
	if !ok {
		order = recipeSortClauses[models.SortNewest]
	}

	var recipes []models.Recipe
	err := query.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.name") }).
		Order(order).
		Find(&recipes).Error
	return recipes, err
}

func (r *recipeRepository) ListByAuthor(ctx context.Context, authorID uint, viewer *models.User) ([]models.Recipe, error) {
	var recipes []models.Recipe
	err := r.db.WithContext(ctx).
		Scopes(visibleTo(viewer)).
		Where("recipes.author_id = ?", authorID).
		Preload("Tags").
		Order(recipeSortClauses[models.SortNewest]).
		Find(&recipes).Error
	return recipes, err
}
