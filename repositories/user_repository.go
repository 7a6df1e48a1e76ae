package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"recipe-share/models"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Taken reports whether email or username belongs to a user other than exceptID.
	Taken(ctx context.Context, email, username string, exceptID uint) (bool, error)
	Update(ctx context.Context, user *models.User) error
	SearchByUsername(ctx context.Context, query string) ([]models.User, error)
	List(ctx context.Context, params models.UserListParams) ([]models.User, error)
	Delete(ctx context.Context, id uint) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

const defaultUserOrder = "last_name ASC, first_name ASC, id ASC"

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrUserExists
	}
	return err
}

func (r *userRepository) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.first(ctx, "LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepository) Taken(ctx context.Context, email, username string, exceptID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("(LOWER(email) = ? OR username = ?) AND id <> ?", strings.ToLower(strings.TrimSpace(email)), username, exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	err := r.db.WithContext(ctx).Save(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.ErrUserExists
	}
	return err
}

func (r *userRepository) SearchByUsername(ctx context.Context, query string) ([]models.User, error) {
	db := r.db.WithContext(ctx)
	if q := strings.TrimSpace(query); q != "" {
		db = db.Where("LOWER(username) LIKE ? ESCAPE '!'", containsPattern(q))
	}
	var users []models.User
	err := db.Order("username ASC").Find(&users).Error
	return users, err
}

func (r *userRepository) List(ctx context.Context, params models.UserListParams) ([]models.User, error) {
	db := r.db.WithContext(ctx)
	if q := strings.TrimSpace(params.Query); q != "" {
		like := containsPattern(q)
		db = db.Where(
			"(LOWER(username) LIKE ? ESCAPE '!' OR LOWER(email) LIKE ? ESCAPE '!' OR LOWER(first_name) LIKE ? ESCAPE '!' OR LOWER(last_name) LIKE ? ESCAPE '!')",
			like, like, like, like,
		)
	}
	order, ok := models.UserSortOptions[params.Sort]
	if !ok {
		order = defaultUserOrder
	}
	var users []models.User
	err := db.Order(order).Find(&users).Error
	return users, err
}

// Delete removes a user with their recipes, ratings, favourites and follows.
// Recipes by other authors that lose ratings or favourites get their stats
// recomputed before commit. Audit rows survive with the actor cleared.
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ownRecipes, rated, favourited []uint
		if err := tx.Model(&models.Recipe{}).Where("author_id = ?", id).Pluck("id", &ownRecipes).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.RecipeRating{}).Where("user_id = ?", id).Pluck("recipe_id", &rated).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.RecipeFavourite{}).Where("user_id = ?", id).Pluck("recipe_id", &favourited).Error; err != nil {
			return err
		}

		if _, err := deleteRecipes(tx, ownRecipes); err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RecipeRating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.RecipeFavourite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("follower_id = ? OR followee_id = ?", id, id).Delete(&models.UserFollow{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.AdminLog{}).Where("actor_id = ?", id).Update("actor_id", nil).Error; err != nil {
			return err
		}

		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrUserNotFound
		}

		gone := make(map[uint]bool, len(ownRecipes))
		for _, rid := range ownRecipes {
			gone[rid] = true
		}
		for _, rid := range uniqueIDs(rated) {
			if gone[rid] {
				continue
			}
			if _, err := RecomputeRatingStats(tx, rid); err != nil {
				return err
			}
		}
		for _, rid := range uniqueIDs(favourited) {
			if gone[rid] {
				continue
			}
			if _, err := RecomputeFavouritesCount(tx, rid); err != nil {
				return err
			}
		}
		return nil
	})
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
