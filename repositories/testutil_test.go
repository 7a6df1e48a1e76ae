package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"recipe-share/models"
	"recipe-share/testutil"
)

func setupTestDB(t *testing.T) *gorm.DB {
	return testutil.NewDB(t)
}

func createUser(t *testing.T, db *gorm.DB, handle string, role models.UserRole) *models.User {
	t.Helper()
	u := &models.User{
		Username:  handle,
		FirstName: "First",
		LastName:  "Last",
		Email:     fmt.Sprintf("%s@example.com", handle[1:]),
		Password:  "hashed",
		Role:      role,
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), u))
	return u
}

func createRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, mutate func(*models.Recipe), tags ...string) *models.Recipe {
	t.Helper()
	r := &models.Recipe{
		AuthorID:        author.ID,
		Name:            name,
		Serves:          2,
		Difficulty:      models.DifficultyEasy,
		PrepTimeMinutes: 10,
		CookTimeMinutes: 20,
		Visibility:      models.VisibilityPublic,
	}
	if mutate != nil {
		mutate(r)
	}
	require.NoError(t, NewRecipeRepository(db).Create(context.Background(), r, tags))
	return r
}

func reloadRecipe(t *testing.T, db *gorm.DB, id uint) *models.Recipe {
	t.Helper()
	r, err := NewRecipeRepository(db).GetByID(context.Background(), id)
	require.NoError(t, err)
	return r
}

func recipeNames(recipes []models.Recipe) []string {
	names := make([]string, 0, len(recipes))
	for _, r := range recipes {
		names = append(names, r.Name)
	}
	return names
}
