package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-share/models"
)

func TestRatingStatsFollowRatings(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewRatingRepository(db)

	author := createUser(t, db, "@author", models.RoleUser)
	u1 := createUser(t, db, "@first", models.RoleUser)
	u2 := createUser(t, db, "@second", models.RoleUser)
	r := createRecipe(t, db, author, "Lasagne", nil)

	outcome, stats, err := repo.Upsert(ctx, &models.RecipeRating{RecipeID: r.ID, UserID: u1.ID, Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, models.RatingCreated, outcome)
	assert.Equal(t, RatingStats{AverageRating: 5, RatingCount: 1}, stats)

	_, _, err = repo.Upsert(ctx, &models.RecipeRating{RecipeID: r.ID, UserID: u2.ID, Rating: 4})
	require.NoError(t, err)

	got := reloadRecipe(t, db, r.ID)
	assert.Equal(t, 2, got.RatingCount)
	assert.Equal(t, 4.5, got.AverageRating)

	stats, err = repo.Delete(ctx, r.ID, u1.ID)
	require.NoError(t, err)
	assert.Equal(t, RatingStats{AverageRating: 4, RatingCount: 1}, stats)

	got = reloadRecipe(t, db, r.ID)
	assert.Equal(t, 1, got.RatingCount)
	assert.Equal(t, 4.0, got.AverageRating)

	_, err = repo.Delete(ctx, r.ID, u2.ID)
	require.NoError(t, err)
	got = reloadRecipe(t, db, r.ID)
	assert.Zero(t, got.RatingCount)
	assert.Zero(t, got.AverageRating)

	_, err = repo.Delete(ctx, r.ID, u2.ID)
	assert.ErrorIs(t, err, models.ErrRatingNotFound)
}

func TestRatingUpsertNeverDuplicates(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewRatingRepository(db)

	author := createUser(t, db, "@author", models.RoleUser)
	rater := createUser(t, db, "@rater", models.RoleUser)
	r := createRecipe(t, db, author, "Risotto", nil)

	_, _, err := repo.Upsert(ctx, &models.RecipeRating{RecipeID: r.ID, UserID: rater.ID, Rating: 2, Comment: "meh"})
	require.NoError(t, err)

	rating := &models.RecipeRating{RecipeID: r.ID, UserID: rater.ID, Rating: 5, Comment: "grew on me"}
	outcome, stats, err := repo.Upsert(ctx, rating)
	require.NoError(t, err)
	assert.Equal(t, models.RatingUpdated, outcome)
	assert.Equal(t, 5.0, stats.AverageRating)
	assert.NotZero(t, rating.ID)

	var n int64
	db.Model(&models.RecipeRating{}).Where("recipe_id = ? AND user_id = ?", r.ID, rater.ID).Count(&n)
	assert.Equal(t, int64(1), n)

	stored, err := repo.GetByRecipeAndUser(ctx, r.ID, rater.ID)
	require.NoError(t, err)
	assert.Equal(t, "grew on me", stored.Comment)
}

func TestRatingAverageRoundsToOneDecimal(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewRatingRepository(db)

	author := createUser(t, db, "@author", models.RoleUser)
	r := createRecipe(t, db, author, "Pancakes", nil)
	for i, score := range []int{5, 4, 4} {
		u := createUser(t, db, []string{"@one", "@two", "@three"}[i], models.RoleUser)
		_, _, err := repo.Upsert(ctx, &models.RecipeRating{RecipeID: r.ID, UserID: u.ID, Rating: score})
		require.NoError(t, err)
	}

	got := reloadRecipe(t, db, r.ID)
	assert.Equal(t, 3, got.RatingCount)
	assert.Equal(t, 4.3, got.AverageRating)
}

func TestRatingsListedNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewRatingRepository(db)

	author := createUser(t, db, "@author", models.RoleUser)
	u1 := createUser(t, db, "@first", models.RoleUser)
	u2 := createUser(t, db, "@second", models.RoleUser)
	public := createRecipe(t, db, author, "Public", nil)
	secret := createRecipe(t, db, author, "Secret", func(r *models.Recipe) { r.Visibility = models.VisibilityPrivate })

	_, _, err := repo.Upsert(ctx, &models.RecipeRating{RecipeID: public.ID, UserID: u1.ID, Rating: 3})
	require.NoError(t, err)
	_, _, err = repo.Upsert(ctx, &models.RecipeRating{RecipeID: public.ID, UserID: u2.ID, Rating: 4})
	require.NoError(t, err)
	_, _, err = repo.Upsert(ctx, &models.RecipeRating{RecipeID: secret.ID, UserID: u1.ID, Rating: 1})
	require.NoError(t, err)

	list, err := repo.ListByRecipe(ctx, public.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "@second", list[0].User.Username)

	given, err := repo.ListByUser(ctx, u1.ID, u2)
	require.NoError(t, err)
	require.Len(t, given, 1, "ratings on recipes the viewer cannot see are hidden")
	assert.Equal(t, "Public", given[0].Recipe.Name)

	given, err = repo.ListByUser(ctx, u1.ID, author)
	require.NoError(t, err)
	assert.Len(t, given, 2)
}

func TestFavouriteToggle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewFavouriteRepository(db)

	author := createUser(t, db, "@author", models.RoleUser)
	fan := createUser(t, db, "@fan", models.RoleUser)
	other := createUser(t, db, "@other", models.RoleUser)
	r := createRecipe(t, db, author, "Brownies", nil)

	outcome, count, err := repo.Toggle(ctx, r.ID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FavouriteAdded, outcome)
	assert.Equal(t, 1, count)

	_, count, err = repo.Toggle(ctx, r.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 2, reloadRecipe(t, db, r.ID).FavouritesCount)

	exists, err := repo.Exists(ctx, r.ID, fan.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	outcome, count, err = repo.Toggle(ctx, r.ID, fan.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FavouriteRemoved, outcome)
	assert.Equal(t, 1, count)

	exists, err = repo.Exists(ctx, r.ID, fan.ID)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, 1, reloadRecipe(t, db, r.ID).FavouritesCount)
}

func TestFavouriteListNewestSavedFirst(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewFavouriteRepository(db)

	author := createUser(t, db, "@author", models.RoleUser)
	fan := createUser(t, db, "@fan", models.RoleUser)
	first := createRecipe(t, db, author, "First", nil)
	second := createRecipe(t, db, author, "Second", nil)

	_, _, err := repo.Toggle(ctx, second.ID, fan.ID)
	require.NoError(t, err)
	_, _, err = repo.Toggle(ctx, first.ID, fan.ID)
	require.NoError(t, err)

	list, err := repo.ListRecipes(ctx, fan)
	require.NoError(t, err)
	assert.Equal(t, []string{"First", "Second"}, recipeNames(list))
}
