package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipe-share/models"
)

func TestStaffFlagMirrorsRole(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	u := createUser(t, db, "@promoted", models.RoleUser)
	assert.False(t, u.IsStaff)

	u.Role = models.RoleAdmin
	require.NoError(t, repo.Update(ctx, u))
	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsStaff)

	got.Role = models.RoleModerator
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsStaff)
}

func TestUserUniqueness(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	u := createUser(t, db, "@taken", models.RoleUser)

	taken, err := repo.Taken(ctx, "TAKEN@example.com", "@free", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.Taken(ctx, u.Email, u.Username, u.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a user does not collide with itself")

	dup := &models.User{Username: "@taken", FirstName: "a", LastName: "b", Email: "other@example.com", Password: "x"}
	assert.ErrorIs(t, repo.Create(ctx, dup), models.ErrUserExists)
}

func TestUserSearchAndList(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)

	createUser(t, db, "@zoe", models.RoleUser)
	createUser(t, db, "@adam", models.RoleModerator)
	createUser(t, db, "@zack", models.RoleUser)

	found, err := repo.SearchByUsername(ctx, "Z")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	all, err := repo.SearchByUsername(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	sorted, err := repo.List(ctx, models.UserListParams{Sort: "username"})
	require.NoError(t, err)
	require.Len(t, sorted, 3)
	assert.Equal(t, "@adam", sorted[0].Username)
	assert.Equal(t, "@zoe", sorted[2].Username)

	filtered, err := repo.List(ctx, models.UserListParams{Query: "adam@"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "@adam", filtered[0].Username)
}

func TestUserDeleteCascadesAndRecomputes(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewUserRepository(db)
	ratings := NewRatingRepository(db)
	favourites := NewFavouriteRepository(db)

	keeper := createUser(t, db, "@keeper", models.RoleUser)
	leaver := createUser(t, db, "@leaver", models.RoleUser)
	kept := createRecipe(t, db, keeper, "Kept", nil)
	doomed := createRecipe(t, db, leaver, "Doomed", nil)

	_, _, err := ratings.Upsert(ctx, &models.RecipeRating{RecipeID: kept.ID, UserID: leaver.ID, Rating: 1})
	require.NoError(t, err)
	_, _, err = ratings.Upsert(ctx, &models.RecipeRating{RecipeID: kept.ID, UserID: keeper.ID, Rating: 5})
	require.NoError(t, err)
	_, _, err = favourites.Toggle(ctx, kept.ID, leaver.ID)
	require.NoError(t, err)
	_, err = NewFollowRepository(db).Toggle(ctx, keeper.ID, leaver.ID)
	require.NoError(t, err)

	leaverID := leaver.ID
	require.NoError(t, NewAdminLogRepository(db).Create(ctx, &models.AdminLog{
		ActorID:    &leaverID,
		ActionType: models.ActionUserLogin,
		Timestamp:  time.Now().UTC(),
	}))

	require.NoError(t, repo.Delete(ctx, leaver.ID))

	got := reloadRecipe(t, db, kept.ID)
	assert.Equal(t, 1, got.RatingCount)
	assert.Equal(t, 5.0, got.AverageRating)
	assert.Zero(t, got.FavouritesCount)

	_, err = NewRecipeRepository(db).GetByID(ctx, doomed.ID)
	assert.ErrorIs(t, err, models.ErrRecipeNotFound)

	var log models.AdminLog
	require.NoError(t, db.First(&log).Error)
	assert.Nil(t, log.ActorID)

	var follows int64
	db.Model(&models.UserFollow{}).Count(&follows)
	assert.Zero(t, follows)

	assert.ErrorIs(t, repo.Delete(ctx, leaver.ID), models.ErrUserNotFound)
}

func TestFollowToggle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewFollowRepository(db)

	a := createUser(t, db, "@anna", models.RoleUser)
	b := createUser(t, db, "@ben", models.RoleUser)

	outcome, err := repo.Toggle(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Followed, outcome)

	following, err := repo.IsFollowing(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)

	followers, err := repo.ListFollowers(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "@anna", followers[0].Username)

	n, err := repo.CountFollowing(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	outcome, err = repo.Toggle(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Unfollowed, outcome)

	n, err = repo.CountFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}
