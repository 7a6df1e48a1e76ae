package models

import "time"

type RecipeFavourite struct {
	ID       uint      `json:"id" gorm:"primarykey"`
	RecipeID uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_favourite_recipe_user"`
	Recipe   *Recipe   `json:"recipe,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	UserID   uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_favourite_recipe_user;index"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	SavedAt  time.Time `json:"saved_at" gorm:"autoCreateTime;index"`
}

type FavouriteOutcome string

const (
	FavouriteAdded   FavouriteOutcome = "added"
	FavouriteRemoved FavouriteOutcome = "removed"
)
