package models

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type RecipeRating struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	RecipeID  uint      `json:"recipe_id" gorm:"not null;uniqueIndex:idx_rating_recipe_user"`
	Recipe    *Recipe   `json:"recipe,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_rating_recipe_user;index"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RateOutcome string

const (
	RatingCreated RateOutcome = "created"
	RatingUpdated RateOutcome = "updated"
)
