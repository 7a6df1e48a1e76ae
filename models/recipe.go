package models

import (
	"time"

	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) Valid() bool {
	for _, v := range Difficulties {
		if d == v {
			return true
		}
	}
	return false
}

type Visibility string

const (
	VisibilityPublic   Visibility = "public"
	VisibilityPrivate  Visibility = "private"
	VisibilityUnlisted Visibility = "unlisted"
)

var Visibilities = []Visibility{VisibilityPublic, VisibilityPrivate, VisibilityUnlisted}

func (v Visibility) Valid() bool {
	for _, x := range Visibilities {
		if v == x {
			return true
		}
	}
	return false
}

type Recipe struct {
	ID               uint               `json:"id" gorm:"primarykey"`
	AuthorID         uint               `json:"author_id" gorm:"not null;index"`
	Author           User               `json:"author" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Name             string             `json:"name" gorm:"size:200;not null"`
	Description      string             `json:"description" gorm:"type:text"`
	Serves           int                `json:"serves" gorm:"not null;default:1"`
	Difficulty       Difficulty         `json:"difficulty" gorm:"size:10;not null;default:'easy';index"`
	PrepTimeMinutes  int                `json:"prep_time_minutes" gorm:"not null;default:0"`
	CookTimeMinutes  int                `json:"cook_time_minutes" gorm:"not null;default:0"`
	TotalTimeMinutes int                `json:"total_time_minutes" gorm:"not null;default:0;index"`
	Cuisine          string             `json:"cuisine" gorm:"size:100;index"`
	Visibility       Visibility         `json:"visibility" gorm:"size:10;not null;default:'public';index"`
	AverageRating    float64            `json:"average_rating" gorm:"type:decimal(3,1);not null;default:0;index"`
	RatingCount      int                `json:"rating_count" gorm:"not null;default:0"`
	FavouritesCount  int                `json:"favourites_count" gorm:"not null;default:0"`
	Tags             []Tag              `json:"tags" gorm:"many2many:recipe_tags;"`
	Ingredients      []RecipeIngredient `json:"ingredients,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Steps            []RecipeStep       `json:"steps,omitempty" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time          `json:"created_at" gorm:"index"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// BeforeSave derives the total time from its parts on every write.
func (r *Recipe) BeforeSave(tx *gorm.DB) error {
	r.TotalTimeMinutes = r.PrepTimeMinutes + r.CookTimeMinutes
	return nil
}

type RecipeIngredient struct {
	ID       uint   `json:"id" gorm:"primarykey"`
	RecipeID uint   `json:"recipe_id" gorm:"not null;index"`
	Text     string `json:"text" gorm:"size:255;not null"`
	Position int    `json:"position" gorm:"not null"`
}

type RecipeStep struct {
	ID       uint   `json:"id" gorm:"primarykey"`
	RecipeID uint   `json:"recipe_id" gorm:"not null;index"`
	Text     string `json:"text" gorm:"type:text;not null"`
	Position int    `json:"position" gorm:"not null"`
}
