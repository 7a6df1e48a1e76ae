package database

import (
	"fmt"

	"gorm.io/gorm"

	"recipe-share/models"
)

// Models lists every persisted type in dependency order.
var Models = []interface{}{
	&models.User{},
	&models.Tag{},
	&models.Recipe{},
	&models.RecipeIngredient{},
	&models.RecipeStep{},
	&models.RecipeRating{},
	&models.RecipeFavourite{},
	&models.UserFollow{},
	&models.AdminLog{},
}

func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
