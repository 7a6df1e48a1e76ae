package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"recipe-share/handlers"
	"recipe-share/middleware"
	"recipe-share/models"
	"recipe-share/repositories"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Recipe    *handlers.RecipeHandler
	Rating    *handlers.RatingHandler
	Favourite *handlers.FavouriteHandler
	User      *handlers.UserHandler
	Admin     *handlers.AdminHandler
	Tag       *handlers.TagHandler
}

// Setup registers every route on router. Global middleware is left to the
// caller. authLimiter may be nil.
func Setup(router *gin.Engine, h Handlers, users repositories.UserRepository, authLimiter *middleware.RateLimiter) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(authLimiter))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", middleware.AuthMiddleware(users), h.Auth.Logout)
		}

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware(users))
		{
			protected.GET("/profile", h.Auth.GetProfile)
			protected.PUT("/profile", h.Auth.UpdateProfile)
			protected.PUT("/profile/password", h.Auth.ChangePassword)

			recipes := protected.Group("/recipes")
			{
				recipes.GET("", h.Recipe.SearchRecipes)
				recipes.POST("", h.Recipe.CreateRecipe)
				recipes.GET("/:id", h.Recipe.GetRecipe)
				recipes.PUT("/:id", h.Recipe.UpdateRecipe)
				recipes.DELETE("/:id", h.Recipe.DeleteRecipe)

				recipes.GET("/:id/ratings", h.Rating.ListRatings)
				recipes.POST("/:id/rate", h.Rating.RateRecipe)
				recipes.DELETE("/:id/rate", h.Rating.DeleteRating)
				recipes.POST("/:id/favourite", h.Favourite.ToggleFavourite)
			}
			protected.GET("/favourites", h.Favourite.ListFavourites)

			users := protected.Group("/users")
			{
				users.GET("", h.User.SearchUsers)
				users.GET("/:id", h.User.GetProfile)
				users.POST("/:id/follow", h.User.ToggleFollow)
				users.GET("/:id/followers", h.User.Followers)
				users.GET("/:id/following", h.User.Following)
			}

			tags := protected.Group("/tags")
			{
				tags.GET("", h.Tag.GetTags)
				tags.GET("/:id", h.Tag.GetTag)
				tags.POST("", middleware.RequireRole(models.RoleAdmin), h.Tag.CreateTag)
			}

			admin := protected.Group("/admin")
			admin.Use(middleware.RequireRole(models.RoleAdmin, models.RoleModerator))
			{
				admin.GET("/panel", h.Admin.Panel)
				admin.GET("/users", h.Admin.ListUsers)
				admin.DELETE("/users/:id", h.Admin.DeleteUser)
				admin.POST("/users/:id/flag", h.Admin.FlagUser)
				admin.PUT("/users/:id/role", h.Admin.ChangeRole)
				admin.DELETE("/recipes/:id", h.Admin.DeleteRecipe)
				admin.GET("/logs", h.Admin.ListLogs)
			}
		}

		public := v1.Group("/public")
		public.Use(middleware.OptionalAuth(users))
		{
			public.GET("/recipes", h.Recipe.SearchRecipes)
			public.GET("/recipes/:id", h.Recipe.GetRecipe)
		}
	}
}
