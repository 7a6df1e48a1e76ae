package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"recipe-share/handlers"
	"recipe-share/middleware"
	"recipe-share/models"
	"recipe-share/repositories"
	"recipe-share/routes"
	"recipe-share/services"
	"recipe-share/testutil"
)

type envelope struct {
	Code        int             `json:"code"`
	CodeType    string          `json:"code_type"`
	CodeMessage json.RawMessage `json:"code_message"`
	Data        json.RawMessage `json:"data"`
}

type IntegrationTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine

	token  string
	userID uint
}

func (suite *IntegrationTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.db = testutil.NewDB(suite.T())

	userRepo := repositories.NewUserRepository(suite.db)
	recipeRepo := repositories.NewRecipeRepository(suite.db)
	ratingRepo := repositories.NewRatingRepository(suite.db)
	favouriteRepo := repositories.NewFavouriteRepository(suite.db)
	followRepo := repositories.NewFollowRepository(suite.db)
	tagRepo := repositories.NewTagRepository(suite.db)
	logRepo := repositories.NewAdminLogRepository(suite.db)

	auditService := services.NewAuditService(logRepo)
	recipeService := services.NewRecipeService(recipeRepo, ratingRepo, favouriteRepo, tagRepo, auditService)
	userService := services.NewUserService(userRepo, recipeRepo, ratingRepo, followRepo, auditService)

	suite.router = gin.New()
	suite.router.Use(middleware.RequestID())
	routes.Setup(suite.router, routes.Handlers{
		Auth:      handlers.NewAuthHandler(services.NewAuthService(userRepo, auditService)),
		Recipe:    handlers.NewRecipeHandler(recipeService),
		Rating:    handlers.NewRatingHandler(services.NewRatingService(recipeRepo, ratingRepo)),
		Favourite: handlers.NewFavouriteHandler(services.NewFavouriteService(recipeRepo, favouriteRepo)),
		User:      handlers.NewUserHandler(userService),
		Admin:     handlers.NewAdminHandler(userService, recipeService, auditService),
		Tag:       handlers.NewTagHandler(services.NewTagService(tagRepo)),
	}, userRepo, nil)

	suite.token, suite.userID = suite.register("@testuser", "test@example.com")
}

func (suite *IntegrationTestSuite) do(method, path, token string, payload interface{}) (*httptest.ResponseRecorder, envelope) {
	var body bytes.Buffer
	if payload != nil {
		suite.Require().NoError(json.NewEncoder(&body).Encode(payload))
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") != "" && w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (suite *IntegrationTestSuite) register(username, email string) (string, uint) {
	w, env := suite.do(http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Email:     email,
		Password:  "password123",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp models.AuthResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &resp))
	return resp.Token, resp.User.ID
}

func (suite *IntegrationTestSuite) createRecipe(token, name string, visibility models.Visibility) uint {
	w, env := suite.do(http.MethodPost, "/api/v1/recipes", token, models.RecipeRequest{
		Name:            name,
		Serves:          2,
		Difficulty:      models.DifficultyEasy,
		PrepTimeMinutes: 10,
		CookTimeMinutes: 5,
		Visibility:      visibility,
		Tags:            []string{"quick"},
		Ingredients:     []string{"bread", "butter"},
		Steps:           []string{"toast", "spread"},
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var recipe models.Recipe
	suite.Require().NoError(json.Unmarshal(env.Data, &recipe))
	return recipe.ID
}

func (suite *IntegrationTestSuite) TestHealth() {
	w, _ := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *IntegrationTestSuite) TestAuthFlow() {
	w, env := suite.do(http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})
	suite.Equal(http.StatusOK, w.Code)

	var resp models.AuthResponse
	suite.Require().NoError(json.Unmarshal(env.Data, &resp))
	suite.NotEmpty(resp.Token)
	suite.Equal("@testuser", resp.User.Username)
	suite.Equal(models.RoleUser, resp.User.Role)

	w, _ = suite.do(http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Email:    "test@example.com",
		Password: "wrong-password",
	})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w, _ = suite.do(http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: "@testuser", FirstName: "A", LastName: "B", Email: "another@example.com", Password: "password123",
	})
	suite.Equal(http.StatusConflict, w.Code)

	w, env = suite.do(http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{
		Username: "no-at-sign", FirstName: "A", LastName: "B", Email: "x@example.com", Password: "password123",
	})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("validationError", env.CodeType)
	suite.Contains(string(env.CodeMessage), "username")
}

func (suite *IntegrationTestSuite) TestGetProfile() {
	w, _ := suite.do(http.MethodGet, "/api/v1/profile", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w, env := suite.do(http.MethodGet, "/api/v1/profile", suite.token, nil)
	suite.Equal(http.StatusOK, w.Code)

	var user models.User
	suite.Require().NoError(json.Unmarshal(env.Data, &user))
	suite.Equal(suite.userID, user.ID)
	suite.NotContains(string(env.Data), "password")
}

func (suite *IntegrationTestSuite) TestCreateAndGetRecipe() {
	id := suite.createRecipe(suite.token, "Buttered Toast", models.VisibilityPublic)

	w, env := suite.do(http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", id), suite.token, nil)
	suite.Equal(http.StatusOK, w.Code)

	var detail models.RecipeDetail
	suite.Require().NoError(json.Unmarshal(env.Data, &detail))
	suite.Equal("Buttered Toast", detail.Recipe.Name)
	suite.Equal(15, detail.Recipe.TotalTimeMinutes)
	suite.Len(detail.Recipe.Ingredients, 2)
	suite.True(detail.CanEdit)

	w, _ = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/public/recipes/%d", id), "", nil)
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.do(http.MethodGet, "/api/v1/recipes/abc", suite.token, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IntegrationTestSuite) TestPrivateRecipeVisibility() {
	id := suite.createRecipe(suite.token, "Secret Sauce", models.VisibilityPrivate)
	otherToken, _ := suite.register("@other", "other@example.com")

	w, _ := suite.do(http.MethodGet, fmt.Sprintf("/api/v1/public/recipes/%d", id), "", nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w, _ = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/recipes/%d", id), otherToken, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w, env := suite.do(http.MethodGet, "/api/v1/recipes?q=sauce", otherToken, nil)
	suite.Equal(http.StatusOK, w.Code)
	var result models.RecipeSearchResult
	suite.Require().NoError(json.Unmarshal(env.Data, &result))
	suite.Zero(result.Count)

	w, env = suite.do(http.MethodGet, "/api/v1/recipes?q=sauce", suite.token, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(env.Data, &result))
	suite.Equal(1, result.Count)
}

func (suite *IntegrationTestSuite) TestRateRecipe() {
	id := suite.createRecipe(suite.token, "Pancakes", models.VisibilityPublic)
	path := fmt.Sprintf("/api/v1/recipes/%d/rate", id)

	w, env := suite.do(http.MethodPost, path, suite.token, models.RateRecipeRequest{Rating: 6})
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("validationError", env.CodeType)

	w, env = suite.do(http.MethodPost, path, suite.token, models.RateRecipeRequest{Rating: 5})
	suite.Equal(http.StatusCreated, w.Code)
	var result models.RateResult
	suite.Require().NoError(json.Unmarshal(env.Data, &result))
	suite.Equal(models.RatingCreated, result.Outcome)
	suite.Equal(5.0, result.AverageRating)

	otherToken, _ := suite.register("@other", "other@example.com")
	w, env = suite.do(http.MethodPost, path, otherToken, models.RateRecipeRequest{Rating: 4})
	suite.Equal(http.StatusCreated, w.Code)
	suite.Require().NoError(json.Unmarshal(env.Data, &result))
	suite.Equal(4.5, result.AverageRating)
	suite.Equal(2, result.RatingCount)

	w, env = suite.do(http.MethodPost, path, suite.token, models.RateRecipeRequest{Rating: 3})
	suite.Equal(http.StatusOK, w.Code)
	suite.Require().NoError(json.Unmarshal(env.Data, &result))
	suite.Equal(models.RatingUpdated, result.Outcome)
	suite.Equal(3.5, result.AverageRating)

	w, env = suite.do(http.MethodDelete, path, otherToken, nil)
	suite.Equal(http.StatusOK, w.Code)
	var summary models.RatingSummary
	suite.Require().NoError(json.Unmarshal(env.Data, &summary))
	suite.Equal(models.RatingSummary{AverageRating: 3, RatingCount: 1}, summary)
}

func (suite *IntegrationTestSuite) TestToggleFavourite() {
	id := suite.createRecipe(suite.token, "Granola", models.VisibilityUnlisted)
	path := fmt.Sprintf("/api/v1/recipes/%d/favourite", id)

	var result models.FavouriteResult
	_, env := suite.do(http.MethodPost, path, suite.token, nil)
	suite.Require().NoError(json.Unmarshal(env.Data, &result))
	suite.True(result.Favourited)
	suite.Equal(1, result.FavouritesCount)

	_, env = suite.do(http.MethodPost, path, suite.token, nil)
	suite.Require().NoError(json.Unmarshal(env.Data, &result))
	suite.False(result.Favourited)
	suite.Zero(result.FavouritesCount)
}

func (suite *IntegrationTestSuite) TestFollow() {
	_, otherID := suite.register("@other", "other@example.com")

	w, _ := suite.do(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", suite.userID), suite.token, nil)
	suite.Equal(http.StatusBadRequest, w.Code)

	w, _ = suite.do(http.MethodPost, fmt.Sprintf("/api/v1/users/%d/follow", otherID), suite.token, nil)
	suite.Equal(http.StatusOK, w.Code)

	w, env := suite.do(http.MethodGet, fmt.Sprintf("/api/v1/users/%d/followers", otherID), suite.token, nil)
	suite.Equal(http.StatusOK, w.Code)
	var followers []models.User
	suite.Require().NoError(json.Unmarshal(env.Data, &followers))
	suite.Require().Len(followers, 1)
	suite.Equal(suite.userID, followers[0].ID)

	w, _ = suite.do(http.MethodGet, "/api/v1/users/9999", suite.token, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *IntegrationTestSuite) TestAdminRoutes() {
	w, _ := suite.do(http.MethodGet, "/api/v1/admin/logs", suite.token, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.do(http.MethodPost, "/api/v1/tags", suite.token, models.CreateTagRequest{Name: "vegan"})
	suite.Equal(http.StatusForbidden, w.Code)

	modToken, modID := suite.register("@moddy", "mod@example.com")
	suite.Require().NoError(suite.db.Model(&models.User{}).Where("id = ?", modID).Update("role", models.RoleModerator).Error)

	w, env := suite.do(http.MethodGet, "/api/v1/admin/logs?action_type=user_created", modToken, nil)
	suite.Equal(http.StatusOK, w.Code)
	var page struct {
		Logs       []models.AdminLog      `json:"logs"`
		Pagination map[string]interface{} `json:"pagination"`
	}
	suite.Require().NoError(json.Unmarshal(env.Data, &page))
	suite.Len(page.Logs, 2)
	suite.EqualValues(2, page.Pagination["total_records"])

	id := suite.createRecipe(suite.token, "Spam Recipe", models.VisibilityPublic)
	w, _ = suite.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/recipes/%d", id), modToken, nil)
	suite.Equal(http.StatusOK, w.Code)

	w, _ = suite.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", suite.userID), modToken, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w, _ = suite.do(http.MethodPost, fmt.Sprintf("/api/v1/admin/users/%d/flag", suite.userID), modToken, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
