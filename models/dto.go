package models

type RegisterRequest struct {
	Username  string `json:"username" form:"username" validate:"required,handle,max=30"`
	FirstName string `json:"first_name" form:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" form:"last_name" validate:"required,max=50"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Password  string `json:"password" form:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type UpdateProfileRequest struct {
	Username  string `json:"username" validate:"required,handle,max=30"`
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	Email     string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

type RecipeRequest struct {
	Name            string     `json:"name" validate:"required,max=200"`
	Description     string     `json:"description"`
	Serves          int        `json:"serves" validate:"min=1"`
	Difficulty      Difficulty `json:"difficulty" validate:"required,oneof=easy medium hard"`
	PrepTimeMinutes int        `json:"prep_time_minutes" validate:"min=0"`
	CookTimeMinutes int        `json:"cook_time_minutes" validate:"min=0"`
	Cuisine         string     `json:"cuisine" validate:"max=100"`
	Visibility      Visibility `json:"visibility" validate:"required,oneof=public private unlisted"`
	Tags            []string   `json:"tags" validate:"dive,max=50"`
	Ingredients     []string   `json:"ingredients" validate:"dive,max=255"`
	Steps           []string   `json:"steps"`
}

type RateRecipeRequest struct {
	Rating  int    `json:"rating" form:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" form:"comment" validate:"max=2000"`
}

type CreateTagRequest struct {
	Name string `json:"name" validate:"required,min=1,max=50"`
}

type ChangeRoleRequest struct {
	Role UserRole `json:"role" validate:"required,oneof=admin moderator user"`
}

type RecipeSearchParams struct {
	Query      string   `form:"q"`
	Difficulty string   `form:"difficulty"`
	Visibility string   `form:"visibility"`
	Cuisine    string   `form:"cuisine"`
	Tags       []string `form:"tag"`
	Sort       string   `form:"sort"`
}

const (
	SortNewest        = "-created_at"
	SortOldest        = "created_at"
	SortNameAsc       = "name"
	SortNameDesc      = "-name"
	SortRatingDesc    = "-average_rating"
	SortRatingAsc     = "average_rating"
	SortTotalTimeAsc  = "total_time"
	SortTotalTimeDesc = "-total_time"
)

var RecipeSortOptions = []string{
	SortNewest, SortOldest, SortNameAsc, SortNameDesc,
	SortRatingDesc, SortRatingAsc, SortTotalTimeAsc, SortTotalTimeDesc,
}

type RecipeSearchResult struct {
	Recipes      []Recipe           `json:"recipes"`
	Count        int                `json:"count"`
	Filters      RecipeSearchParams `json:"filters"`
	Difficulties []Difficulty       `json:"difficulties"`
	Visibilities []Visibility       `json:"visibilities"`
	SortOptions  []string           `json:"sort_options"`
	AllTags      []Tag              `json:"all_tags"`
}

type RecipeDetail struct {
	Recipe     Recipe         `json:"recipe"`
	Ratings    []RecipeRating `json:"ratings"`
	UserRating *RecipeRating  `json:"user_rating"`
	Favourited bool           `json:"favourited"`
	CanEdit    bool           `json:"can_edit"`
	CanDelete  bool           `json:"can_delete"`
}

type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	RatingCount   int     `json:"rating_count"`
}

type RateResult struct {
	RatingSummary
	Rating  RecipeRating `json:"rating"`
	Outcome RateOutcome  `json:"outcome"`
}

type FavouriteResult struct {
	Outcome         FavouriteOutcome `json:"outcome"`
	Favourited      bool             `json:"favourited"`
	FavouritesCount int              `json:"favourites_count"`
}

type UserProfile struct {
	User           User           `json:"user"`
	Recipes        []Recipe       `json:"recipes"`
	Ratings        []RecipeRating `json:"ratings"`
	FollowerCount  int64          `json:"follower_count"`
	FollowingCount int64          `json:"following_count"`
	IsOwnProfile   bool           `json:"is_own_profile"`
	IsFollowing    bool           `json:"is_following"`
}

type UserListParams struct {
	Query string `form:"q"`
	Sort  string `form:"sort"`
}

var UserSortOptions = map[string]string{
	"username":    "username ASC",
	"-username":   "username DESC",
	"email":       "email ASC",
	"-email":      "email DESC",
	"created_at":  "created_at ASC",
	"-created_at": "created_at DESC",
	"role":        "role ASC",
}

type AdminPanel struct {
	User        User        `json:"user"`
	Permissions Permissions `json:"permissions"`
	Users       []User      `json:"users"`
}

const LogsPerPage = 50

type LogListParams struct {
	Search     string `form:"search"`
	ActionType string `form:"action_type"`
	TargetType string `form:"target_type"`
	Actor      string `form:"actor"`
	DateFrom   string `form:"date_from"`
	DateTo     string `form:"date_to"`
	Page       int    `form:"page"`
}

type LogPage struct {
	Logs         []AdminLog       `json:"logs"`
	Total        int64            `json:"total"`
	Page         int              `json:"page"`
	PerPage      int              `json:"per_page"`
	FilterValues LogListParams    `json:"filter_values"`
	Options      LogFilterOptions `json:"options"`
}
