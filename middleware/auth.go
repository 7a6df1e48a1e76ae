package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"

	"recipe-share/config"
	"recipe-share/helper"
	"recipe-share/logging"
	"recipe-share/models"
	"recipe-share/repositories"
)

var HTTPHelper = helper.NewHTTPHelper()

const currentUserKey = "user"

type Claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

func bearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", errors.New("Authorization header required")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return "", errors.New("Bearer token required")
	}
	return strings.TrimSpace(tokenString), nil
}

func parseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return config.JWTSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("Token is not valid")
	}
	return claims, nil
}

// authenticate resolves the token to a current user row, so role changes
// and deletions take effect before the token expires.
func authenticate(c *gin.Context, users repositories.UserRepository, tokenString string) (*models.User, error) {
	claims, err := parseToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func setCurrentUser(c *gin.Context, user *models.User) {
	c.Set(currentUserKey, user)
	c.Set("user_id", user.ID)
	c.Set("username", user.Username)
	c.Set("role", string(user.Role))
}

func AuthMiddleware(users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err != nil {
			HTTPHelper.SendUnauthorizedError(c, err.Error(), HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		user, err := authenticate(c, users, tokenString)
		if err != nil {
			if errors.Is(err, models.ErrUserNotFound) {
				HTTPHelper.SendUnauthorizedError(c, "User no longer exists", HTTPHelper.EmptyJsonMap())
			} else {
				HTTPHelper.SendUnauthorizedError(c, "Invalid token: "+err.Error(), HTTPHelper.EmptyJsonMap())
			}
			c.Abort()
			return
		}

		setCurrentUser(c, user)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is sent and lets
// anonymous requests through otherwise.
func OptionalAuth(users repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := bearerToken(c)
		if err == nil {
			user, authErr := authenticate(c, users, tokenString)
			if authErr == nil {
				setCurrentUser(c, user)
			} else {
				logging.Ctx(c.Request.Context()).Debug().Err(authErr).Msg("ignoring invalid token on public route")
			}
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil on anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			HTTPHelper.SendUnauthorizedError(c, "User role not found", HTTPHelper.EmptyJsonMap())
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		HTTPHelper.SendForbiddenError(c, "Insufficient permissions", HTTPHelper.EmptyJsonMap())
		c.Abort()
	}
}
