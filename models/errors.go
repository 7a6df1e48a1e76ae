package models

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrRatingNotFound     = errors.New("rating not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrForbidden          = errors.New("you do not have permission to perform this action")
	ErrUserExists         = errors.New("user with this email or username already exists")
	ErrTagExists          = errors.New("tag already exists")
	ErrDuplicateRating    = errors.New("rating already submitted, please retry")
	ErrDuplicateFavourite = errors.New("favourite already saved, please retry")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCannotFollowSelf   = errors.New("you cannot follow yourself")
	ErrCannotActOnSelf    = errors.New("you cannot perform this action on your own account")
	ErrInvalidRole        = errors.New("invalid role")
)
