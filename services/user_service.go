package services

import (
	"context"
	"fmt"

	"recipe-share/models"
	"recipe-share/repositories"
	"recipe-share/validation"
)

type UserService interface {
	SearchUsers(ctx context.Context, query string) ([]models.User, error)
	GetProfile(ctx context.Context, viewer *models.User, id uint) (*models.UserProfile, error)
	ToggleFollow(ctx context.Context, follower *models.User, id uint) (models.FollowOutcome, error)
	Followers(ctx context.Context, id uint) ([]models.User, error)
	Following(ctx context.Context, id uint) ([]models.User, error)

	AdminPanel(ctx context.Context, viewer *models.User, params models.UserListParams) (*models.AdminPanel, error)
	DeleteUser(ctx context.Context, actor *models.User, id uint, info *models.RequestInfo) error
	FlagUser(ctx context.Context, actor *models.User, id uint, info *models.RequestInfo) (*models.User, error)
	ChangeRole(ctx context.Context, actor *models.User, id uint, req models.ChangeRoleRequest, info *models.RequestInfo) (*models.User, error)
}

type userService struct {
	userRepo   repositories.UserRepository
	recipeRepo repositories.RecipeRepository
	ratingRepo repositories.RatingRepository
	followRepo repositories.FollowRepository
	audit      AuditService
}

func NewUserService(
	userRepo repositories.UserRepository,
	recipeRepo repositories.RecipeRepository,
	ratingRepo repositories.RatingRepository,
	followRepo repositories.FollowRepository,
	audit AuditService,
) UserService {
	return &userService{
		userRepo:   userRepo,
		recipeRepo: recipeRepo,
		ratingRepo: ratingRepo,
		followRepo: followRepo,
		audit:      audit,
	}
}

func (s *userService) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	return s.userRepo.SearchByUsername(ctx, query)
}

func (s *userService) GetProfile(ctx context.Context, viewer *models.User, id uint) (*models.UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	recipes, err := s.recipeRepo.ListByAuthor(ctx, user.ID, viewer)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratingRepo.ListByUser(ctx, user.ID, viewer)
	if err != nil {
		return nil, err
	}
	followers, err := s.followRepo.CountFollowers(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	profile := &models.UserProfile{
		User:           *user,
		Recipes:        recipes,
		Ratings:        ratings,
		FollowerCount:  followers,
		FollowingCount: following,
	}
	if viewer != nil {
		profile.IsOwnProfile = viewer.ID == user.ID
		if !profile.IsOwnProfile {
			profile.IsFollowing, err = s.followRepo.IsFollowing(ctx, viewer.ID, user.ID)
			if err != nil {
				return nil, err
			}
		}
	}
	return profile, nil
}

func (s *userService) ToggleFollow(ctx context.Context, follower *models.User, id uint) (models.FollowOutcome, error) {
	target, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if target.ID == follower.ID {
		return "", models.ErrCannotFollowSelf
	}
	return s.followRepo.Toggle(ctx, follower.ID, target.ID)
}

func (s *userService) Followers(ctx context.Context, id uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowers(ctx, id)
}

func (s *userService) Following(ctx context.Context, id uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.followRepo.ListFollowing(ctx, id)
}

func (s *userService) AdminPanel(ctx context.Context, viewer *models.User, params models.UserListParams) (*models.AdminPanel, error) {
	if !models.IsPrivileged(viewer) {
		return nil, models.ErrForbidden
	}
	users, err := s.userRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &models.AdminPanel{
		User:        *viewer,
		Permissions: models.PermissionsFor(viewer),
		Users:       users,
	}, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor *models.User, id uint, info *models.RequestInfo) error {
	if !models.CanDeleteUser(actor) {
		return models.ErrForbidden
	}
	if actor.ID == id {
		return models.ErrCannotActOnSelf
	}
	target, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, target.ID); err != nil {
		return err
	}

	s.audit.Log(ctx, models.AuditEntry{
		Actor:       actor,
		ActionType:  models.ActionUserDeleted,
		Description: fmt.Sprintf("User deleted: %s", target.Username),
		TargetType:  models.TargetUser,
		TargetID:    &target.ID,
		Metadata: map[string]interface{}{
			"username": target.Username,
			"email":    target.Email,
			"role":     string(target.Role),
		},
		Request: info,
	})
	return nil
}

func (s *userService) FlagUser(ctx context.Context, actor *models.User, id uint, info *models.RequestInfo) (*models.User, error) {
	if !models.CanFlagUser(actor) {
		return nil, models.ErrForbidden
	}
	if actor.ID == id {
		return nil, models.ErrCannotActOnSelf
	}
	target, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	target.FlaggedForDeletion = true
	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, models.AuditEntry{
		Actor:       actor,
		ActionType:  models.ActionUserFlagged,
		Description: fmt.Sprintf("User flagged for deletion: %s", target.Username),
		TargetType:  models.TargetUser,
		TargetID:    &target.ID,
		Metadata: map[string]interface{}{
			"flagged_by_role": string(actor.Role),
		},
		Request: info,
	})
	return target, nil
}

func (s *userService) ChangeRole(ctx context.Context, actor *models.User, id uint, req models.ChangeRoleRequest, info *models.RequestInfo) (*models.User, error) {
	if !models.CanChangeRole(actor) {
		return nil, models.ErrForbidden
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if !req.Role.Valid() {
		return nil, models.ErrInvalidRole
	}
	if actor.ID == id {
		return nil, models.ErrCannotActOnSelf
	}
	target, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := target.Role
	target.Role = req.Role
	if err := s.userRepo.Update(ctx, target); err != nil {
		return nil, err
	}

	s.audit.Log(ctx, models.AuditEntry{
		Actor:       actor,
		ActionType:  models.ActionUserRoleChanged,
		Description: fmt.Sprintf("Role of %s changed from %s to %s", target.Username, previous, target.Role),
		TargetType:  models.TargetUser,
		TargetID:    &target.ID,
		Metadata: map[string]interface{}{
			"old_role": string(previous),
			"new_role": string(target.Role),
		},
		Request: info,
	})
	return target, nil
}
