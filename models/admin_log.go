package models

import (
	"time"

	"gorm.io/datatypes"
)

type ActionType string

const (
	ActionUserCreated     ActionType = "user_created"
	ActionUserUpdated     ActionType = "user_updated"
	ActionUserDeleted     ActionType = "user_deleted"
	ActionUserFlagged     ActionType = "user_flagged"
	ActionUserRoleChanged ActionType = "user_role_changed"
	ActionUserLogin       ActionType = "user_login"
	ActionUserLogout      ActionType = "user_logout"
	ActionRecipeCreated   ActionType = "recipe_created"
	ActionRecipeUpdated   ActionType = "recipe_updated"
	ActionRecipeDeleted   ActionType = "recipe_deleted"
	ActionAdmin           ActionType = "admin_action"
	ActionModerator       ActionType = "moderator_action"
	ActionOther           ActionType = "other"
)

var ActionTypes = []ActionType{
	ActionUserCreated,
	ActionUserUpdated,
	ActionUserDeleted,
	ActionUserFlagged,
	ActionUserRoleChanged,
	ActionUserLogin,
	ActionUserLogout,
	ActionRecipeCreated,
	ActionRecipeUpdated,
	ActionRecipeDeleted,
	ActionAdmin,
	ActionModerator,
	ActionOther,
}

const (
	TargetUser   = "User"
	TargetRecipe = "Recipe"
)

const MaxUserAgentLength = 255

// AdminLog is append-only. Actor is nil for system actions and is nulled
// when the acting user is deleted.
type AdminLog struct {
	ID          uint              `json:"id" gorm:"primarykey"`
	ActorID     *uint             `json:"actor_id" gorm:"index"`
	Actor       *User             `json:"actor,omitempty" gorm:"foreignKey:ActorID;constraint:OnDelete:SET NULL"`
	ActionType  ActionType        `json:"action_type" gorm:"size:50;not null;index"`
	TargetType  string            `json:"target_type" gorm:"size:50;index:idx_admin_log_target"`
	TargetID    *uint             `json:"target_id" gorm:"index:idx_admin_log_target"`
	Description string            `json:"description" gorm:"type:text"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	IPAddress   *string           `json:"ip_address" gorm:"size:45"`
	UserAgent   string            `json:"user_agent" gorm:"size:255"`
	Timestamp   time.Time         `json:"timestamp" gorm:"not null;index"`
}

// RequestInfo carries the client details recorded with an audit entry.
type RequestInfo struct {
	IP        string
	UserAgent string
}

type AuditEntry struct {
	Actor       *User
	ActionType  ActionType
	Description string
	TargetType  string
	TargetID    *uint
	Metadata    map[string]interface{}
	Request     *RequestInfo
}

type LogActorOption struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
}

type LogFilterOptions struct {
	ActionTypes   []string         `json:"action_types"`
	TargetTypes   []string         `json:"target_types"`
	Actors        []LogActorOption `json:"actors"`
	ActionChoices []ActionType     `json:"action_choices"`
}
