package models

// Permission checks are plain predicates over the user value so callers can
// evaluate them without touching the database.

func IsAdmin(u *User) bool {
	return u != nil && u.Role == RoleAdmin
}

func IsModerator(u *User) bool {
	return u != nil && u.Role == RoleModerator
}

// IsPrivileged reports whether u is an admin or a moderator.
func IsPrivileged(u *User) bool {
	return IsAdmin(u) || IsModerator(u)
}

func CanDeleteRecipe(u *User, r *Recipe) bool {
	if u == nil || r == nil {
		return false
	}
	return r.AuthorID == u.ID || IsPrivileged(u)
}

func CanEditRecipe(u *User, r *Recipe) bool {
	return u != nil && r != nil && r.AuthorID == u.ID
}

func CanDeleteUser(u *User) bool {
	return IsAdmin(u)
}

func CanFlagUser(u *User) bool {
	return IsPrivileged(u)
}

func CanChangeRole(u *User) bool {
	return IsAdmin(u)
}

func CanViewLogs(u *User) bool {
	return IsPrivileged(u)
}

// CanViewRecipe applies the visibility rule to a single recipe. A nil user is
// an anonymous visitor.
func CanViewRecipe(u *User, r *Recipe) bool {
	if r == nil {
		return false
	}
	if r.Visibility != VisibilityPrivate {
		return true
	}
	if u == nil {
		return false
	}
	return r.AuthorID == u.ID || IsPrivileged(u)
}

type Permissions struct {
	CanDeleteUsers   bool `json:"can_delete_users"`
	CanFlagUsers     bool `json:"can_flag_users"`
	CanDeleteRecipes bool `json:"can_delete_recipes"`
	CanChangeRoles   bool `json:"can_change_roles"`
	CanViewLogs      bool `json:"can_view_logs"`
}

func PermissionsFor(u *User) Permissions {
	return Permissions{
		CanDeleteUsers:   CanDeleteUser(u),
		CanFlagUsers:     CanFlagUser(u),
		CanDeleteRecipes: IsPrivileged(u),
		CanChangeRoles:   CanChangeRole(u),
		CanViewLogs:      CanViewLogs(u),
	}
}
