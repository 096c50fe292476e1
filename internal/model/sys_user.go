package model

import "time"

// ==================== SysUser ====================

// UserRole operator role. Admins and moderators are privileged submitters:
// entries they create are not flagged as community-origin.
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleModerator UserRole = "moderator"
	UserRoleMember    UserRole = "member"
)

// Privileged reports whether the role may submit non-community entries.
func (r UserRole) Privileged() bool {
	return r == UserRoleAdmin || r == UserRoleModerator
}

// UserStatus account state.
type UserStatus int

const (
	UserStatusDisabled UserStatus = 0
	UserStatusActive   UserStatus = 1
)

// SysUser is an authenticated account (the identity collaborator's record).
type SysUser struct {
	BaseModel

	Username string     `gorm:"size:100;not null;uniqueIndex" json:"username"`
	Password string     `gorm:"size:255;not null" json:"-"`
	Email    string     `gorm:"size:255" json:"email,omitempty"`
	Role     UserRole   `gorm:"size:16;not null;default:member" json:"role"`
	Status   UserStatus `gorm:"not null;default:1" json:"status"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func (SysUser) TableName() string { return "sys_users" }
