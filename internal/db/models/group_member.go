package models

import "time"

// Role represents the role of a member inside a group.
type Role string

const (
	// RoleAdmin can manage members and invitations of the group.
	RoleAdmin Role = "admin"
	// RoleMember is a regular group member.
	RoleMember Role = "member"
	// RoleSystem is reserved for non-human service accounts.
	RoleSystem Role = "system"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleSystem:
		return true
	default:
		return false
	}
}

// GroupMember links exactly one user to exactly one group with a role.
// The (group_id, user_id) pair carries a unique index; the index is the
// enforcement point for the at-most-one-membership invariant, application
// level pre-checks are only a courtesy.
type GroupMember struct {
	// ID is the unique identifier for the membership.
	ID uint64 `gorm:"primaryKey"`
	// GroupID is the ID of the group in this membership.
	GroupID uint `gorm:"column:group_id;not null;uniqueIndex:idx_group_user"`
	// UserID is the ID of the user in this membership.
	UserID uint64 `gorm:"column:user_id;not null;uniqueIndex:idx_group_user"`
	// Role is the member's role inside the group.
	Role Role `gorm:"type:varchar(20);not null;default:'member'"`
	// JoinedAt is the timestamp the membership was created. Immutable.
	JoinedAt time.Time `gorm:"column:joined_at;autoCreateTime"`

	// GroupName is the display name of the owning group, filled by list
	// queries via a left join. Not a column.
	GroupName string `gorm:"-" json:"groupName,omitempty"`
}

// TableName specifies the database table name for the GroupMember model.
func (GroupMember) TableName() string {
	return "group_members"
}
