package models

import "time"

// InvitationStatus represents the lifecycle state of an invitation.
type InvitationStatus string

const (
	// InvitationPending means the invited email has not signed in yet.
	InvitationPending InvitationStatus = "pending"
	// InvitationAccepted means the invitation was consumed at first sign-in.
	InvitationAccepted InvitationStatus = "accepted"
)

// Invitation is a pending grant of future membership: it allows a specific
// email to join a specific group upon first Google sign-in. The transition
// pending to accepted happens exactly once, atomically with the creation of
// the new User and GroupMember records.
type Invitation struct {
	// ID is the unique identifier for the invitation.
	ID uint64 `gorm:"primaryKey"`
	// Email is the invited email address.
	Email string `gorm:"size:255;not null;index"`
	// GroupID is the group the invitee will join.
	GroupID uint `gorm:"column:group_id;not null"`
	// Group is the associated group record.
	Group Group `gorm:"foreignKey:GroupID;references:ID"`
	// InvitedBy references the user who created the invitation.
	InvitedBy uint64 `gorm:"column:invited_by;not null"`
	// Status is pending or accepted.
	Status InvitationStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	// CreatedAt is the timestamp when the invitation was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the invitation was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Invitation model.
func (Invitation) TableName() string {
	return "invitations"
}
