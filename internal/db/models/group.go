package models

import "time"

// Group represents a sharing boundary for household activities.
// Groups are soft-deleted: DeletedAt set means the group is inactive and is
// excluded from active listings; member management and updates are rejected.
type Group struct {
	// ID is the unique identifier for the group.
	ID uint `gorm:"primaryKey"`
	// Name is the display name of the group.
	Name string `gorm:"size:100;not null"`
	// CreatedBy references the user who created the group.
	CreatedBy uint64 `gorm:"column:created_by;not null"`
	// Creator is the associated user record.
	Creator User `gorm:"foreignKey:CreatedBy;references:ID"`
	// DeletedAt is the soft delete marker; nil means the group is active.
	DeletedAt *time.Time `gorm:"index"`
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the group was last updated (managed by GORM).
	UpdatedAt time.Time
}

// Active reports whether the group has not been soft-deleted.
func (g *Group) Active() bool {
	return g.DeletedAt == nil
}

// TableName specifies the database table name for the Group model.
func (Group) TableName() string {
	return "groups"
}
