// Package membership provides persistence operations for group memberships.
package membership

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/db/models"
)

const groupUserQueryPattern = "group_id = ? AND user_id = ?"

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrAlreadyMember is returned when the (group, user) pair already exists.
	ErrAlreadyMember = errors.New("user is already a member of this group")
	// ErrInvalidRole is returned when the role is not a known value.
	ErrInvalidRole = errors.New("invalid membership role")
)

// memberRow is the scan target for membership list queries that join the
// owning group for its display name.
type memberRow struct {
	ID        uint64
	GroupID   uint
	UserID    uint64
	Role      models.Role
	JoinedAt  sql.NullTime
	GroupName sql.NullString
}

func (r memberRow) toModel() models.GroupMember {
	m := models.GroupMember{
		ID:      r.ID,
		GroupID: r.GroupID,
		UserID:  r.UserID,
		Role:    r.Role,
	}

	if r.JoinedAt.Valid {
		m.JoinedAt = r.JoinedAt.Time
	}

	// left join semantics: synthesize a label when the group row is missing
	if r.GroupName.Valid && r.GroupName.String != "" {
		m.GroupName = r.GroupName.String
	} else {
		m.GroupName = fmt.Sprintf("Group %d", r.GroupID)
	}

	return m
}

// FindByUserID returns all memberships of a user, ordered by membership id,
// each enriched with the owning group's display name.
func FindByUserID(db *gorm.DB, userID uint64) ([]models.GroupMember, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var rows []memberRow

	err := db.Table("group_members").
		Select("group_members.id, group_members.group_id, group_members.user_id, group_members.role, group_members.joined_at, groups.name AS group_name").
		Joins("LEFT JOIN groups ON groups.id = group_members.group_id").
		Where("group_members.user_id = ?", userID).
		Order("group_members.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make([]models.GroupMember, 0, len(rows))
	for _, r := range rows {
		members = append(members, r.toModel())
	}

	return members, nil
}

// FindByGroupID returns all memberships of a group, ordered by membership id.
func FindByGroupID(db *gorm.DB, groupID uint) ([]models.GroupMember, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var members []models.GroupMember

	err := db.Where("group_id = ?", groupID).
		Order("id ASC").
		Find(&members).Error
	if err != nil {
		return nil, err
	}

	return members, nil
}

// IsUserInGroup reports whether the user is a member of the group.
// The unique index on (group_id, user_id) makes this a single indexed lookup.
func IsUserInGroup(db *gorm.DB, userID uint64, groupID uint) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	var count int64

	err := db.Model(&models.GroupMember{}).
		Where(groupUserQueryPattern, groupID, userID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// FirstGroupID returns the group id of the user's oldest membership.
// The order is by membership id, so the default selection is stable.
func FirstGroupID(db *gorm.DB, userID uint64) (uint, bool, error) {
	if db == nil {
		return 0, false, ErrDBNil
	}

	var member models.GroupMember

	err := db.Where("user_id = ?", userID).
		Order("id ASC").
		First(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	return member.GroupID, true, nil
}

// Create adds a user to a group with the given role (member when empty).
// Returns ErrAlreadyMember when the pair already exists. The pre-check keeps
// the common path friendly, the unique index catches concurrent writers.
func Create(db *gorm.DB, groupID uint, userID uint64, role models.Role) (*models.GroupMember, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if role == "" {
		role = models.RoleMember
	}

	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	exists, err := IsUserInGroup(db, userID, groupID)
	if err != nil {
		return nil, err
	}

	if exists {
		return nil, ErrAlreadyMember
	}

	member := &models.GroupMember{
		GroupID: groupID,
		UserID:  userID,
		Role:    role,
	}

	if err := db.Create(member).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyMember
		}

		return nil, err
	}

	return member, nil
}

// Delete removes a membership by (group, user) pair. A missing membership is
// not an error; the returned bool reports whether a row was actually removed.
func Delete(db *gorm.DB, groupID uint, userID uint64) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	result := db.Where(groupUserQueryPattern, groupID, userID).
		Delete(&models.GroupMember{})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// isUniqueViolation reports whether err is a unique constraint failure.
// Covers both gorm's translated error and the raw SQLite message.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
