// Package group provides persistence operations for groups.
package group

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrGroupNotFound is returned when a group does not exist.
	ErrGroupNotFound = errors.New("group not found")
	// ErrGroupDeleted is returned for write operations on a soft-deleted group.
	ErrGroupDeleted = errors.New("cannot update deleted group")
	// ErrGroupNameEmpty is returned when creating or renaming a group without a name.
	ErrGroupNameEmpty = errors.New("group name cannot be empty")
)

// FindByID retrieves a group by its id, soft-deleted ones included.
func FindByID(db *gorm.DB, id uint) (*models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var g models.Group

	result := db.First(&g, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}

		return nil, result.Error
	}

	return &g, nil
}

// FindActive retrieves all groups that have not been soft-deleted.
func FindActive(db *gorm.DB) ([]models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var groups []models.Group

	result := db.Where("deleted_at IS NULL").Order("id ASC").Find(&groups)
	if result.Error != nil {
		return nil, result.Error
	}

	return groups, nil
}

// FindByCreatedBy retrieves all groups created by the given user.
func FindByCreatedBy(db *gorm.DB, userID uint64) ([]models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var groups []models.Group

	result := db.Where("created_by = ?", userID).Order("id ASC").Find(&groups)
	if result.Error != nil {
		return nil, result.Error
	}

	return groups, nil
}

// Create creates a group and adds the creator as admin member in one
// transaction. A half-created group without its admin would be unreachable,
// so both writes commit together.
func Create(db *gorm.DB, name string, createdBy uint64) (*models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrGroupNameEmpty
	}

	g := &models.Group{
		Name:      name,
		CreatedBy: createdBy,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}

		member := &models.GroupMember{
			GroupID: g.ID,
			UserID:  createdBy,
			Role:    models.RoleAdmin,
		}

		return tx.Create(member).Error
	})
	if err != nil {
		return nil, err
	}

	return g, nil
}

// Update renames a group. Soft-deleted groups reject updates.
func Update(db *gorm.DB, id uint, name string) (*models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" {
		return nil, ErrGroupNameEmpty
	}

	g, err := FindByID(db, id)
	if err != nil {
		return nil, err
	}

	if !g.Active() {
		return nil, ErrGroupDeleted
	}

	g.Name = name

	result := db.Save(g)
	if result.Error != nil {
		return nil, result.Error
	}

	return g, nil
}

// SoftDelete marks a group as deleted by setting its deletion timestamp.
// Already deleted groups report ErrGroupNotFound, matching the read side.
func SoftDelete(db *gorm.DB, id uint) error {
	if db == nil {
		return ErrDBNil
	}

	g, err := FindByID(db, id)
	if err != nil {
		return err
	}

	if !g.Active() {
		return ErrGroupNotFound
	}

	now := time.Now()
	g.DeletedAt = &now

	return db.Save(g).Error
}
