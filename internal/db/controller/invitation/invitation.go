// Package invitation provides persistence operations for group invitations.
package invitation

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrInvitationNotFound is returned when an invitation does not exist.
	ErrInvitationNotFound = errors.New("invitation not found")
	// ErrAlreadyInvited is returned when a pending invitation for the email already exists.
	ErrAlreadyInvited = errors.New("user is already invited")
	// ErrEmailEmpty is returned when creating an invitation without an email.
	ErrEmailEmpty = errors.New("invitation email cannot be empty")
)

// FindByID retrieves an invitation by id.
func FindByID(db *gorm.DB, id uint64) (*models.Invitation, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var inv models.Invitation

	result := db.First(&inv, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}

		return nil, result.Error
	}

	return &inv, nil
}

// FindAll retrieves all invitations ordered by id.
func FindAll(db *gorm.DB) ([]models.Invitation, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var invitations []models.Invitation

	result := db.Order("id ASC").Find(&invitations)
	if result.Error != nil {
		return nil, result.Error
	}

	return invitations, nil
}

// FindByGroupID retrieves all invitations targeting a group.
func FindByGroupID(db *gorm.DB, groupID uint) ([]models.Invitation, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var invitations []models.Invitation

	result := db.Where("group_id = ?", groupID).Order("id ASC").Find(&invitations)
	if result.Error != nil {
		return nil, result.Error
	}

	return invitations, nil
}

// FindPendingByEmail retrieves the pending invitation for an email, if any.
// Matching is case-insensitive; addresses are stored lowercased.
func FindPendingByEmail(db *gorm.DB, email string) (*models.Invitation, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var inv models.Invitation

	result := db.Where("email = ? AND status = ?", strings.ToLower(email), models.InvitationPending).
		Order("id ASC").
		First(&inv)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}

		return nil, result.Error
	}

	return &inv, nil
}

// Create inserts a pending invitation, storing the email lowercased. At most
// one pending invitation per email is allowed; duplicates are rejected with
// ErrAlreadyInvited.
func Create(db *gorm.DB, email string, groupID uint, invitedBy uint64) (*models.Invitation, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if email == "" {
		return nil, ErrEmailEmpty
	}

	email = strings.ToLower(email)

	_, err := FindPendingByEmail(db, email)
	if err == nil {
		return nil, ErrAlreadyInvited
	}

	if !errors.Is(err, ErrInvitationNotFound) {
		return nil, err
	}

	inv := &models.Invitation{
		Email:     email,
		GroupID:   groupID,
		InvitedBy: invitedBy,
		Status:    models.InvitationPending,
	}

	result := db.Create(inv)
	if result.Error != nil {
		return nil, result.Error
	}

	return inv, nil
}

// Accept transitions the pending invitation for an email to accepted.
// Called inside the sign-in transaction together with the user and
// membership writes.
func Accept(db *gorm.DB, email string) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Model(&models.Invitation{}).
		Where("email = ? AND status = ?", strings.ToLower(email), models.InvitationPending).
		Update("status", models.InvitationAccepted)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrInvitationNotFound
	}

	return nil
}

// Delete removes an invitation by id.
func Delete(db *gorm.DB, id uint64) error {
	if db == nil {
		return ErrDBNil
	}

	result := db.Delete(&models.Invitation{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrInvitationNotFound
	}

	return nil
}
