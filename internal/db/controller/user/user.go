// Package user provides persistence operations for user accounts.
package user

import (
	"errors"

	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/db/models"
)

var (
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrNothingToUpdate is returned when an update carries no fields.
	ErrNothingToUpdate = errors.New("no fields to update")
)

// FindByID retrieves a user by internal id.
func FindByID(db *gorm.DB, id uint64) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User

	result := db.First(&u, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &u, nil
}

// FindByGoogleID retrieves a user by the OAuth subject id. This is the only
// key identities are matched on; matching by email would allow hijacking an
// account by re-registering its address.
func FindByGoogleID(db *gorm.DB, googleID string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User

	result := db.Where("google_id = ?", googleID).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &u, nil
}

// FindByEmail retrieves a user by email address.
func FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var u models.User

	result := db.Where("email = ?", email).First(&u)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, result.Error
	}

	return &u, nil
}

// FindAll retrieves all users ordered by id.
func FindAll(db *gorm.DB) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User

	result := db.Order("id ASC").Find(&users)
	if result.Error != nil {
		return nil, result.Error
	}

	return users, nil
}

// Create inserts a new user record.
func Create(db *gorm.DB, googleID, email, name string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	u := &models.User{
		GoogleID: googleID,
		Email:    email,
		Name:     name,
	}

	result := db.Create(u)
	if result.Error != nil {
		return nil, result.Error
	}

	return u, nil
}

// Update changes name and/or email of an existing user. Empty strings leave
// the field untouched; at least one field must be given.
func Update(db *gorm.DB, id uint64, name, email string) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if name == "" && email == "" {
		return nil, ErrNothingToUpdate
	}

	u, err := FindByID(db, id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		u.Name = name
	}

	if email != "" {
		u.Email = email
	}

	result := db.Save(u)
	if result.Error != nil {
		return nil, result.Error
	}

	return u, nil
}
