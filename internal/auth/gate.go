package auth

import (
	"errors"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/kajilog/kajilog/internal/db/controller/invitation"
	"github.com/kajilog/kajilog/internal/db/controller/membership"
	"github.com/kajilog/kajilog/internal/db/controller/user"
	"github.com/kajilog/kajilog/internal/db/models"
)

// Profile is the verified identity assertion received from Google.
// All three fields are required; identity itself is already trusted here.
type Profile struct {
	Sub   string
	Email string
	Name  string
}

// Complete reports whether all required profile fields are present.
func (p Profile) Complete() bool {
	return p.Sub != "" && p.Email != "" && p.Name != ""
}

// Gate resolves identity assertions to user accounts.
type Gate struct {
	db *gorm.DB

	// openRegistration creates accounts for any verified identity.
	// When false, new sign-ins require a pending invitation for the email.
	openRegistration bool

	// syncProfile re-syncs stale email/name from the provider on every
	// login of a returning user.
	syncProfile bool
}

// NewGate creates a sign-in gate with the given registration policy.
func NewGate(db *gorm.DB, openRegistration, syncProfile bool) *Gate {
	return &Gate{
		db:               db,
		openRegistration: openRegistration,
		syncProfile:      syncProfile,
	}
}

// Authenticate maps a verified identity assertion to a user record,
// creating it when the registration policy permits.
//
// Users are matched by subject id only. Matching by email would let anyone
// who re-registers a released address take over the account.
//
// Any datastore failure fails the whole sign-in closed; the cause is logged
// server-side and never reaches the client.
func (g *Gate) Authenticate(profile Profile) (*models.User, error) {
	if !profile.Complete() {
		return nil, ErrIncompleteProfile
	}

	existing, err := user.FindByGoogleID(g.db, profile.Sub)
	if err == nil {
		return g.returningUser(existing, profile)
	}

	if !errors.Is(err, user.ErrUserNotFound) {
		log.Error().Err(err).Msg("sign-in: user lookup failed")
		return nil, err
	}

	if g.openRegistration {
		created, errCreate := user.Create(g.db, profile.Sub, profile.Email, profile.Name)
		if errCreate != nil {
			log.Error().Err(errCreate).Msg("sign-in: user creation failed")
			return nil, errCreate
		}

		return created, nil
	}

	return g.acceptInvitation(profile)
}

// returningUser optionally repairs stale cached profile fields.
// The overwrite is idempotent, losing a race between two logins is harmless.
func (g *Gate) returningUser(u *models.User, profile Profile) (*models.User, error) {
	if !g.syncProfile {
		return u, nil
	}

	if u.Email == profile.Email && u.Name == profile.Name {
		return u, nil
	}

	updated, err := user.Update(g.db, u.ID, profile.Name, profile.Email)
	if err != nil {
		log.Error().Err(err).Uint64("user_id", u.ID).Msg("sign-in: profile re-sync failed")
		// the stale record is still a valid identity
		return u, nil
	}

	return updated, nil
}

// acceptInvitation handles invitation-gated first sign-in: create the user,
// add the membership for the invitation's group and mark the invitation
// accepted, all in one transaction. Partial application would leave a
// registered user whose invitation is still claimable, so it is all or
// nothing.
func (g *Gate) acceptInvitation(profile Profile) (*models.User, error) {
	inv, err := invitation.FindPendingByEmail(g.db, profile.Email)
	if errors.Is(err, invitation.ErrInvitationNotFound) {
		return nil, ErrNotInvited
	}

	if err != nil {
		log.Error().Err(err).Msg("sign-in: invitation lookup failed")
		return nil, err
	}

	var created *models.User

	err = g.db.Transaction(func(tx *gorm.DB) error {
		var errTx error

		created, errTx = user.Create(tx, profile.Sub, profile.Email, profile.Name)
		if errTx != nil {
			return errTx
		}

		if _, errTx = membership.Create(tx, inv.GroupID, created.ID, models.RoleMember); errTx != nil {
			return errTx
		}

		return invitation.Accept(tx, profile.Email)
	})
	if err != nil {
		log.Error().Err(err).Str("email", profile.Email).Msg("sign-in: invitation acceptance failed")
		return nil, err
	}

	return created, nil
}

// DefaultGroupID returns the group to preselect after a successful login
// when no selected-group cookie is present: the user's oldest membership.
// Users without memberships get no selection; group-scoped operations then
// fail closed until one is made.
func (g *Gate) DefaultGroupID(userID uint64) (uint, bool, error) {
	return membership.FirstGroupID(g.db, userID)
}
