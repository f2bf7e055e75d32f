package auth

import "errors"

var (
	// ErrNoIDToken is returned when the OAuth2 token response doesn't contain an ID token.
	// This typically indicates a misconfigured provider or an incomplete authentication flow.
	ErrNoIDToken = errors.New("no id_token in token response")

	// ErrGoogleDisabled is returned when Google sign-in is disabled via configuration.
	ErrGoogleDisabled = errors.New("google authentication is disabled")

	// ErrIncompleteProfile is returned when the provider assertion is missing
	// the subject id, email or display name.
	ErrIncompleteProfile = errors.New("identity assertion is missing required profile fields")

	// ErrNotInvited is returned under invitation-gated registration when the
	// asserted email has no pending invitation.
	ErrNotInvited = errors.New("this email has not been invited")
)
