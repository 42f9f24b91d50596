package services

import (
	"context"
	"errors"
)

// IdentityUser is what the external identity provider knows about the
// signed-in user.
type IdentityUser struct {
	ID             string
	FirstName      string
	EmailAddresses []string
}

// PrimaryEmail returns the user's first email address, or "" when none is
// known.
func (u *IdentityUser) PrimaryEmail() string {
	if len(u.EmailAddresses) == 0 {
		return ""
	}
	return u.EmailAddresses[0]
}

// IdentityProvider is the contract of the external identity collaborator.
// The core never provisions identities; it only consumes a stable user id
// and email.
type IdentityProvider interface {
	CurrentUser(ctx context.Context) (*IdentityUser, error)
}

// ErrNotSignedIn is returned when no user is available.
var ErrNotSignedIn = errors.New("no signed-in user")

// StaticIdentity is an IdentityProvider that always answers with one fixed
// user. The UI wiring constructs it from its session; tests use it directly.
type StaticIdentity struct {
	User IdentityUser
}

func (s StaticIdentity) CurrentUser(ctx context.Context) (*IdentityUser, error) {
	if s.User.ID == "" {
		return nil, ErrNotSignedIn
	}
	user := s.User
	return &user, nil
}
