// Package session keeps the signed-in user between requests. The flows
// only need it for the registration navigation refresh and for sending the
// access token with catalog writes.
package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/goliatone/go-formflow/pkg/model"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session: not found")

// Store persists users by session ID.
type Store interface {
	Get(ctx context.Context, id string) (model.User, error)
	Put(ctx context.Context, id string, user model.User) error
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh random session ID.
func NewID() string {
	return uuid.NewString()
}

// Valid reports whether id looks like an ID issued by NewID.
func Valid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func sanitize(user model.User) model.User {
	user.Password = ""
	return user
}
