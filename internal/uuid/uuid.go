// Package uuid wraps google/uuid for gin parameter binding.
package uuid

import (
	google_uuid "github.com/google/uuid"
)

// UUID binds URI and query parameters. An empty parameter binds to Nil
// instead of failing, which keeps ID filters optional.
type UUID struct {
	google_uuid.UUID
}

// Nil is the zero UUID.
var Nil UUID

// New returns a random UUID.
func New() UUID {
	return UUID{google_uuid.New()}
}

// NewString returns a random UUID as a string.
func NewString() string {
	return google_uuid.NewString()
}

// UnmarshalParam implements gin's binding.BindUnmarshaler.
func (u *UUID) UnmarshalParam(param string) error {
	if param == "" {
		*u = Nil
		return nil
	}

	id, err := google_uuid.Parse(param)
	if err != nil {
		return err
	}

	*u = UUID{id}
	return nil
}
