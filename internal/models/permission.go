package models

import "errors"

// Permission is a single capability, identified by its dotted code.
type Permission struct {
	DefaultModel
	Code        string `gorm:"uniqueIndex"`
	Name        string
	Description string
	Category    string
}

var ErrPermissionCodeNotUnique = errors.New("the permission code must be unique")

// PermissionSet holds the permission codes a user has been granted. It is
// resolved once per request and then checked with Has.
type PermissionSet map[string]struct{}

// Has reports whether the set contains the permission code.
func (s PermissionSet) Has(code string) bool {
	_, ok := s[code]
	return ok
}
