package models

import (
	"errors"
)

// Errors returned by multiple models. Errors specific to one resource are
// defined next to that resource.
var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no") // completed with the resource name by queryCallback
	ErrNotAuthenticated = errors.New("you are not authenticated or your session has expired")
	ErrNoPermission     = errors.New("you do not have the permission to perform this action")
	ErrReferenced       = errors.New("this resource is still referenced by other resources and cannot be deleted")
)
