package httputil

import "errors"

// ErrInvalidBody is returned when the request body cannot be parsed as JSON.
var ErrInvalidBody = errors.New("the body of your request contains invalid or un-parseable data. Please check and try again")

// ErrRequestBodyEmpty is returned when a request that requires a body does not have one.
var ErrRequestBodyEmpty = errors.New("the request body must not be empty")
