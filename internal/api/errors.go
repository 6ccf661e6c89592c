package api

import "errors"

// AuthError indicates that authentication has failed or expired.
// It is returned when the gateway responds with a 401.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// errorResponse is the gateway's standard error envelope.
type errorResponse struct {
	Error string `json:"error"`
}
