package models

import "errors"

var ErrNotFound = errors.New("not found")

// ValidationError rejects user input. Key names the translated message shown
// to the user.
type ValidationError struct {
	Key string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Key
}

func Invalid(key string) error {
	return &ValidationError{Key: key}
}

// IsValidation reports whether err is a ValidationError and returns its key.
func IsValidation(err error) (string, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v.Key, true
	}
	return "", false
}
