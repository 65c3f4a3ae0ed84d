package usecase

import (
	"errors"
	"strings"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrConflict              = errors.New("conflict")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// UserMessage strips the sentinel prefix so the detail can be shown to end users.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, sentinel := range []error{ErrInvalidInput, ErrNotFound, ErrUnauthorized, ErrConflict, ErrDependencyUnavailable} {
		if errors.Is(err, sentinel) {
			if _, detail, ok := strings.Cut(msg, sentinel.Error()+": "); ok && detail != "" {
				return detail
			}
		}
	}
	return msg
}
