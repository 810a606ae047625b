package entities

import (
	"errors"
	"fmt"
)

// Rejection kinds. A rejected request never mutates state.
var (
	ErrCooldownActive      = errors.New("cooldown active")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidOption       = errors.New("invalid poll option")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnknownGame         = errors.New("unknown game")
	ErrMemberNotFound      = errors.New("member not found")
)

// Rejection is a descriptive refusal of user input
type Rejection struct {
	Kind    error
	Message string
}

// Reject builds a rejection of the given kind
func Reject(kind error, format string, args ...any) *Rejection {
	return &Rejection{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (r *Rejection) Error() string {
	return r.Message
}

func (r *Rejection) Unwrap() error {
	return r.Kind
}

// IsRejection reports whether err is a user input rejection
func IsRejection(err error) bool {
	var r *Rejection
	return errors.As(err, &r)
}
