package models

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrConfiguration  = errors.New("configuration error")
	ErrAuthentication = errors.New("authentication error")
	ErrQuery          = errors.New("query error")
)

// Error carries one of the kinds above, a message and an optional cause.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func NewConfigurationError(msg string) error {
	return &Error{Kind: ErrConfiguration, Msg: msg}
}

func NewAuthenticationError(msg string, err error) error {
	return &Error{Kind: ErrAuthentication, Msg: msg, Err: err}
}

func NewQueryError(msg string, err error) error {
	return &Error{Kind: ErrQuery, Msg: msg, Err: err}
}
