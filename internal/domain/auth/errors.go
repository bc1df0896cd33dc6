package auth

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrEmployeeIDRequired    = errors.New("token is not bound to an employee")
	ErrManagerAccessRequired = errors.New("manager access required")
)
