package core

import "errors"

// Error codes for domain errors.
const (
	ErrCodeAuthRequired     = "auth_required"
	ErrCodeRoomNotFound     = "room_not_found"
	ErrCodeRoomNotJoinable  = "room_not_joinable"
	ErrCodeNotHost          = "not_host"
	ErrCodeCapacityExceeded = "capacity_exceeded"
	ErrCodeBadRequest       = "bad_request"
)

var (
	ErrAuthRequired     = errors.New("authentication required")
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomNotJoinable  = errors.New("room not joinable")
	ErrCapacityExceeded = errors.New("join code space exhausted")
)

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}
