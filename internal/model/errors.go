package model

import "errors"

var (
	ErrScriptNotFound  = errors.New("script not found")
	ErrScriptExists    = errors.New("script already exists")
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidLogLevel = errors.New("invalid log level")
	ErrInvalidLogType  = errors.New("invalid log type")
)
