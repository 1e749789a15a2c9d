package account

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrUnknownBackend     = errors.New("unknown usage counter backend")
	ErrRedisNotConfigured = errors.New("redis usage counter requires a redis client")
)
