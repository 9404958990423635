package domain

import "errors"

var (
	ErrAuthorUnavailable  = errors.New("author profile unavailable")
	ErrAdapterUnavailable = errors.New("adapter unavailable")
	ErrTopicNotFound      = errors.New("topic not found")
)
