package svc

import "errors"

// ErrStorageInitFailed wraps any recorder that could not be opened.
var ErrStorageInitFailed = errors.New("storage initialization failed")

// ErrFeedInitFailed wraps a feed listener that could not be bound.
var ErrFeedInitFailed = errors.New("feed initialization failed")
