package domain

import "github.com/pkg/errors"

var (
	// ErrEntryNotFound is returned by a keystore when no entry exists under a tag.
	ErrEntryNotFound = errors.New("keystore entry not found")
	// ErrChannelClosed is returned when the channel to the keystore process is gone.
	ErrChannelClosed = errors.New("keystore channel closed")
)
