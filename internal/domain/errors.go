package domain

import (
	"errors"
	"fmt"
)

var (
	ErrFetch                = errors.New("provider fetch failed")
	ErrStorageUnavailable   = errors.New("snapshot storage unavailable")
	ErrStorageWriteFailed   = errors.New("snapshot write failed")
	ErrChannelMisconfigured = errors.New("channel misconfigured")
	ErrChannelSendFailed    = errors.New("channel send failed")
)

// ChannelError ties a channel failure to the channel that produced it.
// Kind is ErrChannelMisconfigured or ErrChannelSendFailed.
type ChannelError struct {
	Channel string
	Kind    error
	Err     error
}

func (e *ChannelError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Channel, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Channel, e.Kind, e.Err)
}

func (e *ChannelError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
