// Package notify renders availability reports and fans them out to the
// configured channels. Each channel succeeds or fails on its own.
package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/multierr"
)

// Message is what every channel sends. Channels without a subject line
// (SMS) ignore Subject.
type Message struct {
	Subject string
	Body    string
}

type Channel interface {
	Name() string
	Enabled() bool
	// Ready names the missing credential material, if any, without
	// touching the network.
	Ready() error
	Send(ctx context.Context, msg Message) error
}

type Status string

const (
	StatusSent          Status = "sent"
	StatusDisabled      Status = "disabled"
	StatusMisconfigured Status = "misconfigured"
	StatusFailed        Status = "failed"
)

// Outcome is the result of one channel in one dispatch. Error carries
// Err's text for JSON consumers.
type Outcome struct {
	Channel string `json:"channel"`
	Status  Status `json:"status"`
	Error   string `json:"error,omitempty"`
	Err     error  `json:"-"`
}

type Outcomes []Outcome

// Err combines every misconfigured and failed outcome, nil if none.
func (o Outcomes) Err() error {
	var err error
	for _, oc := range o {
		if oc.Err != nil {
			err = multierr.Append(err, oc.Err)
		}
	}
	return err
}

// Count returns how many outcomes have status s.
func (o Outcomes) Count(s Status) int {
	n := 0
	for _, oc := range o {
		if oc.Status == s {
			n++
		}
	}
	return n
}

// missing turns a set of "is this absent?" checks into one Ready error.
func missing(checks map[string]bool) error {
	var names []string
	for name, absent := range checks {
		if absent {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	return fmt.Errorf("missing %s", strings.Join(names, ", "))
}
