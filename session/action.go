// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"fmt"
	"strings"
)

const DomainVote = "vote"

// Action kinds
const (
	KindBallot = "ballot" // announcement button, opens a session
	KindStart  = "start"
	KindOption = "option"
	KindPage   = "page"
)

const (
	PagePrev = "prev"
	PageNext = "next"
)

// Action is a decoded button custom id of the form "domain:kind:arg".
type Action struct {
	Domain string
	Kind   string
	Arg    string
}

func (a Action) String() string {
	return a.Domain + ":" + a.Kind + ":" + a.Arg
}

// ParseAction decodes a custom id. The argument may itself contain colons.
func ParseAction(customID string) (Action, error) {
	parts := strings.SplitN(customID, ":", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return Action{}, fmt.Errorf("%w: %q", ErrUnknownAction, customID)
	}
	return Action{Domain: parts[0], Kind: parts[1], Arg: parts[2]}, nil
}
