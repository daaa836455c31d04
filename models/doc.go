// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types shared by every
other package.

# Domain Types

  - Ballot: one contest period, its embedded options and lifecycle flags
  - Option: a submission on the ballot, numbered from 1
  - VoterRecord: per (ballot, user) budget and progress
  - Result: accumulated points of one option
  - RankGroup: options sharing one point total

# Chat Types

Platform-neutral shapes exchanged with the chat collaborator:

  - Thread, Attachment: forum submissions
  - Message, Button: rendered output
  - MessageRef: channel and message id of a posted message

# Errors

Sentinel errors, matched with errors.Is:

	ErrAlreadyExists    ballot id collision without force
	ErrNotFound         unknown ballot, option, tag or voter
	ErrBudgetExhausted  voter has no points left
	ErrInvalidOption    option not in the voter's remaining set
	ErrBallotClosed     voting on a closed ballot
	ErrCollaborator     chat platform I/O failure
*/
package models
