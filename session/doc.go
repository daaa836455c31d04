// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session drives a voter's interactive pass over a ballot.

A session moves through

	NotStarted → AwaitingStart → Browsing(page) → Finished

and ends early in Rejected (a vote for an option the user was never offered)
or Expired (idle past the timeout). Buttons carry actions encoded as
"domain:kind:arg":

	vote:ballot:<ballot id>   announcement button, handled by Manager.Begin
	vote:start:<ballot id>    start or resume voting
	vote:option:<option id>   award the current point value
	vote:page:prev|next       move between pages of remaining options

Sessions are held in memory; the voter's budget and progress live in the
ledger, so a lost session only costs the user a click on the vote button.
*/
package session
