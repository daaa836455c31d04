// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger tracks each voter's budget on a ballot and records votes.

A voter on a ballot with n options gets ceil(0.75 × n) votes. The first vote
is worth that many points, each following vote one point less, down to 1:

	l := ledger.New(st, clock.Real(), logger)
	l.Ensure(ctx, "march-2025", userID, ballot.OptionIDs())
	vote, err := l.RecordVote(ctx, "march-2025", 3, userID)

RecordVote is safe to call concurrently for the same user. The persisted
record is updated with a compare-and-set, so two in-flight votes never spend
the same point value.
*/
package ledger
