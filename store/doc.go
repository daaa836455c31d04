// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the SQL adapter behind the ballot registry, the voter ledger
and the tabulator.

	st := store.New(conn, logger)

Each consumer declares the subset of methods it needs as an interface, so the
adapter can be swapped in tests.

# Atomicity

UpsertBallot writes the ballot, clears its tallies and voter records and
seeds fresh tallies in one transaction.

ApplyVote is the only write path for votes. Inside one transaction it reads
the voter record, lets the caller decide the vote, writes the record back
guarded by the votes_given value it read, and adds the points to the tally
with an additive UPDATE. A concurrent vote by the same user makes the guarded
write miss, and the attempt is retried against the fresh record.

# Encoding

Option lists, remaining option ids, voting sequences and winners are stored
as JSON text. Timestamps and TTLs are unix milliseconds.
*/
package store
