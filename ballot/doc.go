// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ballot owns ballot lifecycle state.

Registry stores ballots and their flags:

	reg := ballot.NewRegistry(st, clock.Real(), logger)
	b, err := reg.CreateOrReplace(ctx, "march-2025", options, posted, 24*time.Hour, false)

Creator runs the whole creation flow: it lists the forum threads tagged for
the period, keeps those with an image, posts the announcement and stores the
result through the registry.

A ballot id is derived from its period with ID("March", 2025) == "march-2025".
*/
package ballot
