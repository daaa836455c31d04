// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package scheduler runs the periodic lifecycle sweep over open ballots.

Each sweep, for every open ballot:

  - past its TTL: disable the vote button, announce the rank groups, close
    the ballot with its winners and post the voting statistics
  - within the warning window and not yet warned: post the closing warning

Closing takes precedence over warning. A failure on one ballot is logged and
leaves that ballot open for the next sweep; the other ballots are still
processed. Sweeps never overlap.
*/
package scheduler
