// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package tally turns accumulated vote points into ordered results and the
// rank groups announced when a ballot closes.
package tally
