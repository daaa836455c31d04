// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package chat defines how the service talks to the chat platform and renders
// the text it posts there.
package chat
