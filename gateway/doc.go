// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package gateway connects bot frontends to the service over websockets.

A frontend subscribes to a chat channel with

	GET /gateway?channel=<channel id>

and receives one JSON Event per text frame whenever the service posts,
replies to, edits or closes a message in that channel. The service assigns
message ids itself, so references can be stored before the platform has
rendered the message.

Hub implements chat.Messenger. A call fails with models.ErrCollaborator when
no frontend is subscribed to the target channel.
*/
package gateway
