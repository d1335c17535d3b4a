// Package ipc serves the local control channel that toggles board cells.
//
// The channel is a Unix domain socket. A client connects, writes one
// newline-terminated two-character address such as "b2", and disconnects.
// The [Listener] serves one client at a time as an explicit state machine:
//
//	Idle -> AwaitingConnection -> Connected -> Draining -> AwaitingConnection
//
// Idle is the bound-but-not-serving state before [Listener.Serve] starts and
// after it returns. In Connected exactly one line is read; a line of length
// two is forwarded to the [Toggler], anything else is dropped. The connection
// is then closed and the listener sleeps for a short reconnect delay in
// Draining before accepting again, which bounds CPU use when a client
// reconnects in a tight loop.
//
// Read errors from a single client are logged and treated as a disconnect;
// they never stop the loop. Only a failure to bind the socket is fatal.
//
// By default there is no read timeout, so a client that connects and stays
// silent holds the listener in Connected until it disconnects or the serve
// context is cancelled. [WithReadTimeout] bounds that wait.
package ipc
