// File: bridge/doc.go
// Package bridge
// Author: momentics <momentics@gmail.com>
//
// Bridge roles on top of a channel endpoint. Host is the plugin-host
// side: it relays port events down to the child UI, answers URID map
// requests through the host's mapper and records the child's plugged
// window id. UI is the child side: it forwards widget changes up as port
// events, announces its window id and interns URIDs on demand through a
// synchronous round trip.
//
// The toolkit embedding itself (window plugging, widget instantiation)
// and the plugin ABI stay outside this package; both roles speak only the
// record protocol.
package bridge
