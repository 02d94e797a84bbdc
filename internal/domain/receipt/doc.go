// Package receipt contains the receipt rendering engine.
// It turns an invoice snapshot and a render configuration into an ordered
// sequence of text rows and printer directives, and packages that sequence
// into the raw payload consumed by the browser print bridge.
package receipt
