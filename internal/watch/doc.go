// Package watch reruns tasks when their source files change.
//
// A Source turns filesystem notifications into debounced Events. The
// Controller consumes Events one at a time, maps each to the bindings whose
// selectors match it, and reruns the bound tasks strictly one after another,
// notifying the live-reload channel with the files each rerun wrote.
package watch
