// Package integration_tests holds end-to-end tests that drive the App through
// real pipeline files on temporary project trees. Each subdirectory groups one
// area of behaviour.
package integration_tests
