// Package cli turns command-line arguments into an app.Config. Usage errors
// are returned as ExitError carrying exit code 2; --help is reported as a
// clean exit.
package cli
