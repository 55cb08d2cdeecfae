// Package cli turns command-line flags into an app.Config and maps usage
// errors to process exit codes.
package cli
