// Package cli turns command-line arguments into an application Config. It
// validates flag combinations and owns process-level concerns such as usage
// errors and exit codes.
package cli
