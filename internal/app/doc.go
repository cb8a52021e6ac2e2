// Package app assembles and drives the reporting pipeline. The App struct
// owns the collaborators built from configuration and walks a run from
// reading dependency dumps through delivering the rendered report, decoupled
// from the CLI entrypoint.
package app
