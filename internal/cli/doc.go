// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates CLI flags, a config file and the environment into the
// application's configuration and dispatches to the app's eval, dump and
// validate entrypoints.
package cli
