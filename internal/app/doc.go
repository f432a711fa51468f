// Package app wires configuration, logging, tracing, the module registry and
// a local session into one App, and exposes the eval, dump and validate
// entrypoints used by the CLI and by end-to-end tests.
package app
