// Package config loads the engine's runtime settings from an optional YAML
// file and DEPSGRAPH_* environment variables. Command-line flags are applied
// on top by the CLI.
package config
