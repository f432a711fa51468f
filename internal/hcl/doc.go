// Package hcl loads scene descriptions written in HCL into the
// format-agnostic scene model. It is responsible for file discovery,
// parsing, and HCL-to-model translation. Driver expressions are kept as
// HCL expressions for the builder and the driver handler to analyze.
package hcl
