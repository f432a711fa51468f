// Package registry maps operations to the Go functions that evaluate them.
//
// Modules register handlers for fixed opcodes (transform_world,
// geometry_init, ...), for modifier and constraint types, and for the
// functions available to driver expressions. The builder asks the registry
// for a callback per operation, binding the handler to the scene data the
// operation evaluates.
package registry
