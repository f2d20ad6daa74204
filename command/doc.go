// Package command exposes category resolution and quantity storage as a fixed,
// enumerated set of named commands with JSON-like arguments. It is the layer a
// conversational front end calls when it selects a command by name.
//
// Arguments are decoded into typed structs and validated before a handler runs.
// Unknown names fail with ErrUnknownCommand and bad arguments with
// ErrInvalidArguments; set_quantity only accepts paths the resolver knows.
package command
