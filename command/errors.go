package command

import "errors"

var (
	// ErrUnknownCommand indicates a tag outside the fixed command set or one
	// that is not available in this registry.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrInvalidArguments indicates arguments that do not decode into the
	// command's argument type or fail its validation.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrUnknownCategory indicates a path that is not part of the taxonomy.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrResolverRequired is returned when no resolver is provided.
	ErrResolverRequired = errors.New("resolver required")
)
