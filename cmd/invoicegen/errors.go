package main

import "errors"

// Sentinel errors for CLI operations.
var (
	ErrUsage          = errors.New("invalid usage")
	ErrUnknownCommand = errors.New("unknown command")
	ErrNotTerminal    = errors.New("the form needs an interactive terminal")
)
