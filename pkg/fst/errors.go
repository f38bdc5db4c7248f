package fst

import "errors"

var (
	// ErrNotTransducer is returned when a stream cannot be parsed as a
	// transducer container. The message is part of the public contract and
	// must not change; callers match on it for compatibility.
	ErrNotTransducer = errors.New("wrong or corrupt file?")

	// ErrMultipleTransducers is returned when a container file holds anything
	// other than exactly one transducer.
	ErrMultipleTransducers = errors.New("expected a single transducer in the file")
)
