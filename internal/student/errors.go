package student

import "errors"

var (
	// ErrMissingRequired is returned when Full Name, Roll No or Branch is empty.
	ErrMissingRequired = errors.New("fill required fields")

	// ErrMissingPhoto is returned when no photo has been chosen.
	ErrMissingPhoto = errors.New("upload a photo")

	// ErrUnknownField is returned when a label is not one of the ten record fields.
	ErrUnknownField = errors.New("unknown field")
)
