package roster

import "errors"

// Sentinel kinds for roster errors.
var (
	ErrEmptyName = errors.New("name must not be blank")
	ErrDuplicate = errors.New("name already on the list")
	ErrNotFound  = errors.New("name not on the list")
)
