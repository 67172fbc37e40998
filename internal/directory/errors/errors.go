package errors

import (
	"fmt"
)

var (
	ErrNotFound     = fmt.Errorf("not found")
	ErrInvalidInput = fmt.Errorf("invalid input")
	// ErrCatalogUnavailable is the only failure surfaced to users of the directory.
	ErrCatalogUnavailable = fmt.Errorf("catalog unavailable")
)

// UserMessage is shown whenever the catalog cannot be loaded.
const UserMessage = "Failed to load companies. Please try again."
