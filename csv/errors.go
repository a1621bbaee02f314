package csv

import "errors"

// ErrInvalidColumnCount is returned when a Writer is created with fewer
// than one column.
var ErrInvalidColumnCount = errors.New("csv: column count must be at least 1")
