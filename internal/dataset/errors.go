// Package dataset loads the sentiment CSV produced by the upstream
// scraping/NLP pipeline and caches it for the life of the process.
package dataset

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable reports that the sentiment table cannot be served:
// the CSV is missing, unreadable, or contained no usable rows. Callers
// show an explicit "no data" state instead of rendering partial views.
var ErrDataUnavailable = errors.New("sentiment data unavailable")

// SchemaError reports a CSV whose header is missing a required column.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("sentiment CSV missing required column %q", e.Column)
}
