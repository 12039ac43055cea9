package enrich

import (
	"errors"

	"tasteknowledge/db"
)

// isDataError reports whether err names a shape or existence problem in
// stored data, which degrades a field, as opposed to a transport failure,
// which aborts the request.
func isDataError(err error) bool {
	return errors.Is(err, db.ErrNotFound) || errors.Is(err, db.ErrInvalidID)
}
