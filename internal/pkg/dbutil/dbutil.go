package dbutil

import (
	"errors"
	"strconv"

	"github.com/lib/pq"
	sqlite "modernc.org/sqlite"
)

// DriverCode extracts the driver specific error code, or "" when err did not
// originate from a known driver.
func DriverCode(err error) string {
	var pgErr *pq.Error
	if errors.As(err, &pgErr) {
		return string(pgErr.Code)
	}
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		return strconv.Itoa(sqlErr.Code())
	}
	return ""
}
