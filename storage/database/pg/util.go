package pgdb

import (
	"database/sql/driver"

	"github.com/lib/pq"
)

// idArray adapts a string slice for = ANY($n) / != ALL($n) parameters.
func idArray(ids []string) driver.Valuer {
	if ids == nil {
		ids = []string{}
	}
	return pq.Array(ids)
}
