package sqlxrepos

import (
	"database/sql"
	"database/sql/driver"

	"github.com/pkg/errors"

	"github.com/ttuacm/sdc-backend/core"
)

// wrapErr wraps repository failures. A lost connection becomes a shutdown
// error so the server stops serving requests it can no longer back.
func wrapErr(err error, msg string) error {
	switch errors.Cause(err) {
	case driver.ErrBadConn, sql.ErrConnDone:
		err = core.NewShutdownError(err.Error())
	}
	return errors.Wrap(err, msg)
}
