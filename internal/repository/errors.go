// Package repository holds the MySQL data access layer.  Driver errors are
// classified here so that constraint violations raised by the database
// surface as the same domain errors the services raise themselves.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// MySQL server error numbers the repositories react to.
const (
	errDupEntry         = 1062
	errNoReferencedRow  = 1452
	errNoReferencedRow2 = 1216
	errCheckViolated    = 3819
	errOutOfRange       = 1264
	errDataTooLong      = 1406
)

func mysqlErr(err error) (*mysql.MySQLError, bool) {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// isDuplicate reports a unique key violation, optionally on a named key.
func isDuplicate(err error, key string) bool {
	me, ok := mysqlErr(err)
	if !ok || me.Number != errDupEntry {
		return false
	}
	return key == "" || strings.Contains(me.Message, key)
}

// isCheckViolation reports a CHECK constraint failure, optionally on a
// named constraint.
func isCheckViolation(err error, constraint string) bool {
	me, ok := mysqlErr(err)
	if !ok || me.Number != errCheckViolated {
		return false
	}
	return constraint == "" || strings.Contains(me.Message, constraint)
}

// isMissingParent reports an insert/update pointing at a row that does not
// exist, optionally through a named foreign key.
func isMissingParent(err error, fk string) bool {
	me, ok := mysqlErr(err)
	if !ok || (me.Number != errNoReferencedRow && me.Number != errNoReferencedRow2) {
		return false
	}
	return fk == "" || strings.Contains(me.Message, fk)
}

// isColumnOverflow reports a strict-mode rejection of a value too large for
// the named column.  The server quotes the column in the message.
func isColumnOverflow(err error, column string) bool {
	me, ok := mysqlErr(err)
	if !ok || (me.Number != errOutOfRange && me.Number != errDataTooLong) {
		return false
	}
	return strings.Contains(me.Message, "'"+column+"'")
}
