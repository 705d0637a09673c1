// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// services and handlers to distinguish between different failure
// scenarios without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrUserNotFound is returned when no users row matches the username.
var ErrUserNotFound = errors.New("user not found")

// ErrUsernameExists is returned by Insert when the unique username index
// rejects the row. Handlers should translate this into an HTTP 409 response.
var ErrUsernameExists = errors.New("username already exists")

// ErrEventNotFound is returned when no events row matches the id.
var ErrEventNotFound = errors.New("event not found")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicate(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
