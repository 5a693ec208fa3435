// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values let the service layer tell a
// missing row apart from a failed statement.
package repository

import "errors"

// ErrCustomerNotFound is returned when an update or delete targets a
// customer id that matches no row.  Callers should report it as
// "not found" rather than as a failure.
var ErrCustomerNotFound = errors.New("customer not found")
