// Package repository implements the persistence layer over MySQL.  This file
// defines sentinel errors shared by the repositories so handlers can map
// storage failures onto the HTTP error taxonomy without string matching.
package repository

import "errors"

// ErrUsernameExists is returned when an insert loses the race on the
// username unique key.  Handlers translate it into HTTP 409.
var ErrUsernameExists = errors.New("username already exists")

// ErrEmailExists is returned when an insert loses the race on the email
// unique key.  Handlers translate it into HTTP 409.
var ErrEmailExists = errors.New("email already exists")
