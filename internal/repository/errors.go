// Package repository holds the data access layer: thin structs over
// *sql.DB issuing raw SQL. Sentinel errors let handlers map failure
// scenarios to HTTP responses without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when a lookup misses, including lookups scoped
// to an owner that hit another admin's record. Handlers translate it to
// HTTP 404.
var ErrNotFound = errors.New("record not found")

// ErrEmailExists is returned when registration collides with an existing
// email. Handlers translate it to a field error on email.
var ErrEmailExists = errors.New("email already exists")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate it to HTTP 403.
var ErrForbidden = errors.New("forbidden")
