package store

import "errors"

// ErrNotFound is the store-level sentinel returned when a lookup for a
// single entity finds no rows. The service layer translates it into the
// domain-level not-found error, keeping business logic decoupled from the
// underlying driver's error (e.g. sql.ErrNoRows).
var ErrNotFound = errors.New("store: not found")
