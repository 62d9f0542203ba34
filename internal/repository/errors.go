// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrDuplicateUser indicates that a registration collided with
// an existing username or email, while ErrNoWatchlist signals that a
// watchlist operation was attempted for a user who owns no list.
package repository

import "errors"

// ErrDuplicateUser is returned when an insert violates the unique
// constraints on users.username or users.email. Handlers should
// translate this into an HTTP 409 response.
var ErrDuplicateUser = errors.New("username or email already exists")

// ErrInvalidCredentials is returned when a login attempt names an
// unknown user or the password does not match the stored hash.
// Handlers should translate this into an HTTP 401 response.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrMovieNotFound is returned when a movie id does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrMovieNotFound = errors.New("movie not found")

// ErrNoWatchlist is returned when a user has no watchlist to
// operate on. Handlers should translate this into an HTTP 404
// response for toggle requests.
var ErrNoWatchlist = errors.New("user has no watchlist")

// ErrUnknownTable is returned by the admin insert path when the
// requested table is not part of the known schema allow-list.
var ErrUnknownTable = errors.New("unknown table")

// ErrUnknownColumn is returned by the admin insert path when a
// column is not part of the allow-list for its table.
var ErrUnknownColumn = errors.New("unknown column")
