// ABOUTME: Sentinel errors for the storage layer and backup codec.
// ABOUTME: Callers match with errors.Is; storage failures wrap the SQL error.
package storage

import "errors"

var (
	// ErrNotFound is returned when an id or prefix matches nothing.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguousID is returned when an id prefix matches more than one row.
	ErrAmbiguousID = errors.New("ambiguous id prefix")

	// ErrMalformedBackup is returned for unparseable or unversioned
	// backup documents. Nothing is mutated when decode fails.
	ErrMalformedBackup = errors.New("malformed backup document")

	// ErrUnsupportedVersion is returned for a recognized but
	// unhandled backup schema version.
	ErrUnsupportedVersion = errors.New("unsupported backup version")
)
