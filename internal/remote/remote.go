// Package remote provides the adapter to the remote document-collection
// store. The engine only depends on the Store interface; the HTTP client in
// this package is the production implementation, and tests substitute fakes.
package remote

import (
	"context"
	"encoding/json"
)

// Direction orders query results.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Document is one record in a remote collection, with its server-assigned id.
type Document struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}

// Store is the contract over the remote document store.
//
// All operations take a context; callers are expected to bound them so a
// hung remote cannot stall the caller indefinitely.
type Store interface {
	// Add inserts a record into a collection and returns the server-assigned id.
	Add(ctx context.Context, collection string, record any) (string, error)

	// Set overwrites the record stored under an existing id.
	Set(ctx context.Context, collection, id string, record any) error

	// Delete removes the record stored under id.
	Delete(ctx context.Context, collection, id string) error

	// QueryOrdered returns every record in a collection ordered by the given
	// field and direction.
	QueryOrdered(ctx context.Context, collection, orderField string, dir Direction) ([]Document, error)

	// Close tears down the connection. The store must not be used afterwards.
	Close() error
}
