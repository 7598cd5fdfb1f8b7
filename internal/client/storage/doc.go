// Package storage opens the durable tier selected by configuration and hands
// out the metadata repository that both client stores persist through.
//
// Supported backends are sqlite (default, one file in the data directory),
// postgres, badger, redis and memory. The SQL backends are migrated with
// goose before use.
package storage
