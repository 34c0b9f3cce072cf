package storage

import "bikewatch/models"

// SeenStore persists the listing identities already processed for one source.
// Identities are only ever added; Clear wipes the store entirely. A missing
// or unreadable backing file loads as an empty store so the engine works on
// a first run with no prior state.
//
// The two implementations differ in write pattern: JSONSetStore accumulates
// in memory and rewrites the whole file on Flush (batch sources), while
// AppendLogStore makes each Add durable immediately and Flush is a no-op
// (incremental sources, where a crash mid-run loses at most the in-flight
// item).
type SeenStore interface {
	Load() (map[string]struct{}, error)
	Add(identity string) error
	Flush() error
	Clear() error
}

// MatchWriter is the interface any match reporting sink must satisfy.
type MatchWriter interface {
	Write(matches []models.Match) error
	Close() error
}
