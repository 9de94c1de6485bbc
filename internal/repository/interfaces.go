package repository

// Store is the device-scoped persistence used for cart contents, cached
// identity, shipping info and the ID token. Semantics follow browser local
// storage: a small set of well-known keys, every write fully overwrites the
// entry, every read re-parses defensively.
type Store interface {
	// Get unmarshals the entry into out. It returns false when the entry is
	// missing or corrupt; corrupt entries are treated as absent and only
	// logged, never surfaced.
	Get(key string, out interface{}) bool

	// Put serializes v and overwrites the entry.
	Put(key string, v interface{}) error

	// Delete removes the entry. Deleting a missing entry is not an error.
	Delete(key string) error
}
