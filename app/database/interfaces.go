package database

// KVRepository persists small string values under well-known keys, the
// server-side stand-in for browser local storage.
type KVRepository interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}
