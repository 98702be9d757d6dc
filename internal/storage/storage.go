package storage

// Keys used by palabra.
const (
	KeyLanguage    = "lang"
	KeyWords       = "words"
	KeyLastSavedID = "last_saved_id"
)

// Storage is a string-valued key-value store
type Storage interface {
	// Get returns the value for key and whether it was present
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value
	Set(key, value string) error

	// Delete removes key; deleting an absent key is not an error
	Delete(key string) error

	// Close releases the underlying resources
	Close() error
}
