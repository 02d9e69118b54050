package interfaces

// StorageManager groups the persistent stores
type StorageManager interface {
	IngestRunStorage() IngestRunStorage
	Close() error
}
