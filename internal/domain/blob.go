package domain

import "context"

// BlobWriter persists an object to durable storage and returns its key.
type BlobWriter interface {
	Write(ctx context.Context, key string, contentType string, data []byte) (string, error)
}

// Archiver writes full scan results to long-term storage.
type Archiver interface {
	ArchiveScan(ctx context.Context, result ScanResult) (string, error)
}
