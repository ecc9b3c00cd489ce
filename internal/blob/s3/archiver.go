package s3blob

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fliphawk/fliphawk/internal/domain"
)

// ScanArchiver implements domain.Archiver by uploading full scan results as
// JSON documents, partitioned by scan date:
//
//	scans/2025/09/01/{scan_id}.json
//
// Archives are append-only; a scan is never re-uploaded under a new key.
type ScanArchiver struct {
	writer domain.BlobWriter
}

// NewScanArchiver creates a ScanArchiver on top of the given writer.
func NewScanArchiver(writer domain.BlobWriter) *ScanArchiver {
	return &ScanArchiver{writer: writer}
}

// ArchiveScan uploads the scan result and returns its storage key.
func (a *ScanArchiver) ArchiveScan(ctx context.Context, result domain.ScanResult) (string, error) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("s3blob: marshal scan %s: %w", result.ScanID, err)
	}

	key := fmt.Sprintf("scans/%s/%s.json", result.StartedAt.UTC().Format("2006/01/02"), result.ScanID)
	if _, err := a.writer.Write(ctx, key, "application/json", data); err != nil {
		return "", fmt.Errorf("s3blob: archive scan %s: %w", result.ScanID, err)
	}
	return key, nil
}

// Compile-time interface check.
var _ domain.Archiver = (*ScanArchiver)(nil)
