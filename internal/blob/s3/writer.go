package s3blob

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fliphawk/fliphawk/internal/domain"
)

// Writer implements domain.BlobWriter using the S3 upload manager, which
// transparently switches to multipart uploads for large payloads.
type Writer struct {
	uploader *manager.Uploader
	bucket   string
}

// NewWriter creates a Writer that uploads to the client's bucket.
func NewWriter(c *Client) *Writer {
	return &Writer{
		uploader: manager.NewUploader(c.S3()),
		bucket:   c.Bucket(),
	}
}

// Write uploads data under the given key and returns the key back.
func (w *Writer) Write(ctx context.Context, key string, contentType string, data []byte) (string, error) {
	_, err := w.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3blob: write object %s: %w", key, err)
	}
	return key, nil
}

// Compile-time interface check.
var _ domain.BlobWriter = (*Writer)(nil)
