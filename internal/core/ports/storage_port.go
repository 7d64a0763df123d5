package ports

import "context"

// StoragePort is the object-storage collaborator: three logical buckets of
// images, addressed by file name. Upload returns the public URL of the
// stored object.
type StoragePort interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
	PublicURL(bucket, path string) string
	Remove(ctx context.Context, bucket string, paths []string) error
}
