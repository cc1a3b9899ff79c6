// Package cloudwriter buffers generated files and uploads them to object
// storage when they are closed.
package cloudwriter

import "context"

// CloudWriter uploads on Close. Abort discards the buffered data without
// uploading anything.
type CloudWriter interface {
	Write(data []byte) (int, error)
	Close() error
	Abort()
}

type CloudWriterFactory interface {
	NewWriter(ctx context.Context, bucket, objectPath string) (CloudWriter, error)
}
