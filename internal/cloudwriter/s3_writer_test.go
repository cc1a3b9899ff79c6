package cloudwriter

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	bucket, key string
	body        []byte
	err         error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket, f.key = *in.Bucket, *in.Key
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = body
	return &s3.PutObjectOutput{}, nil
}

func TestS3WriterUploadsOnClose(t *testing.T) {
	t.Parallel()
	api := &fakeS3{}
	w, err := NewS3WriterFactoryFrom(api).NewWriter(context.Background(), "lunch", "exports/orders.parquet")
	require.NoError(t, err)

	_, err = w.Write([]byte("PAR1"))
	require.NoError(t, err)
	assert.Empty(t, api.body)

	require.NoError(t, w.Close())
	assert.Equal(t, "lunch", api.bucket)
	assert.Equal(t, "exports/orders.parquet", api.key)
	assert.Equal(t, []byte("PAR1"), api.body)

	_, err = w.Write([]byte("x"))
	assert.ErrorIs(t, err, ErrClosed)
}

func TestS3WriterReportsUploadFailure(t *testing.T) {
	t.Parallel()
	api := &fakeS3{err: errors.New("access denied")}
	w, err := NewS3WriterFactoryFrom(api).NewWriter(context.Background(), "lunch", "k")
	require.NoError(t, err)
	assert.ErrorContains(t, w.Close(), "access denied")
}

func TestS3WriterRequiresBucket(t *testing.T) {
	t.Parallel()
	_, err := NewS3WriterFactoryFrom(&fakeS3{}).NewWriter(context.Background(), "", "k")
	assert.Error(t, err)
}

func TestParquetFileTracksOffset(t *testing.T) {
	t.Parallel()
	api := &fakeS3{}
	w, err := NewS3WriterFactoryFrom(api).NewWriter(context.Background(), "lunch", "k")
	require.NoError(t, err)
	f := NewParquetFile(w)

	_, err = f.Write([]byte("abcd"))
	require.NoError(t, err)
	pos, err := f.Seek(0, io.SeekCurrent)
	require.NoError(t, err)
	assert.Equal(t, int64(4), pos)

	_, err = f.Seek(0, io.SeekEnd)
	assert.Error(t, err)

	require.NoError(t, f.Close())
	assert.Equal(t, []byte("abcd"), api.body)
}

func TestS3WriterAbortSkipsUpload(t *testing.T) {
	t.Parallel()
	api := &fakeS3{}
	w, err := NewS3WriterFactoryFrom(api).NewWriter(context.Background(), "lunch", "k")
	require.NoError(t, err)
	f := NewParquetFile(w)

	_, err = f.Write([]byte("PAR1"))
	require.NoError(t, err)
	f.Abort()

	assert.Empty(t, api.key, "nothing uploaded")
	assert.ErrorIs(t, f.Close(), ErrClosed)
}
