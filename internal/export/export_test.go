package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"

	"github.com/chrisdamba/webdiner/internal/cloudwriter"
	"github.com/chrisdamba/webdiner/internal/models"
)

type fakeSource struct {
	details  []models.OrderDetail
	from, to models.Date
	err      error
}

func (f *fakeSource) ListDetailsByRange(_ context.Context, from, to models.Date) ([]models.OrderDetail, error) {
	f.from, f.to = from, to
	return f.details, f.err
}

type memoryWriter struct {
	buf     *bytes.Buffer
	closed  bool
	aborted bool
}

func (m *memoryWriter) Write(p []byte) (int, error) { return m.buf.Write(p) }
func (m *memoryWriter) Close() error {
	m.closed = true
	return nil
}
func (m *memoryWriter) Abort() {
	m.aborted = true
	m.buf.Reset()
}

type memoryFactory struct {
	bucket, key string
	w           *memoryWriter
}

func (f *memoryFactory) NewWriter(_ context.Context, bucket, objectPath string) (cloudwriter.CloudWriter, error) {
	f.bucket, f.key = bucket, objectPath
	f.w = &memoryWriter{buf: new(bytes.Buffer)}
	return f.w, nil
}

func sampleDetails() []models.OrderDetail {
	created := time.Date(2024, 6, 1, 2, 0, 0, 0, time.UTC)
	return []models.OrderDetail{
		{
			Order: models.Order{
				ID: "o1", UserID: "u1", Date: models.NewDate(2024, 6, 3),
				VendorID: "v1", MenuItemID: "i1", Status: models.OrderStatusPending, CreatedAt: created,
			},
			VendorName: "Bento Box", ItemName: "Chicken Bento", ItemPrice: 100,
			EmployeeID: "E001", UserName: "Alice", DepartmentName: "Engineering",
		},
		{
			Order: models.Order{
				ID: "o2", UserID: "u2", Date: models.NewDate(2024, 6, 4),
				Status: models.OrderStatusNoOrder, CreatedAt: created,
			},
			EmployeeID: "E002", UserName: "Bob",
		},
	}
}

func TestExportMonthLocal(t *testing.T) {
	dir := t.TempDir()
	src := &fakeSource{details: sampleDetails()}
	var progress bytes.Buffer
	e := NewExporter(src, models.ExportConfig{Destination: "local", Folder: dir}, nil, &progress, zerolog.Nop())

	month := models.Month{Year: 2024, Month: time.June}
	res, err := e.ExportMonth(context.Background(), month)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, filepath.Join(dir, "orders", "month=2024-06", "orders.parquet"), res.Path)
	assert.Equal(t, models.NewDate(2024, 6, 1), src.from)
	assert.Equal(t, models.NewDate(2024, 6, 30), src.to)

	fr, err := local.NewLocalFileReader(res.Path)
	require.NoError(t, err)
	defer fr.Close()
	pr, err := reader.NewParquetReader(fr, new(OrderRow), 1)
	require.NoError(t, err)
	defer pr.ReadStop()

	require.Equal(t, int64(2), pr.GetNumRows())
	rows := make([]OrderRow, 2)
	require.NoError(t, pr.Read(&rows))

	assert.Equal(t, "o1", rows[0].OrderID)
	assert.Equal(t, "2024-06-03", rows[0].OrderDate)
	assert.Equal(t, "Chicken Bento", rows[0].ItemName)
	assert.Equal(t, int64(100), rows[0].Price)
	assert.Equal(t, "no_order", rows[1].Status)
	assert.Empty(t, rows[1].VendorID)
}

func TestExportMonthS3(t *testing.T) {
	factory := &memoryFactory{}
	e := NewExporter(&fakeSource{details: sampleDetails()},
		models.ExportConfig{Destination: "s3", Folder: "exports", Bucket: "lunch"}, factory, nil, zerolog.Nop())

	res, err := e.ExportMonth(context.Background(), models.Month{Year: 2024, Month: time.June})
	require.NoError(t, err)
	assert.Equal(t, "s3://lunch/exports/orders/month=2024-06/orders.parquet", res.Path)
	assert.Equal(t, "lunch", factory.bucket)
	assert.True(t, factory.w.closed)
	assert.True(t, bytes.HasPrefix(factory.w.buf.Bytes(), []byte("PAR1")))
}

func TestExportMonthSourceError(t *testing.T) {
	e := NewExporter(&fakeSource{err: errors.New("db down")},
		models.ExportConfig{Destination: "local", Folder: t.TempDir()}, nil, nil, zerolog.Nop())
	_, err := e.ExportMonth(context.Background(), models.Month{Year: 2024, Month: time.June})
	assert.ErrorContains(t, err, "db down")
}

func TestExportMonthS3WithoutFactory(t *testing.T) {
	e := NewExporter(&fakeSource{},
		models.ExportConfig{Destination: "s3", Bucket: "lunch"}, nil, nil, zerolog.Nop())
	_, err := e.ExportMonth(context.Background(), models.Month{Year: 2024, Month: time.June})
	assert.Error(t, err)
}

func TestExportMonthCancelledDoesNotUpload(t *testing.T) {
	factory := &memoryFactory{}
	e := NewExporter(&fakeSource{details: sampleDetails()},
		models.ExportConfig{Destination: "s3", Folder: "exports", Bucket: "lunch"}, factory, nil, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.ExportMonth(ctx, models.Month{Year: 2024, Month: time.June})
	require.ErrorIs(t, err, context.Canceled)

	assert.False(t, factory.w.closed, "partial object must not be uploaded")
	assert.True(t, factory.w.aborted)
}

func TestExportMonthFailureKeepsPreviousLocalFile(t *testing.T) {
	dir := t.TempDir()
	month := models.Month{Year: 2024, Month: time.June}
	e := NewExporter(&fakeSource{details: sampleDetails()},
		models.ExportConfig{Destination: "local", Folder: dir}, nil, nil, zerolog.Nop())

	res, err := e.ExportMonth(context.Background(), month)
	require.NoError(t, err)
	good, err := os.ReadFile(res.Path)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = e.ExportMonth(ctx, month)
	require.ErrorIs(t, err, context.Canceled)

	after, err := os.ReadFile(res.Path)
	require.NoError(t, err)
	assert.Equal(t, good, after)
	_, err = os.Stat(res.Path + ".partial")
	assert.True(t, os.IsNotExist(err))
}
