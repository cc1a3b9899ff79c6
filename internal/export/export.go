// Package export writes a month of orders to parquet, either on local disk
// or in an S3 bucket.
package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/chrisdamba/webdiner/internal/cloudwriter"
	"github.com/chrisdamba/webdiner/internal/models"
)

const fileName = "orders.parquet"

type OrderRow struct {
	OrderID        string `parquet:"name=orderId,type=BYTE_ARRAY,convertedtype=UTF8"`
	OrderDate      string `parquet:"name=orderDate,type=BYTE_ARRAY,convertedtype=UTF8"`
	Status         string `parquet:"name=status,type=BYTE_ARRAY,convertedtype=UTF8"`
	EmployeeID     string `parquet:"name=employeeId,type=BYTE_ARRAY,convertedtype=UTF8"`
	UserName       string `parquet:"name=userName,type=BYTE_ARRAY,convertedtype=UTF8"`
	DepartmentName string `parquet:"name=departmentName,type=BYTE_ARRAY,convertedtype=UTF8"`
	VendorID       string `parquet:"name=vendorId,type=BYTE_ARRAY,convertedtype=UTF8"`
	VendorName     string `parquet:"name=vendorName,type=BYTE_ARRAY,convertedtype=UTF8"`
	MenuItemID     string `parquet:"name=menuItemId,type=BYTE_ARRAY,convertedtype=UTF8"`
	ItemName       string `parquet:"name=itemName,type=BYTE_ARRAY,convertedtype=UTF8"`
	Price          int64  `parquet:"name=price,type=INT64"`
	CreatedAt      int64  `parquet:"name=createdAt,type=INT64"`
}

func rowFrom(d models.OrderDetail) OrderRow {
	return OrderRow{
		OrderID:        d.ID,
		OrderDate:      d.Date.String(),
		Status:         string(d.Status),
		EmployeeID:     d.EmployeeID,
		UserName:       d.UserName,
		DepartmentName: d.DepartmentName,
		VendorID:       d.VendorID,
		VendorName:     d.VendorName,
		MenuItemID:     d.MenuItemID,
		ItemName:       d.ItemName,
		Price:          int64(d.ItemPrice),
		CreatedAt:      d.CreatedAt.UnixMilli(),
	}
}

type OrderSource interface {
	ListDetailsByRange(ctx context.Context, from, to models.Date) ([]models.OrderDetail, error)
}

type Result struct {
	Path string `json:"path"`
	Rows int    `json:"rows"`
}

type Exporter struct {
	orders   OrderSource
	cfg      models.ExportConfig
	factory  cloudwriter.CloudWriterFactory
	progress io.Writer
	logger   zerolog.Logger
}

// NewExporter builds an exporter. factory is only consulted for the s3
// destination; progress may be nil to disable the progress bar.
func NewExporter(orders OrderSource, cfg models.ExportConfig, factory cloudwriter.CloudWriterFactory, progress io.Writer, logger zerolog.Logger) *Exporter {
	return &Exporter{
		orders:   orders,
		cfg:      cfg,
		factory:  factory,
		progress: progress,
		logger:   logger,
	}
}

// ObjectPath is the partitioned location of a month's file, relative to the
// configured folder.
func ObjectPath(folder string, month models.Month) string {
	return path.Join(folder, "orders", "month="+month.String(), fileName)
}

func (e *Exporter) ExportMonth(ctx context.Context, month models.Month) (Result, error) {
	details, err := e.orders.ListDetailsByRange(ctx, month.First(), month.Last())
	if err != nil {
		return Result{}, fmt.Errorf("failed to load orders for %s: %w", month, err)
	}

	out, err := e.open(ctx, ObjectPath(e.cfg.Folder, month))
	if err != nil {
		return Result{}, err
	}
	if err := writeRows(ctx, out.file, details, e.newBar(len(details), "exporting "+month.String())); err != nil {
		out.abort()
		return Result{}, err
	}
	if err := out.commit(); err != nil {
		return Result{}, fmt.Errorf("failed to close %s: %w", out.location, err)
	}

	e.logger.Info().
		Str("month", month.String()).
		Str("path", out.location).
		Int("rows", len(details)).
		Msg("orders exported")
	return Result{Path: out.location, Rows: len(details)}, nil
}

func writeRows(ctx context.Context, fw source.ParquetFile, details []models.OrderDetail, bar *progressbar.ProgressBar) error {
	pw, err := writer.NewParquetWriter(fw, new(OrderRow), 4)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, d := range details {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := pw.Write(rowFrom(d)); err != nil {
			return fmt.Errorf("failed to write order %s: %w", d.ID, err)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// output is a destination file that only becomes visible on commit. An
// aborted output leaves any earlier export at the same location untouched.
type output struct {
	file     source.ParquetFile
	location string
	commit   func() error
	abort    func()
}

func (e *Exporter) open(ctx context.Context, objectPath string) (*output, error) {
	if e.cfg.Destination == "s3" {
		if e.factory == nil {
			return nil, fmt.Errorf("no cloud writer configured for s3 exports")
		}
		cw, err := e.factory.NewWriter(ctx, e.cfg.Bucket, objectPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud file writer: %w", err)
		}
		pf := cloudwriter.NewParquetFile(cw)
		return &output{
			file:     pf,
			location: fmt.Sprintf("s3://%s/%s", e.cfg.Bucket, objectPath),
			commit:   pf.Close,
			abort:    pf.Abort,
		}, nil
	}

	filePath := filepath.FromSlash(objectPath)
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	tmpPath := filePath + ".partial"
	fw, err := local.NewLocalFileWriter(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create local file writer: %w", err)
	}
	return &output{
		file:     fw,
		location: filePath,
		commit: func() error {
			if err := fw.Close(); err != nil {
				os.Remove(tmpPath)
				return err
			}
			return os.Rename(tmpPath, filePath)
		},
		abort: func() {
			fw.Close()
			os.Remove(tmpPath)
		},
	}, nil
}

func (e *Exporter) newBar(total int, description string) *progressbar.ProgressBar {
	if e.progress == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(e.progress),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
