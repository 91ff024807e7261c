package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"sales-dashboard/internal/export"
	"sales-dashboard/internal/sales"
)

var ErrUnknownDownload = errors.New("unknown download")

// Dashboard answers every page, chart and download request from a fresh
// read of the sales file. Only export bytes are memoised, in the encoder.
type Dashboard struct {
	csvPath string
	encoder *export.Encoder
	logger  *slog.Logger
}

func NewDashboard(csvPath string, encoder *export.Encoder, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		csvPath: csvPath,
		encoder: encoder,
		logger:  logger,
	}
}

func (d *Dashboard) load(ctx context.Context) (*sales.Table, error) {
	start := time.Now()
	t, err := sales.Load(ctx, d.csvPath)
	if err != nil {
		return nil, err
	}
	d.logger.Debug("sales data loaded",
		"path", d.csvPath,
		"rows", t.Len(),
		"duration", time.Since(start),
	)
	return t, nil
}

func (d *Dashboard) CenterDate(ctx context.Context, sel sales.CenterDateSelection) (sales.CenterDateView, error) {
	t, err := d.load(ctx)
	if err != nil {
		return sales.CenterDateView{}, err
	}
	return sales.BuildCenterDate(t, sel), nil
}

func (d *Dashboard) Year(ctx context.Context, sel sales.YearSelection) (sales.YearView, error) {
	t, err := d.load(ctx)
	if err != nil {
		return sales.YearView{}, err
	}
	return sales.BuildYear(t, sel), nil
}

func (d *Dashboard) PeriodOptions(ctx context.Context) ([]string, error) {
	t, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	return sales.PeriodOptions(t), nil
}

func (d *Dashboard) CenterOptions(ctx context.Context, period string) ([]string, error) {
	t, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	return sales.CenterOptions(t, period), nil
}

func (d *Dashboard) YearOptions(ctx context.Context) ([]int, error) {
	t, err := d.load(ctx)
	if err != nil {
		return nil, err
	}
	return sales.YearOptions(t), nil
}

// File is an encoded export ready to send.
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Export encodes the download called name for the given selections. The
// filename is fixed per download.
func (d *Dashboard) Export(ctx context.Context, name string, cd sales.CenterDateSelection, ys sales.YearSelection, format export.Format) (File, error) {
	var downloads []sales.Download
	switch sales.DownloadView[name] {
	case sales.ViewCenterDate:
		v, err := d.CenterDate(ctx, cd)
		if err != nil {
			return File{}, err
		}
		downloads = v.Downloads()
	case sales.ViewYear:
		v, err := d.Year(ctx, ys)
		if err != nil {
			return File{}, err
		}
		downloads = v.Downloads()
	default:
		return File{}, fmt.Errorf("%w: %q", ErrUnknownDownload, name)
	}

	dl, ok := sales.FindDownload(downloads, name)
	if !ok {
		return File{}, fmt.Errorf("%w: %q", ErrUnknownDownload, name)
	}

	data, err := d.encoder.Encode(dl.Table, format)
	if err != nil {
		return File{}, fmt.Errorf("encode %s: %w", name, err)
	}
	return File{
		Filename:    format.Extension(dl.Filename),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

// Stats reports the source file and export cache state for monitoring.
func (d *Dashboard) Stats(ctx context.Context) map[string]any {
	stats := map[string]any{
		"csv_path": d.csvPath,
		"export":   d.encoder.Stats(),
	}

	if info, err := os.Stat(d.csvPath); err == nil {
		stats["last_modified"] = info.ModTime()
		stats["size_bytes"] = info.Size()
	}

	t, err := d.load(ctx)
	if err != nil {
		stats["load_error"] = err.Error()
		return stats
	}
	stats["record_count"] = t.Len()
	stats["periods"] = len(sales.PeriodOptions(t))
	stats["years"] = len(sales.YearOptions(t))
	return stats
}
