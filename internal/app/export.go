package app

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"PixelTrader/internal/collector"
	"PixelTrader/internal/model"
)

// ErrNothingToExport is returned when no series is loaded.
var ErrNothingToExport = errors.New("no data to export")

var csvHeader = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// ExportFilename names the download: SYMBOL_period_interval_YYYY-MM-DD.csv.
func ExportFilename(symbol, period, interval string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%s.csv", symbol, period, interval, now.Format("2006-01-02"))
}

// WriteCSV writes series with a header row. Daily bars keep a plain date; bars with a
// time of day are written in RFC 3339.
func WriteCSV(w io.Writer, series model.Series) error {
	if len(series) == 0 {
		return ErrNothingToExport
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, b := range series {
		row := []string{
			formatDate(b.Date),
			formatFloat(b.Open),
			formatFloat(b.High),
			formatFloat(b.Low),
			formatFloat(b.Close),
			strconv.FormatInt(b.Volume, 10),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ReadCSV parses a file produced by WriteCSV.
func ReadCSV(r io.Reader) (model.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read csv: missing header")
	}
	for i, name := range csvHeader {
		if records[0][i] != name {
			return nil, fmt.Errorf("read csv: unexpected column %q, want %q", records[0][i], name)
		}
	}

	series := make(model.Series, 0, len(records)-1)
	for n, rec := range records[1:] {
		line := n + 2
		date, err := collector.ParseDate(rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		var vals [4]float64
		for i := range vals {
			if vals[i], err = strconv.ParseFloat(rec[i+1], 64); err != nil {
				return nil, fmt.Errorf("line %d %s: %w", line, csvHeader[i+1], err)
			}
			if math.IsNaN(vals[i]) || math.IsInf(vals[i], 0) {
				return nil, fmt.Errorf("line %d %s: not a finite number", line, csvHeader[i+1])
			}
		}
		vol, err := strconv.ParseInt(rec[5], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d Volume: %w", line, err)
		}
		series = append(series, model.PriceBar{
			Date: date, Open: vals[0], High: vals[1], Low: vals[2], Close: vals[3], Volume: vol,
		})
	}
	return series, nil
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
