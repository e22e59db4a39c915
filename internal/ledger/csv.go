package ledger

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// CSVExtractor reads ledger rows from a header-addressed CSV export.
type CSVExtractor struct {
	Path string
}

// Records reads the whole file. The first row is the header and is
// validated against the required column set before any row is produced.
func (e CSVExtractor) Records(ctx context.Context) ([]Record, error) {
	f, err := os.Open(e.Path)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()
	return ReadCSV(ctx, f)
}

// ReadCSV parses header-addressed CSV rows from r.
func ReadCSV(ctx context.Context, r io.Reader) ([]Record, error) {
	csvr := csv.NewReader(bufio.NewReader(r))
	csvr.TrimLeadingSpace = true
	csvr.FieldsPerRecord = -1

	header, err := csvr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("ledger is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.ToLower(header[i]))
	}
	if err := ValidateHeader(header); err != nil {
		return nil, err
	}

	var out []Record
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line++
		rec, err := csvr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		cells := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				cells[h] = strings.TrimSpace(rec[i])
			}
		}
		out = append(out, Record{Line: line, Cells: cells})
	}
	return out, nil
}
