package student

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// PhotoColumn is the CSV header holding the photo reference.
const PhotoColumn = "Photo"

// LoadRecordsCSV loads student records from a CSV file whose header row names
// the fields. Missing columns read as empty, unknown columns are ignored.
// A relative photo path is resolved against the CSV file's directory.
func LoadRecordsCSV(path string) ([]Record, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	recs, err := ReadRecordsCSV(fp)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range recs {
		p := recs[i].Photo
		if p != "" && !isURL(p) && !filepath.IsAbs(p) {
			recs[i].Photo = filepath.Join(dir, p)
		}
	}
	return recs, nil
}

// ReadRecordsCSV parses records from r. See LoadRecordsCSV.
func ReadRecordsCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv has no header")
	}
	cols := map[string]int{}
	for i, h := range rows[0] {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	get := func(row []string, name string) string {
		if idx, ok := cols[name]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []Record{}
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		rec := Record{Fields: make(Fields, len(Labels))}
		for _, l := range Labels {
			rec.Fields[l] = get(row, l)
		}
		rec.Photo = get(row, PhotoColumn)
		out = append(out, rec)
	}
	return out, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
