package dataset

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// WriteError reports an I/O failure while writing one dataset. It is fatal
// for that dataset's output only.
type WriteError struct {
	Table string
	Path  string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write table %s to %s: %v", e.Table, e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Write serializes the dataset into dir as <name>.csv and <name>.jsonl.
// The CSV header and cell order follow the dataset's fixed column schema;
// missing values are empty cells in CSV and nulls in JSONL.
func Write(d *Dataset, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &WriteError{Table: d.Name, Path: dir, Err: err}
	}
	if err := writeCSV(d, filepath.Join(dir, d.Name+".csv")); err != nil {
		return err
	}
	return writeJSONL(d, filepath.Join(dir, d.Name+".jsonl"))
}

func writeCSV(d *Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Table: d.Name, Path: path, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(d.Columns); err != nil {
		return &WriteError{Table: d.Name, Path: path, Err: err}
	}

	cells := make([]string, len(d.Columns))
	for _, row := range d.Rows {
		for i, col := range d.Columns {
			cells[i] = formatCell(row[col])
		}
		if err := w.Write(cells); err != nil {
			return &WriteError{Table: d.Name, Path: path, Err: err}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return &WriteError{Table: d.Name, Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Table: d.Name, Path: path, Err: err}
	}
	return nil
}

func writeJSONL(d *Dataset, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Table: d.Name, Path: path, Err: err}
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, row := range d.Rows {
		if err := enc.Encode(row); err != nil {
			return &WriteError{Table: d.Name, Path: path, Err: err}
		}
	}
	if err := f.Close(); err != nil {
		return &WriteError{Table: d.Name, Path: path, Err: err}
	}
	return nil
}

// formatCell renders one scalar for CSV output. The missing marker (nil)
// becomes an empty cell.
func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
