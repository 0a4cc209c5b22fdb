// Package dataset holds the flat-table types produced by extractors and
// writes them to analysis-ready files.
package dataset

// Row maps column names to fully resolved scalar values. A nil value is the
// explicit missing marker; every column of the owning dataset's schema is
// present in every row.
type Row map[string]any

// Dataset is an ordered sequence of rows sharing one fixed column schema.
// Column order is fixed when the extractor is defined, not inferred from
// data, so output files are stable across runs.
type Dataset struct {
	Name    string
	Columns []string
	Rows    []Row

	// Unresolved counts cross-references that failed to resolve while
	// building the rows. Missing references produce missing markers, never
	// dropped rows.
	Unresolved int
}

// New creates an empty dataset with the given fixed column schema.
func New(name string, columns []string) *Dataset {
	return &Dataset{Name: name, Columns: columns}
}

// Append adds a row, filling any column absent from the input with the
// missing marker so the schema invariant holds.
func (d *Dataset) Append(row Row) {
	for _, col := range d.Columns {
		if _, ok := row[col]; !ok {
			row[col] = nil
		}
	}
	d.Rows = append(d.Rows, row)
}
