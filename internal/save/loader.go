// Package save loads Terra Invicta savegame documents from disk into
// untyped in-memory trees. It performs a purely structural parse: no field
// of the save is interpreted here.
package save

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
)

// Load failure reasons.
const (
	ReasonNotFound     = "not_found"
	ReasonNotParseable = "not_parseable"
	ReasonEmpty        = "empty"
)

// LoadError reports why a save document could not be loaded. It is fatal
// for the run: no tables can be produced without a parsed document.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("load %s: %s", e.Path, e.Reason)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// utf8BOM prefixes saves written by the game on Windows.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads a save document, transparently decompressing .gz files, and
// returns the root object of the parsed JSON tree.
func Load(path string) (map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Path: path, Reason: ReasonNotFound, Err: err}
		}
		return nil, &LoadError{Path: path, Reason: ReasonNotParseable, Err: err}
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, &LoadError{Path: path, Reason: ReasonNotParseable, Err: err}
		}
		defer gz.Close()
		r = gz
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: ReasonNotParseable, Err: err}
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, &LoadError{Path: path, Reason: ReasonEmpty}
	}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, &LoadError{Path: path, Reason: ReasonNotParseable, Err: err}
	}

	doc, ok := root.(map[string]any)
	if !ok {
		return nil, &LoadError{Path: path, Reason: ReasonNotParseable,
			Err: fmt.Errorf("document root is not an object")}
	}
	return doc, nil
}
