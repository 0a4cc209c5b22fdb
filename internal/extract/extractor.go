package extract

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/MartinUnity/games-terra-invicta/internal/dataset"
	"github.com/MartinUnity/games-terra-invicta/internal/registry"
)

// Extractor produces one flat table from the entity registry. Extractors
// are mutually independent and read-only over shared inputs, so they may be
// run in any order.
type Extractor interface {
	// Name is the table name, used for output file names and diagnostics.
	Name() string

	// Columns is the table's fixed column schema, in output order.
	Columns() []string

	// Extract builds the dataset. A returned error marks the whole table
	// as skipped; per-reference resolution failures are not errors and are
	// surfaced as missing markers plus the dataset's Unresolved counter.
	Extract(reg *registry.Registry, cfg Config) (*dataset.Dataset, error)
}

// Config carries the per-run options extractors honor.
type Config struct {
	// TrackedEntities is the optional allow-list of nation names. When
	// non-empty, the nations table keeps only rows for these names; other
	// extractors ignore it entirely.
	TrackedEntities []string

	Logger *slog.Logger
}

// Tracks reports whether rows for the named entity should be kept by
// extractors that honor the allow-list. An empty allow-list tracks
// everything.
func (c Config) Tracks(name string) bool {
	if len(c.TrackedEntities) == 0 {
		return true
	}
	for _, tracked := range c.TrackedEntities {
		if tracked == name {
			return true
		}
	}
	return false
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// All returns the built-in extractors in the stable order they run and are
// reported in.
func All() []Extractor {
	return []Extractor{
		Nations{},
		Factions{},
		SpaceAssets{},
		Missions{},
		Research{},
	}
}

// errMalformed is returned when a record of an extractor's source kind is
// not an object. The extractor's table is skipped; other tables are not
// affected.
func errMalformed(kind string, index int) error {
	return fmt.Errorf("%s record %d: not an object", kind, index)
}
