package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tabletopkit/companion/internal/game/dataset"
)

// Importer orchestrates content import from a Source to a dataset file.
type Importer struct {
	source Source
}

// New constructs an Importer backed by the given Source.
//
// Precondition: source must be non-nil.
func New(source Source) *Importer {
	return &Importer{source: source}
}

// Run loads the content pack from sourceDir, validates it against the
// dataset schema, migrates it to the current schema version, and writes
// the resulting JSON document to outPath.
//
// Postcondition: outPath holds a dataset the server can adopt verbatim as
// its authoritative document, or an error is returned and nothing is
// written.
func (imp *Importer) Run(sourceDir, outPath string) error {
	overall := time.Now()

	t0 := time.Now()
	doc, err := imp.source.Load(sourceDir)
	if err != nil {
		return fmt.Errorf("loading pack: %w", err)
	}
	fmt.Printf("load    %d collection(s) in %s\n", len(doc), time.Since(t0).Round(time.Millisecond))

	d, err := convert(doc)
	if err != nil {
		return err
	}
	migrated := dataset.Migrate(d)

	raw, err := migrated.Encode()
	if err != nil {
		return err
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(outPath, raw, 0644); err != nil {
		return fmt.Errorf("writing dataset to %s: %w", outPath, err)
	}

	fmt.Printf("wrote   %s  (%d characters, %d locations, %d items)  in %s\n",
		outPath, len(migrated.Characters), len(migrated.Locations), len(migrated.Items),
		time.Since(overall).Round(time.Millisecond))
	return nil
}

// convert validates the generic pack document against the typed dataset
// schema. YAML keys mirror the dataset's JSON field names.
func convert(doc map[string]any) (dataset.GameData, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return dataset.GameData{}, fmt.Errorf("serialising pack: %w", err)
	}
	d, err := dataset.Decode(raw)
	if err != nil {
		return dataset.GameData{}, fmt.Errorf("pack does not match dataset schema: %w", err)
	}
	return d, nil
}
