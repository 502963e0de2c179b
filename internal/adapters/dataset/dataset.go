// Package dataset reads the archive JSON file, or the embedded sample when
// no file is configured, and watches the file for changes.
package dataset

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"

	"github.com/okian/baton/internal/domain/model"
)

//go:embed sample/archive.json
var sampleFS embed.FS

const samplePath = "sample/archive.json"

// EmbeddedSource names the built-in sample in Dataset.Source.
const EmbeddedSource = "embedded:" + samplePath

// Dataset is a decoded archive file.
type Dataset struct {
	Records []model.RawRecord
	// Source is the file path or EmbeddedSource.
	Source string
	// Checksum is the xxhash64 of the raw bytes.
	Checksum uint64
	Size     int
}

// Load reads path, or the embedded sample when path is empty.
func Load(ctx context.Context, path string) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if path == "" {
		b, err := sampleFS.ReadFile(samplePath)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadDataset, EmbeddedSource, err)
		}
		return Decode(bytes.NewReader(b), EmbeddedSource)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadDataset, err)
	}
	defer f.Close()
	return Decode(f, path)
}

// Decode parses a JSON array of raw records from r.
func Decode(r io.Reader, source string) (*Dataset, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadDataset, source, err)
	}
	var recs []model.RawRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDecodeDataset, source, err)
	}
	if recs == nil {
		recs = []model.RawRecord{}
	}
	return &Dataset{
		Records:  recs,
		Source:   source,
		Checksum: xxhash.Sum64(b),
		Size:     len(b),
	}, nil
}
