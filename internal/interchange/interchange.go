// Package interchange reads and writes the external representation of
// bookmarks: a single array of field-named records, as JSON (the default)
// or YAML, optionally framed with zstd.
package interchange

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/tinymark/pkg/types"
)

// Format is an interchange encoding.
type Format int

// Supported formats.
const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// zstdExt marks a zstd-framed file.
const zstdExt = ".zst"

// Kind describes how a file is encoded.
type Kind struct {
	Format     Format
	Compressed bool
}

// KindFor derives the encoding from the file name: a trailing ".zst"
// selects zstd framing, then ".yaml" or ".yml" selects YAML. Anything else
// is JSON.
func KindFor(path string) Kind {
	var k Kind
	name := strings.ToLower(filepath.Base(path))
	if strings.HasSuffix(name, zstdExt) {
		k.Compressed = true
		name = strings.TrimSuffix(name, zstdExt)
	}
	switch filepath.Ext(name) {
	case ".yaml", ".yml":
		k.Format = FormatYAML
	default:
		k.Format = FormatJSON
	}
	return k
}

// Encode writes records to w as a single array.
func Encode(w io.Writer, f Format, records []types.Bookmark) error {
	if records == nil {
		records = []types.Bookmark{}
	}
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("%w: encode json: %w", types.ErrSerialization, err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("%w: encode yaml: %w", types.ErrSerialization, err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("%w: encode yaml: %w", types.ErrSerialization, err)
		}
		return nil
	}
	return fmt.Errorf("%w: unknown format %v", types.ErrSerialization, f)
}

// Decode reads a single array of records from r. An empty YAML document
// decodes to no records. Links come back in canonical form.
func Decode(r io.Reader, f Format) ([]types.Bookmark, error) {
	var records []types.Bookmark
	switch f {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return nil, fmt.Errorf("%w: decode json: %w", types.ErrSerialization, err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&records); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: decode yaml: %w", types.ErrSerialization, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown format %v", types.ErrSerialization, f)
	}
	if records == nil {
		records = []types.Bookmark{}
	}
	for i := range records {
		if err := normalize(&records[i]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return records, nil
}

// normalize rewrites the link to its canonical form and an empty tag list
// to nil, matching records read back from a store.
func normalize(b *types.Bookmark) error {
	link, err := types.CanonicalLink(b.Link)
	if err != nil {
		return err
	}
	b.Link = link
	if len(b.Tags) == 0 {
		b.Tags = nil
	}
	return nil
}
