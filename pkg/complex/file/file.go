// Package file reads simplicial complexes from JSON or TOML files.
//
// Both formats list simplices as arrays of vertex tokens (integers or
// strings). Order within the file is preserved per dimension.
//
// JSON:
//
//	{"simplices": [[0], [1], [0, 1], ["a", "b", "c"]]}
//
// A bare top-level array is accepted as well.
//
// TOML:
//
//	simplices = [[0], [1], [0, 1], ["a", "b", "c"]]
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/errors"
)

// Format identifies a complex file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
)

// document is the on-disk shape shared by both encodings.
type document struct {
	Simplices [][]any `json:"simplices" toml:"simplices"`
}

// FormatOf infers the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidSource, "unsupported complex file %q (want .json or .toml)", path)
}

// ReadFile loads a complex from path, choosing the decoder by extension.
func ReadFile(path string) (*complex.Complex, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	c, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Read decodes a complex from r in the given format.
func Read(r io.Reader, format Format) (*complex.Complex, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var doc document
	switch format {
	case FormatJSON:
		doc, err = decodeJSON(data)
	case FormatTOML:
		_, err = toml.Decode(string(data), &doc)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", format)
	}
	return build(doc)
}

func decodeJSON(data []byte) (document, error) {
	var doc document
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err := dec.Decode(&doc.Simplices)
		return doc, err
	}
	err := dec.Decode(&doc)
	return doc, err
}

func build(doc document) (*complex.Complex, error) {
	c := complex.New()
	for i, raw := range doc.Simplices {
		s := make(complex.Simplex, len(raw))
		for j, tok := range raw {
			v, err := complex.FromAny(tok)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "simplex %d", i)
			}
			s[j] = v
		}
		c.Add(s)
	}
	return c, nil
}

// Write encodes every simplex of c to w in the given format, lowest
// dimension first.
func Write(ctx context.Context, w io.Writer, c complex.Reader, format Format) error {
	all, err := complex.All(ctx, c)
	if err != nil {
		return err
	}
	doc := document{Simplices: make([][]any, len(all))}
	for i, s := range all {
		row := make([]any, len(s))
		for j, v := range s {
			if n, ok := v.Int64(); ok {
				row[j] = n
			} else {
				row[j] = v.String()
			}
		}
		doc.Simplices[i] = row
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(doc)
	}
	return errors.New(errors.ErrCodeUnsupported, "unsupported format %q", format)
}
