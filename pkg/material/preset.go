package material

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/errors"
)

// Format is a preset file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatOf infers the preset format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	}
	return "", errors.New(errors.ErrCodeUnsupported, "unsupported material file %q (want .yaml, .toml or .json)", path)
}

// Preset is the file form of a Store.
//
//	defaults:
//	  vertices: {color: "#cccccc", size: 8}
//	overrides:
//	  - class: vertex
//	    vertices: [0]
//	    props: {color: "#ff0000"}
type Preset struct {
	NodeSize  float64          `json:"node_size,omitempty" yaml:"node_size,omitempty" toml:"node_size,omitempty"`
	Defaults  map[string]Props `json:"defaults,omitempty" yaml:"defaults,omitempty" toml:"defaults,omitempty"`
	Overrides []Override       `json:"overrides,omitempty" yaml:"overrides,omitempty" toml:"overrides,omitempty"`
}

// Override is one per-element entry of a Preset.
type Override struct {
	Class    string `json:"class" yaml:"class" toml:"class"`
	Vertices []any  `json:"vertices" yaml:"vertices" toml:"vertices"`
	Props    Props  `json:"props" yaml:"props" toml:"props"`
}

// LoadFile reads a preset file.
func LoadFile(path string) (*Preset, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "material file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f, format)
}

// Decode reads a preset in the given format.
func Decode(r io.Reader, format Format) (*Preset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read preset")
	}

	var p Preset
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &p)
	case FormatTOML:
		_, err = toml.Decode(string(data), &p)
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		err = dec.Decode(&p)
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported preset format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s preset", format)
	}
	return &p, nil
}

// Apply replaces the class defaults of s with the preset's and merges its
// overrides. Node size is only changed when the preset sets one.
func (p *Preset) Apply(s *Store) error {
	defaults := make(map[Class]Props, len(p.Defaults))
	for tag, props := range p.Defaults {
		c, err := ParseClass(tag)
		if err != nil {
			return err
		}
		defaults[c] = props
	}
	if err := s.SetDefaults(defaults); err != nil {
		return err
	}

	for i, o := range p.Overrides {
		tokens := make(complex.Simplex, len(o.Vertices))
		for j, raw := range o.Vertices {
			v, err := complex.FromAny(raw)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "override %d", i)
			}
			tokens[j] = v
		}
		if err := s.SetElementOverride(o.Class, tokens, o.Props); err != nil {
			return errors.Wrap(errors.GetCode(err), err, "override %d", i)
		}
	}

	if p.NodeSize > 0 {
		return s.SetNodeSize(p.NodeSize)
	}
	return nil
}

// Preset exports s. Classes and overrides come out in a fixed order so
// equal stores produce equal presets.
func (s *Store) Preset() *Preset {
	p := &Preset{NodeSize: s.nodeSize}
	for _, c := range Classes {
		if s.defaults[c] != nil {
			if p.Defaults == nil {
				p.Defaults = make(map[string]Props)
			}
			p.Defaults[c.String()] = s.defaults[c].Clone()
		}

		keys := slices.Clone(s.order[c])
		slices.Sort(keys)
		for _, k := range keys {
			o := s.overrides[c][k]
			vs := make([]any, len(o.tokens))
			for i, v := range o.tokens {
				if n, ok := v.Int64(); ok {
					vs[i] = n
				} else {
					vs[i] = v.String()
				}
			}
			p.Overrides = append(p.Overrides, Override{Class: c.String(), Vertices: vs, Props: o.props.Clone()})
		}
	}
	return p
}

// Fingerprint returns a canonical encoding of every layer in s. Equal
// stores have equal fingerprints.
func (s *Store) Fingerprint() ([]byte, error) {
	data, err := json.Marshal(s.Preset())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode materials")
	}
	return data, nil
}

// Encode writes p in the given format.
func (p *Preset) Encode(w io.Writer, format Format) error {
	var err error
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		err = enc.Encode(p)
		if err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(p)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(p)
	default:
		return errors.New(errors.ErrCodeUnsupported, "unsupported preset format %q", format)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s preset", format)
	}
	return nil
}

// WriteFile writes the preset of s to path, choosing the format from the
// extension.
func WriteFile(path string, s *Store) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := s.Preset().Encode(f, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
