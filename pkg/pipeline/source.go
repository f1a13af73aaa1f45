package pipeline

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/complex/file"
	"github.com/matzehuels/simplexsight/pkg/complex/mongo"
	"github.com/matzehuels/simplexsight/pkg/complex/sqlite"
	"github.com/matzehuels/simplexsight/pkg/errors"
	"github.com/matzehuels/simplexsight/pkg/observability"
)

// Source kinds.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMongo  = "mongodb"
	KindSample = "sample"
)

// DefaultFanSize is the rim length of sample:fan without a size.
const DefaultFanSize = 6

// Source is an opened complex.
type Source struct {
	complex.Reader
	Kind  string
	URI   string
	close func() error
}

// Close releases the backing connection, if any.
func (s *Source) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

// OpenSource resolves a source reference:
//
//	path/to/complex.json | path/to/complex.toml
//	sqlite://path/to/store.db#<complex-id>
//	mongodb://host/db?collection=simplices#<complex-id>
//	sample:fan[:n] | sample:boundary | sample:tetrahedron
//
// Database-backed readers report every query to the observability source
// hooks. The caller must Close the returned source.
func OpenSource(ctx context.Context, uri string) (*Source, error) {
	if err := errors.ValidateSourceURI(uri); err != nil {
		return nil, err
	}

	switch {
	case strings.HasPrefix(uri, "sample:"):
		c, err := Sample(strings.TrimPrefix(uri, "sample:"))
		if err != nil {
			return nil, err
		}
		return &Source{Reader: c, Kind: KindSample, URI: uri}, nil

	case strings.HasPrefix(uri, "sqlite://"):
		rest := strings.TrimPrefix(uri, "sqlite://")
		i := strings.LastIndex(rest, "#")
		path, id := rest[:i], rest[i+1:]
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		return &Source{
			Reader: instrument(store.Complex(id), KindSQLite),
			Kind:   KindSQLite,
			URI:    uri,
			close:  store.Close,
		}, nil

	case strings.HasPrefix(uri, "mongodb://"), strings.HasPrefix(uri, "mongodb+srv://"):
		src, err := mongo.Connect(ctx, uri)
		if err != nil {
			return nil, err
		}
		return &Source{
			Reader: instrument(src, KindMongo),
			Kind:   KindMongo,
			URI:    uri,
			close:  src.Close,
		}, nil
	}

	c, err := file.ReadFile(uri)
	if err != nil {
		return nil, err
	}
	return &Source{Reader: c, Kind: KindFile, URI: uri}, nil
}

// Sample builds one of the bundled example complexes by name.
func Sample(name string) (*complex.Complex, error) {
	base, arg, hasArg := strings.Cut(name, ":")
	switch base {
	case "fan":
		n := DefaultFanSize
		if hasArg {
			v, err := strconv.Atoi(arg)
			if err != nil || v < 3 {
				return nil, errors.New(errors.ErrCodeInvalidSource, "sample fan size must be an integer >= 3, got %q", arg)
			}
			n = v
		}
		return complex.Fan(n), nil
	case "boundary":
		return complex.TetrahedronBoundary(), nil
	case "tetrahedron":
		return complex.SolidTetrahedron(), nil
	}
	return nil, errors.New(errors.ErrCodeInvalidSource, "unknown sample %q (want fan, boundary or tetrahedron)", name)
}

// SampleNames lists the bundled samples.
var SampleNames = []string{"fan", "boundary", "tetrahedron"}

// instrumentedReader reports queries to the source hooks.
type instrumentedReader struct {
	complex.Reader
	backend string
}

func instrument(r complex.Reader, backend string) complex.Reader {
	return &instrumentedReader{Reader: r, backend: backend}
}

func (r *instrumentedReader) Simplices(ctx context.Context, dim int) ([]complex.Simplex, error) {
	start := time.Now()
	out, err := r.Reader.Simplices(ctx, dim)
	if err != nil {
		observability.Source().OnError(ctx, r.backend, dim, err)
		return nil, err
	}
	observability.Source().OnQuery(ctx, r.backend, dim, len(out), time.Since(start))
	return out, nil
}
