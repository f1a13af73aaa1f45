// Package mongo reads simplicial complexes stored in a MongoDB collection.
//
// Each document is one simplex:
//
//	{"complex_id": "fan6", "dim": 1, "seq": 0, "vertices": [0, 1]}
//
// Simplices of one dimension are enumerated in ascending seq order.
// Sources are addressed with a URI whose path names the database, whose
// "collection" query parameter names the collection (default "simplices")
// and whose fragment is the complex id:
//
//	mongodb://localhost:27017/sight?collection=simplices#fan6
package mongo

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/simplexsight/pkg/complex"
	"github.com/matzehuels/simplexsight/pkg/errors"
)

// DefaultCollection is used when the URI has no collection parameter.
const DefaultCollection = "simplices"

// Target is a parsed source URI.
type Target struct {
	ClientURI  string // URI handed to the driver (without fragment and collection)
	Database   string
	Collection string
	ComplexID  string
}

// ParseURI splits a source URI into driver URI, database, collection and
// complex id.
func ParseURI(raw string) (Target, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return Target{}, errors.Wrap(errors.ErrCodeInvalidSource, err, "parse mongo uri")
	}
	if u.Scheme != "mongodb" && u.Scheme != "mongodb+srv" {
		return Target{}, errors.New(errors.ErrCodeInvalidSource, "not a mongodb uri: %q", raw)
	}

	t := Target{
		Database:   strings.Trim(u.Path, "/"),
		Collection: u.Query().Get("collection"),
		ComplexID:  u.Fragment,
	}
	if t.Database == "" {
		return Target{}, errors.New(errors.ErrCodeInvalidSource, "mongo uri needs a database path")
	}
	if t.ComplexID == "" {
		return Target{}, errors.New(errors.ErrCodeInvalidSource, "mongo uri needs a #<complex-id> fragment")
	}
	if t.Collection == "" {
		t.Collection = DefaultCollection
	}

	q := u.Query()
	q.Del("collection")
	u.RawQuery = q.Encode()
	u.Fragment = ""
	u.Path = "/"
	t.ClientURI = u.String()
	return t, nil
}

// simplexDoc is the stored shape of one simplex.
type simplexDoc struct {
	ComplexID string `bson:"complex_id"`
	Dim       int    `bson:"dim"`
	Seq       int    `bson:"seq"`
	Vertices  []any  `bson:"vertices"`
}

// Source reads one complex from a collection. It implements complex.Reader.
type Source struct {
	client *mongo.Client
	coll   *mongo.Collection
	id     string
}

// Connect dials MongoDB and returns a source for the complex named by uri.
// The caller must Close the source.
func Connect(ctx context.Context, uri string) (*Source, error) {
	t, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(t.ClientURI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "ping mongodb")
	}
	return &Source{
		client: client,
		coll:   client.Database(t.Database).Collection(t.Collection),
		id:     t.ComplexID,
	}, nil
}

// NewSource wraps an existing collection handle. Close is a no-op for
// sources built this way.
func NewSource(coll *mongo.Collection, complexID string) *Source {
	return &Source{coll: coll, id: complexID}
}

// Close disconnects the client if Connect created it.
func (s *Source) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(context.Background())
}

// Simplices implements complex.Reader.
func (s *Source) Simplices(ctx context.Context, dim int) ([]complex.Simplex, error) {
	filter := bson.D{{Key: "complex_id", Value: s.id}, {Key: "dim", Value: dim}}
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}})

	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "find simplices of dimension %d", dim)
	}
	var docs []simplexDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSource, err, "decode simplices of dimension %d", dim)
	}

	out := make([]complex.Simplex, 0, len(docs))
	for _, d := range docs {
		simplex, err := decodeVertices(d.Vertices)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSource, err, "simplex seq %d", d.Seq)
		}
		out = append(out, simplex)
	}
	return out, nil
}

// Dimension implements complex.Reader.
func (s *Source) Dimension(ctx context.Context) (int, error) {
	filter := bson.D{{Key: "complex_id", Value: s.id}}
	opts := options.FindOne().SetSort(bson.D{{Key: "dim", Value: -1}}).SetProjection(bson.D{{Key: "dim", Value: 1}})

	var doc simplexDoc
	err := s.coll.FindOne(ctx, filter, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return -1, nil
	}
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeSource, err, "query dimension")
	}
	return doc.Dim, nil
}

// Replace stores r under the source's complex id, removing any simplices
// previously stored under it. It returns the number of simplices written.
func (s *Source) Replace(ctx context.Context, r complex.Reader) (int, error) {
	docs, err := Documents(ctx, s.id, r)
	if err != nil {
		return 0, err
	}
	if _, err := s.coll.DeleteMany(ctx, bson.D{{Key: "complex_id", Value: s.id}}); err != nil {
		return 0, errors.Wrap(errors.ErrCodeSource, err, "clear complex %s", s.id)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return 0, errors.Wrap(errors.ErrCodeSource, err, "insert complex %s", s.id)
	}
	return len(docs), nil
}

// Documents converts a complex into insertable documents, one per simplex.
func Documents(ctx context.Context, complexID string, r complex.Reader) ([]any, error) {
	top, err := r.Dimension(ctx)
	if err != nil {
		return nil, err
	}
	var docs []any
	for d := 0; d <= top; d++ {
		simplices, err := r.Simplices(ctx, d)
		if err != nil {
			return nil, err
		}
		for seq, simplex := range simplices {
			docs = append(docs, simplexDoc{
				ComplexID: complexID,
				Dim:       d,
				Seq:       seq,
				Vertices:  encodeVertices(simplex),
			})
		}
	}
	return docs, nil
}

func decodeVertices(raw []any) (complex.Simplex, error) {
	out := make(complex.Simplex, len(raw))
	for i, x := range raw {
		v, err := complex.FromAny(x)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func encodeVertices(s complex.Simplex) []any {
	out := make([]any, len(s))
	for i, v := range s {
		if n, ok := v.Int64(); ok {
			out[i] = n
		} else {
			out[i] = v.String()
		}
	}
	return out
}

var _ complex.Reader = (*Source)(nil)
